// Package identity maps email addresses to stable user identifiers and
// tracks the signed-in user.
package identity

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/syllabus-auditor/internal/kv"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

// Default profile fields assigned on first login.
const (
	DefaultRole = "Curriculum Developer"
	DefaultBio  = "Academic bridging industry gaps."
)

// Store persists the current user. One user record is active at a time;
// logging in with the same email overwrites the display fields but always
// yields the same id.
type Store struct {
	kv kv.Store
}

// NewStore creates a Store backed by the given key-value medium.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// UserID derives the stable identifier for an email: the base64 encoding of
// the lowercased, trimmed address. Deliberately reversible, not a hash —
// two ids collide only if the emails do.
func UserID(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return base64.StdEncoding.EncodeToString([]byte(normalized))
}

// Login builds a user record for the email, persists it as the current user,
// and returns it. Idempotent per email+name pair.
func (s *Store) Login(email, name string) (*types.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, fmt.Errorf("email is required")
	}

	user := &types.User{
		ID:     UserID(email),
		Name:   name,
		Email:  normalized,
		Role:   DefaultRole,
		Bio:    DefaultBio,
		Avatar: "",
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.kv.Set(kv.KeyCurrentUser, payload); err != nil {
		return nil, fmt.Errorf("failed to persist current user: %w", err)
	}
	return user, nil
}

// CurrentUser returns the persisted current user, or nil when nobody is
// signed in. A corrupt record is treated as signed out, never an error.
func (s *Store) CurrentUser() *types.User {
	payload, ok, err := s.kv.Get(kv.KeyCurrentUser)
	if err != nil || !ok {
		return nil
	}

	var user types.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil
	}
	if user.ID == "" {
		return nil
	}
	return &user
}

// Logout clears the current-user pointer only. Saved sessions and the
// validated-skill ledger stay retrievable for the next login with the same
// email.
func (s *Store) Logout() error {
	if err := s.kv.Delete(kv.KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}
