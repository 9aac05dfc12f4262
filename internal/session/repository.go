// Package session provides the durable repository of saved syllabus audits.
package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/jonathan/syllabus-auditor/internal/kv"
	"github.com/jonathan/syllabus-auditor/internal/scoring"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

// Repository stores saved sessions as one global record, filtered per user
// on read. All mutations run a read-modify-write cycle under a repository
// mutex so two cycles for the same record can never interleave.
type Repository struct {
	mu sync.Mutex
	kv kv.Store
}

// Stats aggregates a user's audit history for display.
type Stats struct {
	Count        int `json:"count"`
	AverageScore int `json:"averageScore"`
}

// NewRepository creates a Repository backed by the given key-value medium.
func NewRepository(store kv.Store) *Repository {
	return &Repository{kv: store}
}

// ListAll returns every saved session regardless of owner. Corrupt or
// missing storage yields an empty list, never an error.
func (r *Repository) ListAll() []types.SavedSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

// ListForUser returns the user's sessions ordered most recent first. The
// ordering is a user-visible contract for history views.
func (r *Repository) ListForUser(userID string) []types.SavedSession {
	all := r.ListAll()
	sessions := make([]types.SavedSession, 0, len(all))
	for _, s := range all {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions
}

// Get returns the session with the given id, or nil if absent.
func (r *Repository) Get(id string) *types.SavedSession {
	for _, s := range r.ListAll() {
		if s.ID == id {
			found := s
			return &found
		}
	}
	return nil
}

// Save upserts the session by id. An existing record is replaced entirely;
// callers carry forward any fields they want kept.
func (r *Repository) Save(session types.SavedSession) error {
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if session.UserID == "" {
		return fmt.Errorf("session owner is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.loadLocked()
	replaced := false
	for i := range all {
		if all[i].ID == session.ID {
			all[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		all = append([]types.SavedSession{session}, all...)
	}
	return r.storeLocked(all)
}

// UpdateValidatedSkills patches the validated-skill list of an already-saved
// session in place. A no-op when the id is not saved.
func (r *Repository) UpdateValidatedSkills(id string, validated []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.loadLocked()
	for i := range all {
		if all[i].ID == id {
			all[i].ValidatedSkills = append([]string(nil), validated...)
			return r.storeLocked(all)
		}
	}
	return nil
}

// Delete removes the session with the given id. Deleting an absent id is a
// no-op, not an error.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.loadLocked()
	kept := all[:0]
	for _, s := range all {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return r.storeLocked(kept)
}

// StatsForUser returns the audit count and the rounded mean effective score
// across the user's saved sessions, zero-valued when the history is empty.
func (r *Repository) StatsForUser(userID string) Stats {
	sessions := r.ListForUser(userID)
	if len(sessions) == 0 {
		return Stats{}
	}

	scores := make([]int, 0, len(sessions))
	for _, s := range sessions {
		if s.Analysis == nil {
			continue
		}
		scores = append(scores, scoring.EffectiveScore(
			s.Analysis.Score,
			len(s.Analysis.MissingSkills),
			len(s.ValidatedSkills),
		))
	}
	return Stats{Count: len(sessions), AverageScore: scoring.Average(scores)}
}

// loadLocked reads the global session record. Caller holds r.mu.
func (r *Repository) loadLocked() []types.SavedSession {
	payload, ok, err := r.kv.Get(kv.KeySavedSessions)
	if err != nil || !ok {
		return nil
	}
	var sessions []types.SavedSession
	if err := json.Unmarshal(payload, &sessions); err != nil {
		return nil
	}
	return sessions
}

// storeLocked writes the global session record. Caller holds r.mu.
func (r *Repository) storeLocked(sessions []types.SavedSession) error {
	if sessions == nil {
		sessions = []types.SavedSession{}
	}
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := r.kv.Set(kv.KeySavedSessions, payload); err != nil {
		return fmt.Errorf("failed to persist sessions: %w", err)
	}
	return nil
}
