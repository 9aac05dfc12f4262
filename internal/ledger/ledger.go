// Package ledger records, per user, every skill ever verified by quiz.
// The set grows monotonically across sessions: mastery once proven is never
// re-tested.
package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/syllabus-auditor/internal/kv"
)

// Ledger is the per-user global validated-skill set.
type Ledger struct {
	kv kv.Store
}

// New creates a Ledger backed by the given key-value medium.
func New(store kv.Store) *Ledger {
	return &Ledger{kv: store}
}

// Load returns the persisted validated-skill set for a user. A missing or
// corrupt record yields an empty set.
func (l *Ledger) Load(userID string) map[string]bool {
	set := make(map[string]bool)

	payload, ok, err := l.kv.Get(kv.LedgerKey(userID))
	if err != nil || !ok {
		return set
	}

	var names []string
	if err := json.Unmarshal(payload, &names); err != nil {
		return set
	}
	for _, name := range names {
		if name != "" {
			set[name] = true
		}
	}
	return set
}

// Merge unions the given skill names into the user's persisted set and
// returns the full set. Merging an already-present name leaves the stored
// content unchanged.
func (l *Ledger) Merge(userID string, names ...string) (map[string]bool, error) {
	set := l.Load(userID)

	changed := false
	for _, name := range names {
		if name == "" || set[name] {
			continue
		}
		set[name] = true
		changed = true
	}
	if !changed {
		return set, nil
	}

	sorted := make([]string, 0, len(set))
	for name := range set {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	payload, err := json.Marshal(sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err := l.kv.Set(kv.LedgerKey(userID), payload); err != nil {
		return nil, fmt.Errorf("failed to persist ledger for %s: %w", userID, err)
	}
	return set, nil
}

// Intersect returns the members of names already present in the user's set,
// preserving the order of names. Used to pre-validate known gaps the moment
// a fresh analysis arrives.
func (l *Ledger) Intersect(userID string, names []string) []string {
	set := l.Load(userID)
	matched := make([]string, 0, len(names))
	for _, name := range names {
		if set[name] {
			matched = append(matched, name)
		}
	}
	return matched
}
