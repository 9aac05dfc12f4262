// Package kv provides key-addressed durable storage for the auditor's
// user, ledger, and session records. The storage medium is swappable: a
// single-file JSON store mirrors browser local storage, a memory store backs
// tests, and a PostgreSQL store serves shared deployments.
package kv

// Store is a minimal key-value contract. Values are opaque JSON payloads;
// callers own serialization so the medium never shapes the data model.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)
	// Set writes the value for key, replacing any existing value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys lists all stored keys in unspecified order.
	Keys() ([]string, error)
}

// Well-known record keys. The validated-skill ledger appends the user id.
const (
	KeyCurrentUser   = "currentUser"
	KeySavedSessions = "savedSessions"
	KeyLedgerPrefix  = "validatedSkills:"
)

// LedgerKey returns the ledger record key for a user.
func LedgerKey(userID string) string {
	return KeyLedgerPrefix + userID
}
