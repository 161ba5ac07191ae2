package maya

import (
	"context"
)

// Turn is one role-tagged message in a stored conversation history.
// Its JSON shape ({"role":...,"content":...}) is also the wire shape
// persisted into the key-value store.
type Turn struct {
	Role    LLMMessageRole `json:"role"`
	Content string         `json:"content"`
}

// MemoryStorage defines the interface for per-user conversation memory.
// Histories are keyed by an opaque user identifier, stored as an ordered
// sequence of turns, and expire after a retention window of inactivity.
type MemoryStorage interface {
	// GetHistory retrieves the stored turns for a user. A user with no
	// stored history yields an empty slice, not an error.
	GetHistory(ctx context.Context, userID string) ([]Turn, error)

	// SaveHistory replaces the user's stored turns in a single write and
	// refreshes the retention timer.
	SaveHistory(ctx context.Context, userID string, turns []Turn) error

	// DeleteHistory removes all stored turns for a user. Deleting a user
	// with no history is a no-op.
	DeleteHistory(ctx context.Context, userID string) error

	// CountUsers returns the number of distinct users with stored history.
	CountUsers(ctx context.Context) (int, error)
}

// memoryKeyPrefix namespaces history keys in shared stores.
const memoryKeyPrefix = "memory:"

// MemoryKey returns the storage key for a user's history.
func MemoryKey(userID string) string {
	return memoryKeyPrefix + userID
}
