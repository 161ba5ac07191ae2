package maya

import (
	"context"

	"github.com/klaus04-hub/maya/observability"
)

// DefaultMaxHistory is the maximum number of turns retained per user.
const DefaultMaxHistory = 10

// HistoryManager enforces the bounded-history policy on top of a
// MemoryStorage. Store failures never surface to callers: reads degrade
// to an empty history and write failures are logged and dropped, so the
// conversation keeps going even when persistence is down.
type HistoryManager struct {
	storage  MemoryStorage
	maxTurns int
	logger   observability.Logger
}

// NewHistoryManager creates a HistoryManager. A non-positive maxTurns
// falls back to DefaultMaxHistory.
func NewHistoryManager(storage MemoryStorage, maxTurns int, logger observability.Logger) *HistoryManager {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxHistory
	}
	return &HistoryManager{
		storage:  storage,
		maxTurns: maxTurns,
		logger:   logger,
	}
}

// Get returns the stored history for the user, or an empty slice if none
// exists or the read fails.
func (m *HistoryManager) Get(ctx context.Context, userID string) []Turn {
	turns, err := m.storage.GetHistory(ctx, userID)
	if err != nil {
		m.logger.WithErr(err).WithFields(map[string]interface{}{"user_id": userID}).
			Warn("history read failed, continuing with empty history")
		return []Turn{}
	}
	return turns
}

// Append reads the current history, appends one turn, truncates to the
// most recent maxTurns entries and writes the result back, refreshing
// the retention timer. Truncation happens on write so the persisted
// record is always bounded.
func (m *HistoryManager) Append(ctx context.Context, userID string, role LLMMessageRole, content string) {
	turns := m.Get(ctx, userID)
	turns = append(turns, Turn{Role: role, Content: content})
	if len(turns) > m.maxTurns {
		turns = turns[len(turns)-m.maxTurns:]
	}

	if err := m.storage.SaveHistory(ctx, userID, turns); err != nil {
		m.logger.WithErr(err).WithFields(map[string]interface{}{"user_id": userID}).
			Error("history write failed, turn dropped")
	}
}

// Clear deletes all stored history for the user. Clearing a user with no
// history is a no-op.
func (m *HistoryManager) Clear(ctx context.Context, userID string) error {
	return m.storage.DeleteHistory(ctx, userID)
}

// CountUsers returns the number of distinct users with stored history.
func (m *HistoryManager) CountUsers(ctx context.Context) (int, error) {
	return m.storage.CountUsers(ctx)
}
