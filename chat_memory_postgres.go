package maya

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klaus04-hub/maya/observability"
)

// PostgresMemoryStorage is a PostgreSQL implementation of MemoryStorage,
// mirroring the SQLite store on a chat_memories table.
type PostgresMemoryStorage struct {
	db        *sql.DB
	retention time.Duration
	logger    observability.Logger
}

// NewPostgresMemoryStorage creates a new instance of PostgresMemoryStorage
// on an already-opened database handle.
func NewPostgresMemoryStorage(db *sql.DB, retention time.Duration, logger observability.Logger) (*PostgresMemoryStorage, error) {
	storage := &PostgresMemoryStorage{
		db:        db,
		retention: retention,
		logger:    logger,
	}

	if err := storage.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresMemoryStorage) initSchema(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS chat_memories (
		user_id TEXT PRIMARY KEY,
		turns JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);`

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create chat_memories table: %w", err)
	}
	return nil
}

// GetHistory retrieves the stored turns for a user.
func (s *PostgresMemoryStorage) GetHistory(ctx context.Context, userID string) ([]Turn, error) {
	var encoded []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT turns FROM chat_memories WHERE user_id = $1 AND expires_at > NOW()`,
		userID,
	).Scan(&encoded)
	if err == sql.ErrNoRows {
		return []Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history for user %s: %w", userID, err)
	}

	var turns []Turn
	if err := json.Unmarshal(encoded, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode history for user %s: %w", userID, err)
	}
	return turns, nil
}

// SaveHistory replaces the user's stored turns and refreshes the expiry.
func (s *PostgresMemoryStorage) SaveHistory(ctx context.Context, userID string, turns []Turn) error {
	encoded, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to encode history for user %s: %w", userID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_memories (user_id, turns, expires_at) VALUES ($1, $2, NOW() + $3::interval)
		 ON CONFLICT (user_id) DO UPDATE SET turns = EXCLUDED.turns, expires_at = EXCLUDED.expires_at`,
		userID, encoded, fmt.Sprintf("%d seconds", int(s.retention.Seconds())),
	)
	if err != nil {
		return fmt.Errorf("failed to write history for user %s: %w", userID, err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_memories WHERE expires_at <= NOW()`); err != nil {
		s.logger.WithErr(err).Warn("failed to prune expired histories")
	}
	return nil
}

// DeleteHistory removes the user's stored turns.
func (s *PostgresMemoryStorage) DeleteHistory(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_memories WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete history for user %s: %w", userID, err)
	}
	return nil
}

// CountUsers returns the number of distinct users with unexpired history.
func (s *PostgresMemoryStorage) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_memories WHERE expires_at > NOW()`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count histories: %w", err)
	}
	return count, nil
}
