package maya

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klaus04-hub/maya/observability"
)

// SQLiteMemoryStorage is an SQLite implementation of MemoryStorage.
// Expiry is enforced by an expires_at column: expired rows read as
// absent and are pruned opportunistically on writes.
type SQLiteMemoryStorage struct {
	db        *sql.DB
	retention time.Duration
	logger    observability.Logger
}

// NewSQLiteMemoryStorage creates a new instance of SQLiteMemoryStorage.
// It takes the path to the SQLite database file.
func NewSQLiteMemoryStorage(databasePath string, retention time.Duration, logger observability.Logger) (*SQLiteMemoryStorage, error) {
	db, err := sql.Open("sqlite3", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteMemoryStorage{
		db:        db,
		retention: retention,
		logger:    logger,
	}

	if err := storage.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return storage, nil
}

// initSchema creates the necessary table if it doesn't exist
func (s *SQLiteMemoryStorage) initSchema(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS histories (
		user_id TEXT PRIMARY KEY,
		turns TEXT NOT NULL,
		expires_at DATETIME NOT NULL
	);`

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_histories_expires_at ON histories (expires_at);
	`

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create histories table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("failed to create expiry index: %w", err)
	}
	return nil
}

// GetHistory retrieves the stored turns for a user.
func (s *SQLiteMemoryStorage) GetHistory(ctx context.Context, userID string) ([]Turn, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		`SELECT turns FROM histories WHERE user_id = ? AND expires_at > ?`,
		userID, time.Now().UTC(),
	).Scan(&encoded)
	if err == sql.ErrNoRows {
		return []Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history for user %s: %w", userID, err)
	}

	var turns []Turn
	if err := json.Unmarshal([]byte(encoded), &turns); err != nil {
		return nil, fmt.Errorf("failed to decode history for user %s: %w", userID, err)
	}
	return turns, nil
}

// SaveHistory replaces the user's stored turns and refreshes the expiry.
func (s *SQLiteMemoryStorage) SaveHistory(ctx context.Context, userID string, turns []Turn) error {
	encoded, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to encode history for user %s: %w", userID, err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO histories (user_id, turns, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET turns = excluded.turns, expires_at = excluded.expires_at`,
		userID, string(encoded), now.Add(s.retention),
	)
	if err != nil {
		return fmt.Errorf("failed to write history for user %s: %w", userID, err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM histories WHERE expires_at <= ?`, now); err != nil {
		s.logger.WithErr(err).Warn("failed to prune expired histories")
	}
	return nil
}

// DeleteHistory removes the user's stored turns.
func (s *SQLiteMemoryStorage) DeleteHistory(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM histories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete history for user %s: %w", userID, err)
	}
	return nil
}

// CountUsers returns the number of distinct users with unexpired history.
func (s *SQLiteMemoryStorage) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM histories WHERE expires_at > ?`, time.Now().UTC(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count histories: %w", err)
	}
	return count, nil
}

// Close closes the underlying database handle.
func (s *SQLiteMemoryStorage) Close() error {
	return s.db.Close()
}
