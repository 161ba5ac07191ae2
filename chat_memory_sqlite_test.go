package maya

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klaus04-hub/maya/observability"
)

func setupSQLiteStorage(t *testing.T) *SQLiteMemoryStorage {
	t.Helper()

	tempFile, err := os.CreateTemp("", "chat_memory_test_*.db")
	require.NoError(t, err)
	tempFilePath := tempFile.Name()
	tempFile.Close()

	storage, err := NewSQLiteMemoryStorage(tempFilePath, time.Hour, observability.NewNullLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		storage.Close()
		os.Remove(tempFilePath)
	})
	return storage
}

func TestNewSQLiteMemoryStorage_InvalidPath(t *testing.T) {
	_, err := NewSQLiteMemoryStorage("/non/existent/directory/invalid.db", time.Hour, observability.NewNullLogger())
	assert.Error(t, err)
}

func TestSQLiteMemoryStorage_SaveAndGet(t *testing.T) {
	storage := setupSQLiteStorage(t)
	ctx := context.Background()

	turns := []Turn{
		{Role: UserRole, Content: "oi"},
		{Role: AssistantRole, Content: "oi! 😊"},
	}
	require.NoError(t, storage.SaveHistory(ctx, "42", turns))

	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, turns, got)
}

func TestSQLiteMemoryStorage_SaveReplacesExisting(t *testing.T) {
	storage := setupSQLiteStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "primeira"}}))
	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "segunda"}}))

	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "segunda", got[0].Content)
}

func TestSQLiteMemoryStorage_GetUnknownUser(t *testing.T) {
	storage := setupSQLiteStorage(t)

	got, err := storage.GetHistory(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteMemoryStorage_DeleteHistory(t *testing.T) {
	storage := setupSQLiteStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "oi"}}))
	require.NoError(t, storage.DeleteHistory(ctx, "42"))

	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, storage.DeleteHistory(ctx, "42"))
}

func TestSQLiteMemoryStorage_CountUsers(t *testing.T) {
	storage := setupSQLiteStorage(t)
	ctx := context.Background()

	count, err := storage.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, storage.SaveHistory(ctx, "1", []Turn{{Role: UserRole, Content: "a"}}))
	require.NoError(t, storage.SaveHistory(ctx, "2", []Turn{{Role: UserRole, Content: "b"}}))

	count, err = storage.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteMemoryStorage_ExpiredRowReadsAsEmpty(t *testing.T) {
	storage := setupSQLiteStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "oi"}}))

	// Force the row into the past.
	_, err := storage.db.ExecContext(ctx,
		`UPDATE histories SET expires_at = ? WHERE user_id = ?`,
		time.Now().UTC().Add(-time.Minute), "42",
	)
	require.NoError(t, err)

	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := storage.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
