package maya

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMemoryStorage_SaveAndGet(t *testing.T) {
	storage := NewInMemoryMemoryStorage(time.Hour)
	ctx := context.Background()

	turns := []Turn{
		{Role: UserRole, Content: "oi"},
		{Role: AssistantRole, Content: "oi! tudo bem? 😊"},
	}
	require.NoError(t, storage.SaveHistory(ctx, "42", turns))

	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, turns, got)
}

func TestInMemoryMemoryStorage_GetUnknownUser(t *testing.T) {
	storage := NewInMemoryMemoryStorage(time.Hour)

	got, err := storage.GetHistory(context.Background(), "42")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInMemoryMemoryStorage_GetReturnsCopy(t *testing.T) {
	storage := NewInMemoryMemoryStorage(time.Hour)
	ctx := context.Background()

	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "oi"}}))

	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	got[0].Content = "mutated"

	fresh, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "oi", fresh[0].Content)
}

func TestInMemoryMemoryStorage_Expiry(t *testing.T) {
	storage := NewInMemoryMemoryStorage(time.Hour)
	ctx := context.Background()

	now := time.Now()
	storage.now = func() time.Time { return now }
	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "oi"}}))

	// Still alive just before the retention window ends.
	storage.now = func() time.Time { return now.Add(59 * time.Minute) }
	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	storage.now = func() time.Time { return now.Add(2 * time.Hour) }
	got, err = storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := storage.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInMemoryMemoryStorage_SaveRefreshesExpiry(t *testing.T) {
	storage := NewInMemoryMemoryStorage(time.Hour)
	ctx := context.Background()

	now := time.Now()
	storage.now = func() time.Time { return now }
	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "oi"}}))

	storage.now = func() time.Time { return now.Add(50 * time.Minute) }
	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "oi de novo"}}))

	// 80 minutes after the first write, 30 after the refresh.
	storage.now = func() time.Time { return now.Add(80 * time.Minute) }
	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestInMemoryMemoryStorage_DeleteHistory(t *testing.T) {
	storage := NewInMemoryMemoryStorage(time.Hour)
	ctx := context.Background()

	require.NoError(t, storage.SaveHistory(ctx, "42", []Turn{{Role: UserRole, Content: "oi"}}))
	require.NoError(t, storage.DeleteHistory(ctx, "42"))

	got, err := storage.GetHistory(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Deleting again is a no-op.
	assert.NoError(t, storage.DeleteHistory(ctx, "42"))
}

func TestInMemoryMemoryStorage_CountUsers(t *testing.T) {
	storage := NewInMemoryMemoryStorage(time.Hour)
	ctx := context.Background()

	require.NoError(t, storage.SaveHistory(ctx, "1", []Turn{{Role: UserRole, Content: "a"}}))
	require.NoError(t, storage.SaveHistory(ctx, "2", []Turn{{Role: UserRole, Content: "b"}}))

	count, err := storage.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
