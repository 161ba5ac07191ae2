package maya

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMemoryStorage is a Redis implementation of MemoryStorage. Each
// user's history lives under one key as a JSON-encoded turn sequence;
// every write replaces the whole value and refreshes its TTL, so the
// store itself enforces the retention window.
type RedisMemoryStorage struct {
	client    redis.UniversalClient
	retention time.Duration
}

// NewRedisMemoryStorage creates a new instance of RedisMemoryStorage with
// the given client and retention window.
func NewRedisMemoryStorage(client redis.UniversalClient, retention time.Duration) *RedisMemoryStorage {
	return &RedisMemoryStorage{
		client:    client,
		retention: retention,
	}
}

// GetHistory retrieves the stored turns for a user.
func (s *RedisMemoryStorage) GetHistory(ctx context.Context, userID string) ([]Turn, error) {
	data, err := s.client.Get(ctx, MemoryKey(userID)).Result()
	if err == redis.Nil {
		return []Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history for user %s: %w", userID, err)
	}

	var turns []Turn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, fmt.Errorf("failed to decode history for user %s: %w", userID, err)
	}
	return turns, nil
}

// SaveHistory replaces the user's stored turns and refreshes the TTL.
func (s *RedisMemoryStorage) SaveHistory(ctx context.Context, userID string, turns []Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to encode history for user %s: %w", userID, err)
	}

	if err := s.client.Set(ctx, MemoryKey(userID), data, s.retention).Err(); err != nil {
		return fmt.Errorf("failed to write history for user %s: %w", userID, err)
	}
	return nil
}

// DeleteHistory removes the user's stored turns.
func (s *RedisMemoryStorage) DeleteHistory(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, MemoryKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete history for user %s: %w", userID, err)
	}
	return nil
}

// CountUsers returns the number of distinct users with stored history.
func (s *RedisMemoryStorage) CountUsers(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, memoryKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan history keys: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}
