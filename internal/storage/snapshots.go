package storage

import (
	"context"
	"fmt"

	"companion_bot/internal/engine"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists conversation snapshots in Redis, keyed per user.
// Snapshots have no TTL; they live until the conversation is reset.
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore connects to Redis and verifies the connection.
func NewSnapshotStore(ctx context.Context, redisURL string) (*SnapshotStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SnapshotStore{client: client}, nil
}

func snapshotKey(userID string) string {
	return "snapshot:" + userID
}

// Save writes one user's conversation snapshot.
func (s *SnapshotStore) Save(ctx context.Context, userID string, snap *engine.Snapshot) error {
	data, err := sonic.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load reads one user's snapshot. A missing key returns (nil, nil).
func (s *SnapshotStore) Load(ctx context.Context, userID string) (*engine.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap engine.Snapshot
	if err := sonic.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a user's snapshot, used on conversation reset.
func (s *SnapshotStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, snapshotKey(userID)).Err()
}

// HealthCheck pings the backing store.
func (s *SnapshotStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client connection.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
