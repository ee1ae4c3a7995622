package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/tapp-client/pkg/config"
)

// RedisMirror persists the snapshot as JSON at a single Redis key, so
// multiple client instances can share the same active session and role.
type RedisMirror struct {
	client *redis.Client
	key    string
}

// NewRedisMirror connects to Redis and returns a mirror at the given key.
func NewRedisMirror(cfg config.RedisConfig, key string) (*RedisMirror, error) {
	if key == "" {
		key = "tapp:client:state"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisMirror{client: client, key: key}, nil
}

// Load reads the snapshot. A missing key yields an empty snapshot.
func (m *RedisMirror) Load(ctx context.Context) (Snapshot, error) {
	raw, err := m.client.Get(ctx, m.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("read state key: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode state key: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot.
func (m *RedisMirror) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode state snapshot: %w", err)
	}
	if err := m.client.Set(ctx, m.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("write state key: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (m *RedisMirror) Close() error {
	return m.client.Close()
}
