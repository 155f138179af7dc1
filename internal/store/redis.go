package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

const keyPrefix = "classmate:workspace:"

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}
	return client, nil
}

// Redis keeps the snapshot as JSON under classmate:workspace:<name>.
// A zero TTL stores the key without expiry.
type Redis struct {
	client *redis.Client
	name   string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, name string, ttl time.Duration) *Redis {
	if name == "" {
		name = "default"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{client: client, name: name, ttl: ttl}
}

func (r *Redis) Load(ctx context.Context) (workspace.Snapshot, bool, error) {
	raw, err := r.client.Get(ctx, r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return workspace.Snapshot{}, false, nil
	}
	if err != nil {
		return workspace.Snapshot{}, false, fmt.Errorf("redis get workspace failed: %w", err)
	}
	var snap workspace.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return workspace.Snapshot{}, false, fmt.Errorf("unmarshal cached workspace failed: %w", err)
	}
	return snap, true, nil
}

func (r *Redis) Save(ctx context.Context, snap workspace.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal workspace failed: %w", err)
	}
	if err := r.client.Set(ctx, r.key(), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set workspace failed: %w", err)
	}
	return nil
}

// Delete removes the stored snapshot.
func (r *Redis) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		return fmt.Errorf("redis delete workspace failed: %w", err)
	}
	return nil
}

func (r *Redis) key() string { return keyPrefix + r.name }
