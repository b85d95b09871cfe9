package cache

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/ndutagrace25/esperanza-internal/internal/application/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisRunStore deduplicates reminder batch runs using Redis. Suitable for
// deployments where more than one instance may trigger the same batch.
type RedisRunStore struct {
	client    *redis.Client
	keyPrefix string
	retention time.Duration
}

// NewRedisRunStore creates a Redis-backed reminder run store
func NewRedisRunStore(cfg config.RedisConfig, retention time.Duration) (*RedisRunStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunStore{
		client:    client,
		keyPrefix: "reminder:run:",
		retention: retention,
	}, nil
}

// NewRedisRunStoreWithClient creates a store with an existing Redis client
func NewRedisRunStoreWithClient(client *redis.Client, retention time.Duration) *RedisRunStore {
	return &RedisRunStore{
		client:    client,
		keyPrefix: "reminder:run:",
		retention: retention,
	}
}

// TryBegin atomically claims a run key. Returns true if this caller owns the
// run, false if the batch already ran.
func (s *RedisRunStore) TryBegin(ctx context.Context, runKey string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+runKey, "1", s.retention).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim run key: %w", err)
	}
	return ok, nil
}

// Close closes the Redis client
func (s *RedisRunStore) Close() error {
	return s.client.Close()
}

var _ appbilling.ReminderRunStore = (*RedisRunStore)(nil)
