package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// RedisProfileStore persists user profiles as JSON values keyed by user id.
// Profiles are small and rewritten whole; no TTL, they live until replaced.
type RedisProfileStore struct {
	client *redis.Client
	logger logger.Logger
}

func NewRedisProfileStore(cfg config.RedisConfig, log logger.Logger) (*RedisProfileStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProfileStore{
		client: client,
		logger: log.WithField("component", "redis_profile_store"),
	}, nil
}

func (r *RedisProfileStore) Put(ctx context.Context, profile entities.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile has no user id")
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, r.profileKey(profile.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store profile %s: %w", profile.UserID, err)
	}

	r.logger.Debugf("Stored profile for user %s", profile.UserID)
	return nil
}

func (r *RedisProfileStore) Get(ctx context.Context, userID string) (entities.UserProfile, error) {
	data, err := r.client.Get(ctx, r.profileKey(userID)).Bytes()
	if err == redis.Nil {
		return entities.UserProfile{}, ports.ErrNotFound{Key: userID}
	}
	if err != nil {
		return entities.UserProfile{}, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}

	var profile entities.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return entities.UserProfile{}, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return profile, nil
}

func (r *RedisProfileStore) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisProfileStore) Close() error {
	return r.client.Close()
}

func (r *RedisProfileStore) profileKey(userID string) string {
	return "profile:" + userID
}
