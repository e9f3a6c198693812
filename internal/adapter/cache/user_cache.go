package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "graphql-user-service/internal/domain/user"
)

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil, nil on a cache miss.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// Set stores a user in cache with the configured TTL.
	Set(ctx context.Context, user *domain.User) error

	// Delete removes users from cache by ID.
	Delete(ctx context.Context, ids ...int64) error
}

// cachedUser is the JSON document stored per user.
type cachedUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client redis.UniversalClient, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Key returns the Redis key holding the user with the given ID.
func Key(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.Int64("user_id", id))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d from cache: %w", id, err)
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		return nil, fmt.Errorf("failed to decode cached user %d: %w", id, err)
	}

	c.log.Debug("cache hit", zap.Int64("user_id", id))
	return &domain.User{
		ID:        cu.ID,
		FirstName: cu.FirstName,
		LastName:  cu.LastName,
		Email:     cu.Email,
	}, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}

	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to encode user %d: %w", user.ID, err)
	}

	if err := c.client.Set(ctx, Key(user.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user %d: %w", user.ID, err)
	}

	c.log.Debug("cached user", zap.Int64("user_id", user.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes users from Redis cache.
func (c *RedisUserCache) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = Key(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to evict %d cached users: %w", len(ids), err)
	}

	c.log.Debug("evicted from cache", zap.Int("count", len(ids)))
	return nil
}
