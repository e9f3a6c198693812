package cached

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"graphql-user-service/internal/adapter/cache"
	domain "graphql-user-service/internal/domain/user"
	"graphql-user-service/internal/usecase/user"
)

// UserRepository implements user.Repository with cache-aside reads.
// It wraps a persistent repository and a cache; cache failures are logged and
// never returned to the caller.
type UserRepository struct {
	store user.Repository
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

var _ user.Repository = (*UserRepository)(nil)

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(store user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		store: store,
		cache: c,
		log:   log,
	}
}

// Create delegates to the store.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.store.Create(ctx, u)
}

// GetByID retrieves a user by ID, consulting the cache first.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u := r.fromCache(ctx, id); u != nil {
		return u, nil
	}

	// Concurrent misses for the same id share one store read
	result, err, shared := r.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		if u := r.fromCache(ctx, id); u != nil {
			return u, nil
		}

		u, err := r.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u := *result.(*domain.User)
	if shared {
		r.log.Debug("store read shared", zap.Int64("id", id))
	}
	return &u, nil
}

// Update writes through to the store and evicts the cached copy.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.store.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID, "update")
	return nil
}

// Delete removes the user from the store and evicts the cached copy.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id, "delete")
	return nil
}

// List delegates to the store.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.store.List(ctx)
}

func (r *UserRepository) fromCache(ctx context.Context, id int64) *domain.User {
	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to store", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return u
}

func (r *UserRepository) evict(ctx context.Context, id int64, op string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
	}
}
