// Package gormrepo stores users in a relational database through GORM.
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "graphql-user-service/internal/domain/user"
	pkgerrors "graphql-user-service/pkg/errors"
)

// UserRepo implements the user Repository on top of GORM. It works with any
// dialector whose schema was created by the migrations package.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents a row of the users table.
type UserSchema struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Email     string `gorm:"column:email;not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (s UserSchema) toDomain() domain.User {
	return domain.User{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
	}
}

func fromDomain(u *domain.User) UserSchema {
	return UserSchema{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func userNotFound(id int64) error {
	return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user %d not found", id))
}

// Create inserts a new user and returns the ID assigned by the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := fromDomain(u)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Debug("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userNotFound(id)
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := model.toDomain()
	return &u, nil
}

// Update writes every mutable column of u. Empty strings are stored as-is.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := fromDomain(u)
	// A map keeps zero values in the SET clause; a struct would drop them.
	res := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"first_name": model.FirstName,
			"last_name":  model.LastName,
			"email":      model.Email,
		})
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", u.ID))
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return userNotFound(u.ID)
	}

	r.log.Debug("user updated in db", zap.Int64("id", u.ID))
	return nil
}

// Delete removes the user with the given ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return userNotFound(id)
	}

	r.log.Debug("user deleted in db", zap.Int64("id", id))
	return nil
}

// List returns every user ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}
	return users, nil
}

// Ping checks that the underlying connection pool can reach the database.
func (r *UserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
