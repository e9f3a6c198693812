package user

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	domain "graphql-user-service/internal/domain/user"
	pkgerrors "graphql-user-service/pkg/errors"
	"graphql-user-service/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// GetByID, Update and Delete return a *errors.NotFoundError when no row matches.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error) // Insert a user and return its new ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error // Overwrite all mutable columns of an existing user
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.User, error) // All users in storage order
}

// Usecase implements the user directory operations on top of a Repository.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Usecase{repo: r, log: log, validate: v}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// listing every missing field.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	fields := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	ve := pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	if len(fields) == 1 {
		ve.Field = fields[0]
		ve.Message = "is required"
	}
	return ve
}

// ListUsers returns every stored user.
func (uc *Usecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("listing users")

	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toDTO(&domainUsers[i])
	}

	return &ListUsersResponse{Users: users}, nil
}

// GetUser retrieves a single user by ID.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.logFailure(log, "failed to get user", in.ID, err)
		return nil, err
	}

	return &GetUserResponse{User: toDTO(u)}, nil
}

// CreateUser inserts a new user. Every field must be present; empty strings are accepted.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user")

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u := &domain.User{
		FirstName: *in.FirstName,
		LastName:  *in.LastName,
		Email:     *in.Email,
	}

	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	u.ID = id

	log.Info("user created", zap.Int64("id", id))
	return &CreateUserResponse{User: toDTO(u)}, nil
}

// UpdateUser replaces the fields set in the request and leaves the rest untouched.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Int64("id", in.ID))

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.logFailure(log, "failed to load user for update", in.ID, err)
		return nil, err
	}

	patch := domain.Patch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}
	if patch.IsEmpty() {
		log.Debug("update carries no fields", zap.Int64("id", in.ID))
		return &UpdateUserResponse{User: toDTO(u)}, nil
	}
	u.Apply(patch)

	if err := uc.repo.Update(ctx, u); err != nil {
		uc.logFailure(log, "failed to update user", in.ID, err)
		return nil, err
	}

	return &UpdateUserResponse{User: toDTO(u)}, nil
}

// DeleteUser removes the user identified by ID.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		uc.logFailure(log, "failed to delete user", in.ID, err)
		return nil, err
	}

	return &DeleteUserResponse{Success: true}, nil
}

// logFailure logs not-found conditions as warnings and everything else as errors.
func (uc *Usecase) logFailure(log *zap.Logger, msg string, id int64, err error) {
	if pkgerrors.IsNotFound(err) {
		log.Warn(msg, zap.Int64("id", id), zap.Error(err))
		return
	}
	log.Error(msg, zap.Int64("id", id), zap.Error(err))
}

func toDTO(u *domain.User) User {
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
