package user

import "context"

// Service defines the user directory operations exposed to transports.
type Service interface {
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
}

var _ Service = (*Usecase)(nil)
