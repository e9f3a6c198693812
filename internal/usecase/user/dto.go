package user

// CreateUserRequest represents the request payload for creating a new user.
// Fields are pointers so an absent field can be told apart from an empty one.
type CreateUserRequest struct {
	FirstName *string `json:"firstName" validate:"required"`
	LastName  *string `json:"lastName" validate:"required"`
	Email     *string `json:"email" validate:"required"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	User User
}

// UpdateUserRequest represents the request payload for updating an existing user.
// A nil field is left unchanged.
type UpdateUserRequest struct {
	ID        int64
	FirstName *string
	LastName  *string
	Email     *string
}

// UpdateUserResponse represents the response payload after updating a user.
type UpdateUserResponse struct {
	User User
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	Success bool
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User User
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}
