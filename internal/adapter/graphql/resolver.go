package graphql

import (
	"context"
	"strconv"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"graphql-user-service/internal/usecase/user"
	pkgerrors "graphql-user-service/pkg/errors"
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	svc user.Service
}

// NewResolver creates a root resolver backed by svc.
func NewResolver(svc user.Service) *Resolver {
	return &Resolver{svc: svc}
}

// UserResolver resolves the User type.
type UserResolver struct {
	u user.User
}

// ID returns the store id in decimal form.
func (r *UserResolver) ID() graphqlgo.ID {
	return graphqlgo.ID(strconv.FormatInt(r.u.ID, 10))
}

// FirstName returns the given name.
func (r *UserResolver) FirstName() string { return r.u.FirstName }

// LastName returns the family name.
func (r *UserResolver) LastName() string { return r.u.LastName }

// Email returns the contact address.
func (r *UserResolver) Email() string { return r.u.Email }

// CreateUserPayloadResolver resolves CreateUserPayload.
type CreateUserPayloadResolver struct {
	user *UserResolver
}

// User returns the created user.
func (p *CreateUserPayloadResolver) User() *UserResolver { return p.user }

// UpdateUserPayloadResolver resolves UpdateUserPayload.
type UpdateUserPayloadResolver struct {
	user *UserResolver
}

// User returns the user after the update.
func (p *UpdateUserPayloadResolver) User() *UserResolver { return p.user }

// DeleteUserPayloadResolver resolves DeleteUserPayload.
type DeleteUserPayloadResolver struct {
	success bool
}

// Success reports whether the user was removed.
func (p *DeleteUserPayloadResolver) Success() bool { return p.success }

// parseID converts a GraphQL id into a store id. Ids that are not positive
// decimal integers cannot match any row.
func parseID(id graphqlgo.ID) (int64, error) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, pkgerrors.NewNotFoundError("user", "user "+strconv.Quote(string(id))+" not found")
	}
	return n, nil
}

// Users resolves Query.users.
func (r *Resolver) Users(ctx context.Context) ([]*UserResolver, error) {
	resp, err := r.svc.ListUsers(ctx)
	if err != nil {
		return nil, resolverError(err)
	}

	out := make([]*UserResolver, len(resp.Users))
	for i := range resp.Users {
		out[i] = &UserResolver{u: resp.Users[i]}
	}
	return out, nil
}

// User resolves Query.user. An unknown id resolves to null.
func (r *Resolver) User(ctx context.Context, args struct{ ID graphqlgo.ID }) (*UserResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, nil
	}

	resp, err := r.svc.GetUser(ctx, user.GetUserRequest{ID: id})
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, resolverError(err)
	}
	return &UserResolver{u: resp.User}, nil
}

type createUserArgs struct {
	FirstName string
	LastName  string
	Email     string
}

// CreateUser resolves Mutation.createUser.
func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (*CreateUserPayloadResolver, error) {
	resp, err := r.svc.CreateUser(ctx, user.CreateUserRequest{
		FirstName: &args.FirstName,
		LastName:  &args.LastName,
		Email:     &args.Email,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return &CreateUserPayloadResolver{user: &UserResolver{u: resp.User}}, nil
}

type updateUserArgs struct {
	ID        graphqlgo.ID
	FirstName *string
	LastName  *string
	Email     *string
}

// UpdateUser resolves Mutation.updateUser. Omitted arguments leave fields unchanged;
// an explicit null is treated as omitted.
func (r *Resolver) UpdateUser(ctx context.Context, args updateUserArgs) (*UpdateUserPayloadResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	resp, err := r.svc.UpdateUser(ctx, user.UpdateUserRequest{
		ID:        id,
		FirstName: args.FirstName,
		LastName:  args.LastName,
		Email:     args.Email,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return &UpdateUserPayloadResolver{user: &UserResolver{u: resp.User}}, nil
}

// DeleteUser resolves Mutation.deleteUser.
func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID graphqlgo.ID }) (*DeleteUserPayloadResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	resp, err := r.svc.DeleteUser(ctx, user.DeleteUserRequest{ID: id})
	if err != nil {
		return nil, resolverError(err)
	}
	return &DeleteUserPayloadResolver{success: resp.Success}, nil
}
