// Package graphql serves the user directory over GraphQL.
package graphql

import (
	"context"
	_ "embed"
	"fmt"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"graphql-user-service/internal/usecase/user"
	"graphql-user-service/pkg/logger"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by this package.
func SDL() string {
	return schemaSDL
}

// Schema executes operations against the user directory.
type Schema struct {
	schema *graphqlgo.Schema
}

// NewSchema parses the embedded SDL and binds it to svc. A maxDepth of zero
// leaves query depth unbounded.
func NewSchema(svc user.Service, log *zap.Logger, maxDepth int) (*Schema, error) {
	opts := []graphqlgo.SchemaOpt{
		graphqlgo.Logger(logger.NewGraphQLLogger(log)),
	}
	if maxDepth > 0 {
		opts = append(opts, graphqlgo.MaxDepth(maxDepth))
	}

	s, err := graphqlgo.ParseSchema(schemaSDL, NewResolver(svc), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// Exec runs one operation. Errors raised before any resolver ran are given
// error codes where one applies.
func (s *Schema) Exec(ctx context.Context, query, operationName string, variables map[string]interface{}) *graphqlgo.Response {
	resp := s.schema.Exec(ctx, query, operationName, variables)
	annotate(resp.Errors)
	return resp
}
