package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"graphql-user-service/internal/adapter/graphql"
	"graphql-user-service/pkg/logger"
	"graphql-user-service/pkg/metrics"
)

// Executor runs a single GraphQL operation.
type Executor interface {
	Exec(ctx context.Context, query, operationName string, variables map[string]interface{}) *graphqlgo.Response
}

// GraphQLHandler handles HTTP requests carrying GraphQL operations
type GraphQLHandler struct {
	exec    Executor
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewGraphQLHandler creates a new GraphQLHandler instance. m may be nil.
func NewGraphQLHandler(exec Executor, m *metrics.Metrics, log *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		exec:    exec,
		metrics: m,
		log:     log,
	}
}

// GraphQLRequest represents the HTTP request body of a GraphQL operation
type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// RequestError mirrors a GraphQL error for failures before execution
type RequestError struct {
	Message    string            `json:"message"`
	Extensions map[string]string `json:"extensions,omitempty"`
}

// ErrorResponse represents a GraphQL-shaped error response
type ErrorResponse struct {
	Errors []RequestError `json:"errors"`
}

// Serve handles POST /graphql
func (h *GraphQLHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)

	var req GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid graphql request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Errors: []RequestError{{
				Message:    "request body must be a JSON object with a non-empty \"query\"",
				Extensions: map[string]string{"code": "BAD_REQUEST"},
			}},
		})
		return
	}

	start := time.Now()
	resp := h.exec.Exec(ctx, req.Query, req.OperationName, req.Variables)
	elapsed := time.Since(start)

	h.metrics.ObserveGraphQL(req.OperationName, elapsed, graphql.Codes(resp.Errors))
	if len(resp.Errors) > 0 {
		log.Debug("graphql operation returned errors",
			zap.String("operation", req.OperationName),
			zap.Int("errors", len(resp.Errors)),
			zap.String("first_error", resp.Errors[0].Message),
		)
	}

	c.JSON(http.StatusOK, resp)
}
