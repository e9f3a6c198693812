package logger

import (
	"context"

	"go.uber.org/zap"
)

// GraphQLLogger reports resolver panics recovered by graphql-go through zap.
type GraphQLLogger struct {
	ZapLogger *zap.Logger
}

// NewGraphQLLogger creates a GraphQLLogger.
func NewGraphQLLogger(zapLogger *zap.Logger) *GraphQLLogger {
	return &GraphQLLogger{ZapLogger: zapLogger.Named("graphql")}
}

// LogPanic implements github.com/graph-gophers/graphql-go/log.Logger.
func (l *GraphQLLogger) LogPanic(ctx context.Context, value interface{}) {
	WithContext(ctx, l.ZapLogger).Error("graphql resolver panic",
		zap.Any("panic", value),
		zap.Stack("stack"),
	)
}
