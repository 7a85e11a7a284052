package logging

import (
	"context"

	"go.uber.org/zap"
)

type operationCtxKey struct{}
type projectCtxKey struct{}

// WithOperation tags ctx with the boundary operation being served.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationCtxKey{}, op)
}

// OperationFromContext returns the operation name, or "".
func OperationFromContext(ctx context.Context) string {
	op, _ := ctx.Value(operationCtxKey{}).(string)
	return op
}

// WithProjectID tags ctx with the project being acted on.
func WithProjectID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, projectCtxKey{}, id)
}

// ProjectIDFromContext returns the project id, or "".
func ProjectIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(projectCtxKey{}).(string)
	return id
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields := make([]zap.Field, 0, 2)
	if op := OperationFromContext(ctx); op != "" {
		fields = append(fields, zap.String("op", op))
	}
	if id := ProjectIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("project.id", id))
	}
	return fields
}
