package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is private so keys cannot collide with other packages.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	actorIDKey   contextKey = "actor_id"
	loggerKey    contextKey = "logger"
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

func WithTenantID(ctx context.Context, tid string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tid)
}

func GetTenantID(ctx context.Context) string {
	if tid, ok := ctx.Value(tenantIDKey).(string); ok {
		return tid
	}
	return ""
}

func WithActorID(ctx context.Context, aid string) context.Context {
	return context.WithValue(ctx, actorIDKey, aid)
}

func GetActorID(ctx context.Context) string {
	if aid, ok := ctx.Value(actorIDKey).(string); ok {
		return aid
	}
	return ""
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger never returns nil; it falls back to the supplied default or a nop.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if defaultLogger != nil {
		return defaultLogger
	}
	return zap.NewNop()
}

type Metadata struct {
	RequestID string
	TenantID  string
	ActorID   string
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(ctx),
		TenantID:  GetTenantID(ctx),
		ActorID:   GetActorID(ctx),
	}
}
