package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionApprove = "APPROVE"
)

// Event is the snapshot handed to the audit collaborator. Persistence of
// audit records lives outside this engine; callers must never fail an
// operation because a Log call failed.
type Event struct {
	Action     string
	EntityType string
	EntityID   string
	TenantID   string
	ActorID    string
	EmployeeID string
	OldValues  any
	NewValues  any
}

//go:generate mockgen -source=audit.go -destination=mock/audit_mock.go -package=mock
type Logger interface {
	Log(ctx context.Context, event Event)
}

type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(logger ...*zap.Logger) *ZapLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) Log(ctx context.Context, event Event) {
	z.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", event.Action),
		zap.String("entity_type", event.EntityType),
		zap.String("entity_id", event.EntityID),
		zap.String("tenant_id", event.TenantID),
		zap.String("actor_id", event.ActorID),
		zap.String("employee_id", event.EmployeeID),
		zap.Any("old_values", event.OldValues),
		zap.Any("new_values", event.NewValues),
	)
}

type NopLogger struct{}

func (NopLogger) Log(context.Context, Event) {}
