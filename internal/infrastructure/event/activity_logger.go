package event

import (
	"context"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogger is a wildcard handler that writes every domain event to the
// structured log, giving operators a single activity feed across contexts.
type ActivityLogger struct {
	logger *zap.Logger
}

// NewActivityLogger creates a new activity log handler
func NewActivityLogger(logger *zap.Logger) *ActivityLogger {
	return &ActivityLogger{logger: logger}
}

// Handle logs the event
func (l *ActivityLogger) Handle(_ context.Context, evt shared.DomainEvent) error {
	l.logger.Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty list so the handler receives all events
func (l *ActivityLogger) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*ActivityLogger)(nil)
