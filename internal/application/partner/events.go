package partner

import (
	"context"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"go.uber.org/zap"
)

// eventSource is any aggregate root that accumulates domain events
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents drains the aggregate's pending domain events to the
// publisher after a successful save. A nil publisher drops the events;
// publish failures are logged only and never fail the operation.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, src eventSource) {
	events := src.GetDomainEvents()
	src.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
