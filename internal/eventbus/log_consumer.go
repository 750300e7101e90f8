package eventbus

import (
	"context"

	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/event"
)

// LogConsumer logs all domain events for observability.
type LogConsumer struct {
	log *zap.Logger
}

func NewLogConsumer(log *zap.Logger) *LogConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogConsumer{log: log}
}

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.DomainEvent) error {
	entities := make([]string, len(evt.AffectedEntities))
	for i, ref := range evt.AffectedEntities {
		entities[i] = ref.EntityType + ":" + shortID(ref.EntityID)
	}
	c.log.Info("event",
		zap.String("event_type", evt.EventType),
		zap.String("summary", evt.Summary),
		zap.Strings("entities", entities))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
