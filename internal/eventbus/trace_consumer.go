package eventbus

import (
	"context"

	"github.com/uridolan77/reportaing-admin/internal/event"
	"github.com/uridolan77/reportaing-admin/internal/transparency"
)

// TraceConsumer feeds trace_recorded events into the transparency indexer,
// which classifies them and writes trace entries to the store. Other event
// types pass through untouched.
type TraceConsumer struct {
	indexer *transparency.Indexer
}

func NewTraceConsumer(indexer *transparency.Indexer) *TraceConsumer {
	return &TraceConsumer{indexer: indexer}
}

func (c *TraceConsumer) HandleEvent(ctx context.Context, evt event.DomainEvent) error {
	if evt.EventType != "trace_recorded" {
		return nil
	}
	return c.indexer.ProcessEvent(ctx, transparency.TraceEvent{
		EventID:   evt.ID,
		EventType: evt.EventType,
		Payload:   evt.Payload,
	})
}
