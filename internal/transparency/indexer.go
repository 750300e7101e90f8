package transparency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Indexer consumes trace events, classifies them against the registry, and
// writes classified trace entries to the store. It subscribes to the
// in-process event bus; ProcessEvent is also exposed for direct invocation.
type Indexer struct {
	store Store
	log   *zap.Logger
}

// NewIndexer creates a new trace indexer.
func NewIndexer(store Store, log *zap.Logger) *Indexer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Indexer{store: store, log: log}
}

// ProcessEvent is the indexing pipeline for a single trace event.
// Steps: decode payload → classify → denormalize classification → write.
func (idx *Indexer) ProcessEvent(ctx context.Context, evt TraceEvent) error {
	var entry TraceEntry
	if err := json.Unmarshal(evt.Payload, &entry); err != nil {
		return fmt.Errorf("decoding trace payload: %w", err)
	}
	if entry.TraceID == "" {
		return fmt.Errorf("trace event %s has no trace_id", evt.EventID)
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	if entry.TotalTokens == 0 {
		entry.TotalTokens = entry.PromptTokens + entry.CompletionTokens
	}

	classification, classified := Classify(evt)
	entry.Category = "routine"
	entry.Weight = "info"
	entry.Polarity = "neutral"
	if classified {
		entry.Category = classification.Category
		entry.Weight = classification.Weight
		entry.Polarity = classification.Polarity
		idx.log.Debug("trace classified",
			zap.String("trace_id", entry.TraceID),
			zap.String("category", entry.Category),
			zap.String("weight", entry.Weight),
			zap.String("polarity", entry.Polarity))
	}

	return idx.store.WriteTrace(ctx, entry)
}
