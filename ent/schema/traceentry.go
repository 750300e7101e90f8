package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TraceEntry is one recorded AI query execution, written once by the trace
// indexer and never updated. Classification fields are assigned at ingest.
type TraceEntry struct {
	ent.Schema
}

func (TraceEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("trace_id").
			NotEmpty().
			Unique().
			Immutable(),
		field.Text("question").
			Optional().
			Immutable(),
		field.Text("generated_sql").
			Optional().
			Immutable(),
		field.String("model").
			NotEmpty().
			Immutable(),
		field.Float("confidence").
			Min(0).
			Max(1).
			Immutable(),
		field.Int("prompt_tokens").
			NonNegative().
			Immutable(),
		field.Int("completion_tokens").
			NonNegative().
			Immutable(),
		field.Int("total_tokens").
			NonNegative().
			Immutable(),
		field.Int("duration_ms").
			NonNegative().
			Immutable(),
		field.Bool("success").
			Immutable(),
		field.JSON("steps", json.RawMessage{}).
			Optional().
			Immutable().
			Comment("Raw prompt-chain steps as submitted"),
		field.String("category").
			Comment("Signal category assigned at ingest"),
		field.String("weight").
			Comment("Signal weight: info, moderate, strong, critical"),
		field.String("polarity").
			Comment("positive, neutral, or negative"),
		field.Time("occurred_at").
			Default(time.Now).
			Immutable(),
	}
}

func (TraceEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("occurred_at"),
		index.Fields("model"),
	}
}
