// Package transparency stores and summarizes AI query traces: confidence
// scores, token usage, prompt-construction steps, and performance metrics
// backing the admin dashboards.
package transparency

import (
	"encoding/json"
	"time"
)

// PromptStep is one step of prompt construction within a trace.
type PromptStep struct {
	Name      string `json:"name"`
	Tokens    int    `json:"tokens"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Detail    string `json:"detail,omitempty"`
}

// TraceEntry is one recorded AI query trace. Classification fields are
// denormalized at ingest time so dashboard queries never re-classify.
type TraceEntry struct {
	TraceID          string       `json:"trace_id"`
	Question         string       `json:"question"`
	GeneratedSQL     string       `json:"generated_sql,omitempty"`
	Model            string       `json:"model"`
	Confidence       float64      `json:"confidence"`
	PromptTokens     int          `json:"prompt_tokens"`
	CompletionTokens int          `json:"completion_tokens"`
	TotalTokens      int          `json:"total_tokens"`
	DurationMs       int64        `json:"duration_ms"`
	Success          bool         `json:"success"`
	Steps            []PromptStep `json:"steps,omitempty"`
	OccurredAt       time.Time    `json:"occurred_at"`

	// Classification (set by the ingest consumer).
	Category string `json:"category"`
	Weight   string `json:"weight"`
	Polarity string `json:"polarity"`
}

// TraceEvent is the raw event shape handed to the classifier.
type TraceEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// Classification holds the output of classifying a trace event.
type Classification struct {
	Category    string
	Weight      string
	Polarity    string
	Description string
}
