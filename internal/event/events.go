// Package event defines the domain events published by the metadata and
// transparency services and consumed from the in-process event bus.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceRef identifies an entity an event touches.
type SourceRef struct {
	EntityType string `json:"entity_type"` // "table", "column", "domain", "config", "trace"
	EntityID   string `json:"entity_id"`
	Role       string `json:"role"` // "subject", "context"
}

// DomainEvent carries the canonical shape of every domain event.
type DomainEvent struct {
	ID               string
	EventType        string
	OccurredAt       time.Time
	AffectedEntities []SourceRef
	Summary          string
	Payload          json.RawMessage
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// ── Metadata events ─────────────────────────────────────────────────────────

// FieldUpdatedPayload carries event-specific data for metadata_field_updated.
type FieldUpdatedPayload struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Field      string `json:"field"`
	Inline     bool   `json:"inline"`         // true for a path-scoped leaf edit
	Path       string `json:"path,omitempty"` // set when Inline
	NewValue   string `json:"new_value"`
	UpdatedBy  string `json:"updated_by"`
}

// NewFieldUpdated builds the event for a committed field edit.
func NewFieldUpdated(p FieldUpdatedPayload) DomainEvent {
	mode := "full"
	if p.Inline {
		mode = "inline"
	}
	return DomainEvent{
		ID:         newID(),
		EventType:  "metadata_field_updated",
		OccurredAt: time.Now(),
		AffectedEntities: []SourceRef{
			{EntityType: p.EntityType, EntityID: p.EntityID, Role: "subject"},
		},
		Summary: fmt.Sprintf("Field %s of %s updated (%s edit)", p.Field, p.EntityType, mode),
		Payload: mustJSON(p),
	}
}

// EntityCreatedPayload carries event-specific data for metadata_entity_created.
type EntityCreatedPayload struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Name       string `json:"name"`
	CreatedBy  string `json:"created_by"`
}

// NewEntityCreated builds the event for a newly created metadata entity.
func NewEntityCreated(p EntityCreatedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "metadata_entity_created",
		OccurredAt: time.Now(),
		AffectedEntities: []SourceRef{
			{EntityType: p.EntityType, EntityID: p.EntityID, Role: "subject"},
		},
		Summary: fmt.Sprintf("%s %q created", p.EntityType, p.Name),
		Payload: mustJSON(p),
	}
}

// ConfigChangedPayload carries event-specific data for config_changed.
type ConfigChangedPayload struct {
	Key       string `json:"key"`
	NewValue  string `json:"new_value"`
	UpdatedBy string `json:"updated_by"`
}

// NewConfigChanged builds the event for a system configuration change.
func NewConfigChanged(p ConfigChangedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "config_changed",
		OccurredAt: time.Now(),
		AffectedEntities: []SourceRef{
			{EntityType: "config", EntityID: p.Key, Role: "subject"},
		},
		Summary: fmt.Sprintf("Configuration %s changed", p.Key),
		Payload: mustJSON(p),
	}
}

// ── Transparency events ─────────────────────────────────────────────────────

// TraceRecordedPayload carries one AI query trace. The field names line up
// with the transparency store's trace document so the indexing consumer can
// unmarshal the payload directly.
type TraceRecordedPayload struct {
	TraceID          string          `json:"trace_id"`
	Question         string          `json:"question"`
	GeneratedSQL     string          `json:"generated_sql,omitempty"`
	Model            string          `json:"model"`
	Confidence       float64         `json:"confidence"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalTokens      int             `json:"total_tokens"`
	DurationMs       int64           `json:"duration_ms"`
	Success          bool            `json:"success"`
	Steps            json.RawMessage `json:"steps,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// NewTraceRecorded builds the event for an ingested AI query trace.
func NewTraceRecorded(p TraceRecordedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "trace_recorded",
		OccurredAt: time.Now(),
		AffectedEntities: []SourceRef{
			{EntityType: "trace", EntityID: p.TraceID, Role: "subject"},
		},
		Summary: fmt.Sprintf("Trace %s recorded (%s, confidence %.2f)", shortID(p.TraceID), p.Model, p.Confidence),
		Payload: mustJSON(p),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
