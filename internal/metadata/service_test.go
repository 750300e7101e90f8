package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uridolan77/reportaing-admin/internal/editor"
	"github.com/uridolan77/reportaing-admin/internal/event"
	"github.com/uridolan77/reportaing-admin/internal/jsonval"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, evt event.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *capturePublisher) byType(eventType string) []event.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.DomainEvent
	for _, evt := range p.events {
		if evt.EventType == eventType {
			out = append(out, evt)
		}
	}
	return out
}

func newTestService(t *testing.T) (*Service, *capturePublisher, *BusinessTable) {
	t.Helper()
	pub := &capturePublisher{}
	svc := NewService(NewMemoryStore(), pub, nil)

	tbl, err := svc.CreateTable(context.Background(), BusinessTable{
		SchemaName:             "common",
		TableName:              "tbl_Daily_actions",
		BusinessPurpose:        "Daily player aggregates",
		NaturalLanguageAliases: `["deposits", "daily actions"]`,
	}, "admin")
	require.NoError(t, err)
	return svc, pub, tbl
}

func TestService_CreateTable_PublishesEvent(t *testing.T) {
	_, pub, tbl := newTestService(t)
	require.NotEmpty(t, tbl.ID)
	assert.Equal(t, "admin", tbl.CreatedBy)
	assert.True(t, tbl.IsActive)

	created := pub.byType("metadata_entity_created")
	require.Len(t, created, 1)
	assert.Contains(t, created[0].Summary, "common.tbl_Daily_actions")
}

func TestService_EditField_FullEdit(t *testing.T) {
	svc, pub, tbl := newTestService(t)

	committed, err := svc.EditField(context.Background(), EditFieldRequest{
		EntityType: EntityTable,
		EntityID:   tbl.ID,
		Field:      "natural_language_aliases",
		Value:      `["deposits","player deposits"]`,
		Actor:      "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, `["deposits","player deposits"]`, committed)

	got, err := svc.Store().GetTable(context.Background(), tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, committed, got.NaturalLanguageAliases)

	updated := pub.byType("metadata_field_updated")
	require.Len(t, updated, 1)
}

func TestService_EditField_InlineEdit(t *testing.T) {
	svc, _, tbl := newTestService(t)

	committed, err := svc.EditField(context.Background(), EditFieldRequest{
		EntityType: EntityTable,
		EntityID:   tbl.ID,
		Field:      "natural_language_aliases",
		Inline:     true,
		Path:       "[1]",
		Value:      "player deposits",
		Actor:      "admin",
	})
	require.NoError(t, err)

	// Inline commits re-serialize the whole tree pretty-printed.
	parsed, perr := jsonval.Parse(committed)
	require.NoError(t, perr)
	arr, ok := parsed.(jsonval.Array)
	require.True(t, ok)
	require.Len(t, arr, 2)
	leaf, ok := arr[1].(jsonval.Scalar)
	require.True(t, ok)
	assert.Equal(t, "player deposits", leaf.Text())
}

func TestService_EditField_InvalidJSONRejected(t *testing.T) {
	svc, pub, tbl := newTestService(t)

	_, err := svc.EditField(context.Background(), EditFieldRequest{
		EntityType: EntityTable,
		EntityID:   tbl.ID,
		Field:      "usage_patterns",
		Value:      `{"broken":`,
		Actor:      "admin",
	})
	require.Error(t, err)
	var perr *jsonval.ParseError
	assert.True(t, errors.As(err, &perr))

	// Nothing persisted, nothing published.
	got, gerr := svc.Store().GetTable(context.Background(), tbl.ID)
	require.NoError(t, gerr)
	assert.Empty(t, got.UsagePatterns)
	assert.Empty(t, pub.byType("metadata_field_updated"))
}

func TestService_EditField_TypeConstraint(t *testing.T) {
	svc, _, tbl := newTestService(t)

	// natural_language_aliases allows arrays, not objects.
	_, err := svc.EditField(context.Background(), EditFieldRequest{
		EntityType: EntityTable,
		EntityID:   tbl.ID,
		Field:      "natural_language_aliases",
		Value:      `{"alias": "deposits"}`,
		Actor:      "admin",
	})
	require.Error(t, err)
	var tce *editor.TypeConstraintError
	assert.True(t, errors.As(err, &tce))
}

func TestService_EditField_InlineBadPath(t *testing.T) {
	svc, _, tbl := newTestService(t)

	_, err := svc.EditField(context.Background(), EditFieldRequest{
		EntityType: EntityTable,
		EntityID:   tbl.ID,
		Field:      "natural_language_aliases",
		Inline:     true,
		Path:       "[9]",
		Value:      "x",
		Actor:      "admin",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestService_EditField_ProseFieldRejectsInline(t *testing.T) {
	svc, _, tbl := newTestService(t)

	// business_purpose has no inline capability; the session never opens.
	_, err := svc.EditField(context.Background(), EditFieldRequest{
		EntityType: EntityTable,
		EntityID:   tbl.ID,
		Field:      "business_purpose",
		Inline:     true,
		Path:       "value",
		Value:      "new purpose",
		Actor:      "admin",
	})
	require.Error(t, err)
}

func TestService_EditField_UnknownTargets(t *testing.T) {
	svc, _, tbl := newTestService(t)
	ctx := context.Background()

	_, err := svc.EditField(ctx, EditFieldRequest{
		EntityType: "widget", EntityID: tbl.ID, Field: "business_purpose"})
	assert.ErrorIs(t, err, ErrUnknownEntity)

	_, err = svc.EditField(ctx, EditFieldRequest{
		EntityType: EntityTable, EntityID: tbl.ID, Field: "no_such_field"})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = svc.EditField(ctx, EditFieldRequest{
		EntityType: EntityTable, EntityID: "missing", Field: "business_purpose"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_FieldState(t *testing.T) {
	svc, _, tbl := newTestService(t)

	value, spec, err := svc.FieldState(context.Background(), EntityTable, tbl.ID, "natural_language_aliases")
	require.NoError(t, err)
	assert.Equal(t, `["deposits", "daily actions"]`, value)
	assert.True(t, spec.AllowArrays)
	assert.False(t, spec.AllowObjects)
	assert.True(t, spec.AllowInlineEdit)
}

func TestService_PutConfig_PublishesChange(t *testing.T) {
	svc, pub, _ := newTestService(t)

	cfg, err := svc.PutConfig(context.Background(), SystemConfig{
		Key: "ai.confidence_floor", Value: "0.5", DataType: "number",
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.UpdatedBy)

	changed := pub.byType("config_changed")
	require.Len(t, changed, 1)
}
