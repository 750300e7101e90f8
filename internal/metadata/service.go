package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/editor"
	"github.com/uridolan77/reportaing-admin/internal/event"
)

// Publisher is the slice of the event bus the service needs.
type Publisher interface {
	Publish(ctx context.Context, evt event.DomainEvent)
}

var (
	// ErrUnknownEntity is returned for an entity type outside the registry.
	ErrUnknownEntity = errors.New("metadata: unknown entity type")
	// ErrUnknownField is returned for a field not registered as editable.
	ErrUnknownField = errors.New("metadata: unknown field")
)

// Service wraps the store with audit stamping, server-side edit validation,
// and event publication. Every committed change publishes a domain event
// after the store write succeeds.
type Service struct {
	store Store
	bus   Publisher
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a metadata service. bus may be nil in tests.
func NewService(store Store, bus Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, bus: bus, log: log, now: time.Now}
}

func (s *Service) publish(ctx context.Context, evt event.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(ctx, evt)
	}
}

// Store exposes the underlying store for read paths.
func (s *Service) Store() Store { return s.store }

// ── Entity creation ─────────────────────────────────────────────────────────

// CreateTable assigns an ID, stamps audit fields, persists, and publishes.
func (s *Service) CreateTable(ctx context.Context, t BusinessTable, actor string) (*BusinessTable, error) {
	t.ID = uuid.New().String()
	t.IsActive = true
	t.CreatedBy, t.UpdatedBy = actor, actor
	t.CreatedAt, t.UpdatedAt = s.now(), s.now()
	if err := s.store.CreateTable(ctx, &t); err != nil {
		return nil, fmt.Errorf("creating table metadata: %w", err)
	}
	s.publish(ctx, event.NewEntityCreated(event.EntityCreatedPayload{
		EntityType: EntityTable, EntityID: t.ID,
		Name: t.SchemaName + "." + t.TableName, CreatedBy: actor,
	}))
	return &t, nil
}

// CreateColumn assigns an ID, stamps audit fields, persists, and publishes.
// The referenced table must exist.
func (s *Service) CreateColumn(ctx context.Context, c BusinessColumn, actor string) (*BusinessColumn, error) {
	if _, err := s.store.GetTable(ctx, c.TableID); err != nil {
		return nil, fmt.Errorf("resolving parent table: %w", err)
	}
	c.ID = uuid.New().String()
	c.IsActive = true
	c.CreatedBy, c.UpdatedBy = actor, actor
	c.CreatedAt, c.UpdatedAt = s.now(), s.now()
	if err := s.store.CreateColumn(ctx, &c); err != nil {
		return nil, fmt.Errorf("creating column metadata: %w", err)
	}
	s.publish(ctx, event.NewEntityCreated(event.EntityCreatedPayload{
		EntityType: EntityColumn, EntityID: c.ID,
		Name: c.ColumnName, CreatedBy: actor,
	}))
	return &c, nil
}

// CreateDomain assigns an ID, stamps audit fields, persists, and publishes.
func (s *Service) CreateDomain(ctx context.Context, d BusinessDomain, actor string) (*BusinessDomain, error) {
	d.ID = uuid.New().String()
	d.IsActive = true
	d.CreatedBy, d.UpdatedBy = actor, actor
	d.CreatedAt, d.UpdatedAt = s.now(), s.now()
	if err := s.store.CreateDomain(ctx, &d); err != nil {
		return nil, fmt.Errorf("creating domain metadata: %w", err)
	}
	s.publish(ctx, event.NewEntityCreated(event.EntityCreatedPayload{
		EntityType: EntityDomain, EntityID: d.ID,
		Name: d.DomainName, CreatedBy: actor,
	}))
	return &d, nil
}

// PutConfig upserts a configuration entry and publishes config_changed.
func (s *Service) PutConfig(ctx context.Context, cfg SystemConfig, actor string) (*SystemConfig, error) {
	cfg.UpdatedBy = actor
	cfg.UpdatedAt = s.now()
	if cfg.DataType == "" {
		cfg.DataType = "string"
	}
	if err := s.store.PutConfig(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("writing config %s: %w", cfg.Key, err)
	}
	s.publish(ctx, event.NewConfigChanged(event.ConfigChangedPayload{
		Key: cfg.Key, NewValue: cfg.Value, UpdatedBy: actor,
	}))
	return &cfg, nil
}

// ── Field editing ───────────────────────────────────────────────────────────

// EditFieldRequest is one validated edit of a single entity field. A full
// edit replaces the whole stored value; an inline edit (Inline=true) targets
// one leaf path within the parsed value.
type EditFieldRequest struct {
	EntityType string
	EntityID   string
	Field      string
	Value      string // full edit: replacement text; inline edit: leaf draft
	Inline     bool
	Path       string // leaf path for inline edits, e.g. `aliases[0]`
	Actor      string
}

// fieldEntity abstracts the registry-reachable fields of an entity.
type fieldEntity interface {
	FieldValue(field string) (string, bool)
	SetField(field, value string) bool
}

// EditField runs one edit through the editor state machine server-side: the
// same parse, type-constraint, and path-resolution rules the admin UI
// enforces. On success the entity is persisted and metadata_field_updated is
// published; the committed (possibly re-serialized) value is returned.
func (s *Service) EditField(ctx context.Context, req EditFieldRequest) (string, error) {
	spec, ok := LookupField(req.EntityType, req.Field)
	if !ok {
		if _, known := Fields(req.EntityType); !known {
			return "", ErrUnknownEntity
		}
		return "", ErrUnknownField
	}

	entity, save, err := s.loadEntity(ctx, req.EntityType, req.EntityID)
	if err != nil {
		return "", err
	}
	current, _ := entity.FieldValue(req.Field)

	var committed string
	var fired bool
	ed := editor.New(current, spec.EditorOptions(), func(v string) {
		committed = v
		fired = true
	}, s.log)

	if req.Inline {
		ed.BeginInlineEdit(req.Path)
		if ed.Session() == nil {
			return "", fmt.Errorf("%w: path %q does not resolve to an editable leaf",
				ErrUnknownField, req.Path)
		}
		ed.SetInlineDraft(req.Value)
		if err := ed.ConfirmInline(); err != nil {
			return "", err
		}
	} else {
		ed.BeginFullEdit()
		ed.SetDraft(req.Value)
		if err := ed.Save(); err != nil {
			return "", err
		}
	}
	if !fired {
		return "", errors.New("metadata: edit did not commit")
	}

	entity.SetField(req.Field, committed)
	if err := save(ctx); err != nil {
		return "", fmt.Errorf("persisting %s %s: %w", req.EntityType, req.EntityID, err)
	}

	s.publish(ctx, event.NewFieldUpdated(event.FieldUpdatedPayload{
		EntityType: req.EntityType, EntityID: req.EntityID,
		Field: req.Field, Inline: req.Inline, Path: req.Path,
		NewValue: committed, UpdatedBy: req.Actor,
	}))
	s.log.Info("field updated",
		zap.String("entity_type", req.EntityType),
		zap.String("entity_id", req.EntityID),
		zap.String("field", req.Field),
		zap.Bool("inline", req.Inline))
	return committed, nil
}

// FieldState returns the current value and spec of one editable field, for
// seeding an interactive editing session.
func (s *Service) FieldState(ctx context.Context, entityType, id, field string) (string, FieldSpec, error) {
	spec, ok := LookupField(entityType, field)
	if !ok {
		if _, known := Fields(entityType); !known {
			return "", FieldSpec{}, ErrUnknownEntity
		}
		return "", FieldSpec{}, ErrUnknownField
	}
	entity, _, err := s.loadEntity(ctx, entityType, id)
	if err != nil {
		return "", FieldSpec{}, err
	}
	value, _ := entity.FieldValue(field)
	return value, spec, nil
}

// loadEntity fetches the entity and returns it with a save closure that
// stamps audit fields and writes it back.
func (s *Service) loadEntity(ctx context.Context, entityType, id string) (fieldEntity, func(context.Context) error, error) {
	switch entityType {
	case EntityTable:
		t, err := s.store.GetTable(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return t, func(ctx context.Context) error {
			t.UpdatedAt = s.now()
			return s.store.UpdateTable(ctx, t)
		}, nil
	case EntityColumn:
		c, err := s.store.GetColumn(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return c, func(ctx context.Context) error {
			c.UpdatedAt = s.now()
			return s.store.UpdateColumn(ctx, c)
		}, nil
	case EntityDomain:
		d, err := s.store.GetDomain(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return d, func(ctx context.Context) error {
			d.UpdatedAt = s.now()
			return s.store.UpdateDomain(ctx, d)
		}, nil
	case EntityConfig:
		cfg, err := s.store.GetConfig(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return cfg, func(ctx context.Context) error {
			cfg.UpdatedAt = s.now()
			return s.store.PutConfig(ctx, cfg)
		}, nil
	}
	return nil, nil, ErrUnknownEntity
}
