package metadata

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("metadata: not found")

// ListOptions controls filtering and pagination for entity listings.
type ListOptions struct {
	Search          string // substring match on name/purpose fields
	IncludeInactive bool
	Limit           int // default 50, max 200
	Offset          int
}

func (o ListOptions) normalized() ListOptions {
	if o.Limit <= 0 || o.Limit > 200 {
		o.Limit = 50
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Store is the persistence interface for business metadata.
type Store interface {
	CreateTable(ctx context.Context, t *BusinessTable) error
	GetTable(ctx context.Context, id string) (*BusinessTable, error)
	ListTables(ctx context.Context, opts ListOptions) ([]BusinessTable, int, error)
	UpdateTable(ctx context.Context, t *BusinessTable) error
	DeleteTable(ctx context.Context, id string) error

	CreateColumn(ctx context.Context, c *BusinessColumn) error
	GetColumn(ctx context.Context, id string) (*BusinessColumn, error)
	ListColumns(ctx context.Context, tableID string, opts ListOptions) ([]BusinessColumn, int, error)
	UpdateColumn(ctx context.Context, c *BusinessColumn) error
	DeleteColumn(ctx context.Context, id string) error

	CreateDomain(ctx context.Context, d *BusinessDomain) error
	GetDomain(ctx context.Context, id string) (*BusinessDomain, error)
	ListDomains(ctx context.Context, opts ListOptions) ([]BusinessDomain, int, error)
	UpdateDomain(ctx context.Context, d *BusinessDomain) error
	DeleteDomain(ctx context.Context, id string) error

	GetConfig(ctx context.Context, key string) (*SystemConfig, error)
	ListConfigs(ctx context.Context) ([]SystemConfig, error)
	PutConfig(ctx context.Context, cfg *SystemConfig) error
}
