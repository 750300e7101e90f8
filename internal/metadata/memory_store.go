package metadata

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore implements Store using in-memory maps. Intended for demos and
// testing — no database required.
type MemoryStore struct {
	mu      sync.RWMutex
	tables  map[string]BusinessTable
	columns map[string]BusinessColumn
	domains map[string]BusinessDomain
	configs map[string]SystemConfig
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:  make(map[string]BusinessTable),
		columns: make(map[string]BusinessColumn),
		domains: make(map[string]BusinessDomain),
		configs: make(map[string]SystemConfig),
	}
}

func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func page[T any](items []T, opts ListOptions) ([]T, int) {
	total := len(items)
	if opts.Offset >= total {
		return nil, total
	}
	items = items[opts.Offset:]
	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items, total
}

// ── Tables ──────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateTable(_ context.Context, t *BusinessTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = *t
	return nil
}

func (s *MemoryStore) GetTable(_ context.Context, id string) (*BusinessTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) ListTables(_ context.Context, opts ListOptions) ([]BusinessTable, int, error) {
	opts = opts.normalized()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []BusinessTable
	for _, t := range s.tables {
		if !opts.IncludeInactive && !t.IsActive {
			continue
		}
		if !matchesSearch(opts.Search, t.TableName, t.SchemaName, t.BusinessPurpose) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SchemaName != matched[j].SchemaName {
			return matched[i].SchemaName < matched[j].SchemaName
		}
		return matched[i].TableName < matched[j].TableName
	})
	out, total := page(matched, opts)
	return out, total, nil
}

func (s *MemoryStore) UpdateTable(_ context.Context, t *BusinessTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[t.ID]; !ok {
		return ErrNotFound
	}
	s.tables[t.ID] = *t
	return nil
}

func (s *MemoryStore) DeleteTable(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[id]; !ok {
		return ErrNotFound
	}
	delete(s.tables, id)
	return nil
}

// ── Columns ─────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateColumn(_ context.Context, c *BusinessColumn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetColumn(_ context.Context, id string) (*BusinessColumn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.columns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) ListColumns(_ context.Context, tableID string, opts ListOptions) ([]BusinessColumn, int, error) {
	opts = opts.normalized()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []BusinessColumn
	for _, c := range s.columns {
		if tableID != "" && c.TableID != tableID {
			continue
		}
		if !opts.IncludeInactive && !c.IsActive {
			continue
		}
		if !matchesSearch(opts.Search, c.ColumnName, c.BusinessMeaning) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ColumnName < matched[j].ColumnName
	})
	out, total := page(matched, opts)
	return out, total, nil
}

func (s *MemoryStore) UpdateColumn(_ context.Context, c *BusinessColumn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[c.ID]; !ok {
		return ErrNotFound
	}
	s.columns[c.ID] = *c
	return nil
}

func (s *MemoryStore) DeleteColumn(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[id]; !ok {
		return ErrNotFound
	}
	delete(s.columns, id)
	return nil
}

// ── Domains ─────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateDomain(_ context.Context, d *BusinessDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains[d.ID] = *d
	return nil
}

func (s *MemoryStore) GetDomain(_ context.Context, id string) (*BusinessDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.domains[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *MemoryStore) ListDomains(_ context.Context, opts ListOptions) ([]BusinessDomain, int, error) {
	opts = opts.normalized()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []BusinessDomain
	for _, d := range s.domains {
		if !opts.IncludeInactive && !d.IsActive {
			continue
		}
		if !matchesSearch(opts.Search, d.DomainName, d.Description) {
			continue
		}
		matched = append(matched, d)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DomainName < matched[j].DomainName
	})
	out, total := page(matched, opts)
	return out, total, nil
}

func (s *MemoryStore) UpdateDomain(_ context.Context, d *BusinessDomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domains[d.ID]; !ok {
		return ErrNotFound
	}
	s.domains[d.ID] = *d
	return nil
}

func (s *MemoryStore) DeleteDomain(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domains[id]; !ok {
		return ErrNotFound
	}
	delete(s.domains, id)
	return nil
}

// ── Configs ─────────────────────────────────────────────────────────────────

func (s *MemoryStore) GetConfig(_ context.Context, key string) (*SystemConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (s *MemoryStore) ListConfigs(_ context.Context) ([]SystemConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SystemConfig, 0, len(s.configs))
	for _, cfg := range s.configs {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) PutConfig(_ context.Context, cfg *SystemConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.Key] = *cfg
	return nil
}
