package transparency

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory slices. Intended for demos
// and testing — no database required.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []TraceEntry
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) WriteTrace(_ context.Context, entry TraceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) QueryTraces(_ context.Context, opts QueryOptions) ([]TraceEntry, string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []TraceEntry
	for _, e := range s.entries {
		if opts.Since != nil && e.OccurredAt.Before(*opts.Since) {
			continue
		}
		if opts.Until != nil && e.OccurredAt.After(*opts.Until) {
			continue
		}
		if len(opts.Models) > 0 && !containsString(opts.Models, e.Model) {
			continue
		}
		if len(opts.Categories) > 0 && !containsString(opts.Categories, e.Category) {
			continue
		}
		if opts.MinWeight != "" && opts.MinWeight != "info" {
			if !IsAtLeastWeight(e.Weight, opts.MinWeight) {
				continue
			}
		}
		if opts.MaxConfidence != nil && e.Confidence > *opts.MaxConfidence {
			continue
		}
		if opts.Cursor != "" {
			cursorTime, err := time.Parse(time.RFC3339Nano, opts.Cursor)
			if err == nil && !e.OccurredAt.Before(cursorTime) {
				continue
			}
		}
		matched = append(matched, e)
	}

	// Sort by occurred_at DESC.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	totalCount := len(matched)
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var nextCursor string
	if len(matched) > limit {
		matched = matched[:limit]
		nextCursor = matched[len(matched)-1].OccurredAt.Format(time.RFC3339Nano)
	}

	return matched, nextCursor, totalCount, nil
}
