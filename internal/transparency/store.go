package transparency

import (
	"context"
	"time"
)

// Store is the interface for reading and writing trace entries.
type Store interface {
	// WriteTrace persists one classified trace entry.
	WriteTrace(ctx context.Context, entry TraceEntry) error

	// QueryTraces returns trace entries matching the options, newest first,
	// with cursor pagination.
	QueryTraces(ctx context.Context, opts QueryOptions) (entries []TraceEntry, nextCursor string, totalCount int, err error)
}

// QueryOptions controls filtering and pagination for trace queries.
type QueryOptions struct {
	Since         *time.Time // default: 30 days ago
	Until         *time.Time // default: now
	Models        []string   // filter to specific models
	Categories    []string   // filter to specific signal categories
	MinWeight     string     // minimum weight threshold (default: "info")
	MaxConfidence *float64   // only traces at or below this confidence
	Limit         int        // max results (default: 100, max: 500)
	Cursor        string     // cursor for pagination
}

// DefaultQueryOptions returns QueryOptions with sensible defaults.
func DefaultQueryOptions() QueryOptions {
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	now := time.Now()
	return QueryOptions{
		Since:     &thirtyDaysAgo,
		Until:     &now,
		MinWeight: "info",
		Limit:     100,
	}
}

func containsString(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
