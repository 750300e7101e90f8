package transparency

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreateTables creates the trace_entries table. Run during migration at
// startup.
func (s *SQLiteStore) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS trace_entries (
			trace_id          TEXT PRIMARY KEY,
			question          TEXT NOT NULL,
			generated_sql     TEXT NOT NULL DEFAULT '',
			model             TEXT NOT NULL,
			confidence        REAL NOT NULL,
			prompt_tokens     INTEGER NOT NULL,
			completion_tokens INTEGER NOT NULL,
			total_tokens      INTEGER NOT NULL,
			duration_ms       INTEGER NOT NULL,
			success           INTEGER NOT NULL,
			steps             TEXT NOT NULL DEFAULT '[]',
			occurred_at       TEXT NOT NULL,
			category          TEXT NOT NULL,
			weight            TEXT NOT NULL,
			polarity          TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trace_time
			ON trace_entries (occurred_at DESC);

		CREATE INDEX IF NOT EXISTS idx_trace_model_time
			ON trace_entries (model, occurred_at DESC);
	`)
	return err
}

// WriteTrace inserts a trace entry. Re-ingesting the same trace ID is a
// no-op.
func (s *SQLiteStore) WriteTrace(ctx context.Context, e TraceEntry) error {
	stepsJSON, _ := json.Marshal(e.Steps)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trace_entries (
			trace_id, question, generated_sql, model, confidence,
			prompt_tokens, completion_tokens, total_tokens, duration_ms,
			success, steps, occurred_at, category, weight, polarity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		e.TraceID, e.Question, e.GeneratedSQL, e.Model, e.Confidence,
		e.PromptTokens, e.CompletionTokens, e.TotalTokens, e.DurationMs,
		boolToInt(e.Success), string(stepsJSON),
		e.OccurredAt.UTC().Format(time.RFC3339Nano),
		e.Category, e.Weight, e.Polarity,
	)
	return err
}

// QueryTraces returns trace entries with filtering and cursor pagination.
func (s *SQLiteStore) QueryTraces(ctx context.Context, opts QueryOptions) ([]TraceEntry, string, int, error) {
	if opts.Limit <= 0 || opts.Limit > 500 {
		opts.Limit = 100
	}

	var conditions []string
	var args []interface{}

	if opts.Since != nil {
		conditions = append(conditions, "occurred_at >= ?")
		args = append(args, opts.Since.UTC().Format(time.RFC3339Nano))
	}
	if opts.Until != nil {
		conditions = append(conditions, "occurred_at <= ?")
		args = append(args, opts.Until.UTC().Format(time.RFC3339Nano))
	}
	if len(opts.Models) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?, ", len(opts.Models)), ", ")
		conditions = append(conditions, fmt.Sprintf("model IN (%s)", placeholders))
		for _, m := range opts.Models {
			args = append(args, m)
		}
	}
	if len(opts.Categories) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?, ", len(opts.Categories)), ", ")
		conditions = append(conditions, fmt.Sprintf("category IN (%s)", placeholders))
		for _, c := range opts.Categories {
			args = append(args, c)
		}
	}
	if opts.MinWeight != "" && opts.MinWeight != "info" {
		maxSeverity := WeightSeverity(opts.MinWeight)
		var weightValues []string
		for w, sev := range WeightOrder {
			if sev <= maxSeverity {
				weightValues = append(weightValues, w)
			}
		}
		if len(weightValues) > 0 {
			placeholders := strings.TrimRight(strings.Repeat("?, ", len(weightValues)), ", ")
			conditions = append(conditions, fmt.Sprintf("weight IN (%s)", placeholders))
			for _, wv := range weightValues {
				args = append(args, wv)
			}
		}
	}
	if opts.MaxConfidence != nil {
		conditions = append(conditions, "confidence <= ?")
		args = append(args, *opts.MaxConfidence)
	}
	if opts.Cursor != "" {
		// Cursor is the occurred_at timestamp of the last result.
		if _, err := time.Parse(time.RFC3339Nano, opts.Cursor); err == nil {
			conditions = append(conditions, "occurred_at < ?")
			args = append(args, opts.Cursor)
		}
	}

	where := "1=1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT trace_id, question, generated_sql, model, confidence,
			prompt_tokens, completion_tokens, total_tokens, duration_ms,
			success, steps, occurred_at, category, weight, polarity
		FROM trace_entries
		WHERE %s
		ORDER BY occurred_at DESC
		LIMIT ?`, where)
	queryArgs := append(append([]interface{}{}, args...), opts.Limit+1) // fetch one extra for cursor

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, "", 0, fmt.Errorf("querying trace entries: %w", err)
	}
	defer rows.Close()

	var entries []TraceEntry
	for rows.Next() {
		var e TraceEntry
		var success int
		var stepsJSON, occurredAt string
		err := rows.Scan(
			&e.TraceID, &e.Question, &e.GeneratedSQL, &e.Model, &e.Confidence,
			&e.PromptTokens, &e.CompletionTokens, &e.TotalTokens, &e.DurationMs,
			&success, &stepsJSON, &occurredAt, &e.Category, &e.Weight, &e.Polarity,
		)
		if err != nil {
			return nil, "", 0, fmt.Errorf("scanning trace entry: %w", err)
		}
		e.Success = success != 0
		if stepsJSON != "" {
			_ = json.Unmarshal([]byte(stepsJSON), &e.Steps)
		}
		e.OccurredAt, _ = time.Parse(time.RFC3339Nano, occurredAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", 0, err
	}

	var nextCursor string
	if len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
		nextCursor = entries[len(entries)-1].OccurredAt.Format(time.RFC3339Nano)
	}

	// Total count via a separate query for accuracy.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM trace_entries WHERE %s", where)
	var totalCount int
	_ = s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount)

	return entries, nextCursor, totalCount, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
