package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

// CreateTables creates the metadata tables. Run during migration at startup.
func (s *SQLiteStore) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS business_tables (
			id                       TEXT PRIMARY KEY,
			schema_name              TEXT NOT NULL,
			table_name               TEXT NOT NULL,
			business_purpose         TEXT NOT NULL DEFAULT '',
			business_context         TEXT NOT NULL DEFAULT '',
			primary_use_case         TEXT NOT NULL DEFAULT '',
			natural_language_aliases TEXT NOT NULL DEFAULT '',
			usage_patterns           TEXT NOT NULL DEFAULT '',
			related_business_terms   TEXT NOT NULL DEFAULT '',
			business_rules           TEXT NOT NULL DEFAULT '',
			domain_classification    TEXT NOT NULL DEFAULT '',
			importance_score         REAL NOT NULL DEFAULT 0,
			usage_frequency          REAL NOT NULL DEFAULT 0,
			is_active                INTEGER NOT NULL DEFAULT 1,
			created_by               TEXT NOT NULL DEFAULT '',
			updated_by               TEXT NOT NULL DEFAULT '',
			created_at               TEXT NOT NULL,
			updated_at               TEXT NOT NULL,
			UNIQUE (schema_name, table_name)
		);

		CREATE TABLE IF NOT EXISTS business_columns (
			id                       TEXT PRIMARY KEY,
			table_id                 TEXT NOT NULL REFERENCES business_tables (id),
			column_name              TEXT NOT NULL,
			data_type                TEXT NOT NULL DEFAULT '',
			business_meaning         TEXT NOT NULL DEFAULT '',
			business_context         TEXT NOT NULL DEFAULT '',
			data_examples            TEXT NOT NULL DEFAULT '',
			validation_rules         TEXT NOT NULL DEFAULT '',
			natural_language_aliases TEXT NOT NULL DEFAULT '',
			semantic_tags            TEXT NOT NULL DEFAULT '',
			is_key_column            INTEGER NOT NULL DEFAULT 0,
			is_active                INTEGER NOT NULL DEFAULT 1,
			created_by               TEXT NOT NULL DEFAULT '',
			updated_by               TEXT NOT NULL DEFAULT '',
			created_at               TEXT NOT NULL,
			updated_at               TEXT NOT NULL,
			UNIQUE (table_id, column_name)
		);

		CREATE INDEX IF NOT EXISTS idx_columns_table
			ON business_columns (table_id);

		CREATE TABLE IF NOT EXISTS business_domains (
			id             TEXT PRIMARY KEY,
			domain_name    TEXT NOT NULL UNIQUE,
			description    TEXT NOT NULL DEFAULT '',
			related_tables TEXT NOT NULL DEFAULT '',
			key_concepts   TEXT NOT NULL DEFAULT '',
			common_queries TEXT NOT NULL DEFAULT '',
			is_active      INTEGER NOT NULL DEFAULT 1,
			created_by     TEXT NOT NULL DEFAULT '',
			updated_by     TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS system_configs (
			key          TEXT PRIMARY KEY,
			value        TEXT NOT NULL DEFAULT '',
			data_type    TEXT NOT NULL DEFAULT 'string',
			description  TEXT NOT NULL DEFAULT '',
			is_sensitive INTEGER NOT NULL DEFAULT 0,
			updated_by   TEXT NOT NULL DEFAULT '',
			updated_at   TEXT NOT NULL
		);
	`)
	return err
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func intToBool(i int) bool { return i != 0 }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// searchClause builds a LIKE filter across the given columns.
func searchClause(opts ListOptions, cols ...string) (string, []interface{}) {
	clause := ""
	var args []interface{}
	if !opts.IncludeInactive {
		clause += " AND is_active = 1"
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		clause += " AND ("
		for i, c := range cols {
			if i > 0 {
				clause += " OR "
			}
			clause += c + " LIKE ?"
			args = append(args, like)
		}
		clause += ")"
	}
	return clause, args
}

// ── Tables ──────────────────────────────────────────────────────────────────

const tableCols = `id, schema_name, table_name, business_purpose, business_context,
	primary_use_case, natural_language_aliases, usage_patterns,
	related_business_terms, business_rules, domain_classification,
	importance_score, usage_frequency, is_active, created_by, updated_by,
	created_at, updated_at`

func (s *SQLiteStore) CreateTable(ctx context.Context, t *BusinessTable) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_tables (`+tableCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SchemaName, t.TableName, t.BusinessPurpose, t.BusinessContext,
		t.PrimaryUseCase, t.NaturalLanguageAliases, t.UsagePatterns,
		t.RelatedBusinessTerms, t.BusinessRules, t.DomainClassification,
		t.ImportanceScore, t.UsageFrequency, boolToInt(t.IsActive),
		t.CreatedBy, t.UpdatedBy, fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt),
	)
	return err
}

func scanTable(row interface{ Scan(...interface{}) error }) (*BusinessTable, error) {
	var t BusinessTable
	var active int
	var createdAt, updatedAt string
	err := row.Scan(
		&t.ID, &t.SchemaName, &t.TableName, &t.BusinessPurpose, &t.BusinessContext,
		&t.PrimaryUseCase, &t.NaturalLanguageAliases, &t.UsagePatterns,
		&t.RelatedBusinessTerms, &t.BusinessRules, &t.DomainClassification,
		&t.ImportanceScore, &t.UsageFrequency, &active,
		&t.CreatedBy, &t.UpdatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.IsActive = intToBool(active)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func (s *SQLiteStore) GetTable(ctx context.Context, id string) (*BusinessTable, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM business_tables WHERE id = ?`, id)
	t, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) ListTables(ctx context.Context, opts ListOptions) ([]BusinessTable, int, error) {
	opts = opts.normalized()
	clause, args := searchClause(opts, "table_name", "schema_name", "business_purpose")

	var total int
	countArgs := append([]interface{}{}, args...)
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM business_tables WHERE 1=1`+clause, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting tables: %w", err)
	}

	query := `SELECT ` + tableCols + ` FROM business_tables WHERE 1=1` + clause +
		` ORDER BY schema_name, table_name LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var out []BusinessTable
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) UpdateTable(ctx context.Context, t *BusinessTable) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE business_tables SET
			schema_name = ?, table_name = ?, business_purpose = ?,
			business_context = ?, primary_use_case = ?,
			natural_language_aliases = ?, usage_patterns = ?,
			related_business_terms = ?, business_rules = ?,
			domain_classification = ?, importance_score = ?,
			usage_frequency = ?, is_active = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`,
		t.SchemaName, t.TableName, t.BusinessPurpose, t.BusinessContext,
		t.PrimaryUseCase, t.NaturalLanguageAliases, t.UsagePatterns,
		t.RelatedBusinessTerms, t.BusinessRules, t.DomainClassification,
		t.ImportanceScore, t.UsageFrequency, boolToInt(t.IsActive),
		t.UpdatedBy, fmtTime(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLiteStore) DeleteTable(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM business_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// ── Columns ─────────────────────────────────────────────────────────────────

const columnCols = `id, table_id, column_name, data_type, business_meaning,
	business_context, data_examples, validation_rules,
	natural_language_aliases, semantic_tags, is_key_column, is_active,
	created_by, updated_by, created_at, updated_at`

func (s *SQLiteStore) CreateColumn(ctx context.Context, c *BusinessColumn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_columns (`+columnCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TableID, c.ColumnName, c.DataType, c.BusinessMeaning,
		c.BusinessContext, c.DataExamples, c.ValidationRules,
		c.NaturalLanguageAliases, c.SemanticTags,
		boolToInt(c.IsKeyColumn), boolToInt(c.IsActive),
		c.CreatedBy, c.UpdatedBy, fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt),
	)
	return err
}

func scanColumn(row interface{ Scan(...interface{}) error }) (*BusinessColumn, error) {
	var c BusinessColumn
	var key, active int
	var createdAt, updatedAt string
	err := row.Scan(
		&c.ID, &c.TableID, &c.ColumnName, &c.DataType, &c.BusinessMeaning,
		&c.BusinessContext, &c.DataExamples, &c.ValidationRules,
		&c.NaturalLanguageAliases, &c.SemanticTags, &key, &active,
		&c.CreatedBy, &c.UpdatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.IsKeyColumn = intToBool(key)
	c.IsActive = intToBool(active)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func (s *SQLiteStore) GetColumn(ctx context.Context, id string) (*BusinessColumn, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+columnCols+` FROM business_columns WHERE id = ?`, id)
	c, err := scanColumn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) ListColumns(ctx context.Context, tableID string, opts ListOptions) ([]BusinessColumn, int, error) {
	opts = opts.normalized()
	clause, args := searchClause(opts, "column_name", "business_meaning")
	if tableID != "" {
		clause += " AND table_id = ?"
		args = append(args, tableID)
	}

	var total int
	countArgs := append([]interface{}{}, args...)
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM business_columns WHERE 1=1`+clause, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting columns: %w", err)
	}

	query := `SELECT ` + columnCols + ` FROM business_columns WHERE 1=1` + clause +
		` ORDER BY column_name LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing columns: %w", err)
	}
	defer rows.Close()

	var out []BusinessColumn
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) UpdateColumn(ctx context.Context, c *BusinessColumn) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE business_columns SET
			table_id = ?, column_name = ?, data_type = ?, business_meaning = ?,
			business_context = ?, data_examples = ?, validation_rules = ?,
			natural_language_aliases = ?, semantic_tags = ?, is_key_column = ?,
			is_active = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`,
		c.TableID, c.ColumnName, c.DataType, c.BusinessMeaning,
		c.BusinessContext, c.DataExamples, c.ValidationRules,
		c.NaturalLanguageAliases, c.SemanticTags,
		boolToInt(c.IsKeyColumn), boolToInt(c.IsActive),
		c.UpdatedBy, fmtTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLiteStore) DeleteColumn(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM business_columns WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// ── Domains ─────────────────────────────────────────────────────────────────

const domainCols = `id, domain_name, description, related_tables, key_concepts,
	common_queries, is_active, created_by, updated_by, created_at, updated_at`

func (s *SQLiteStore) CreateDomain(ctx context.Context, d *BusinessDomain) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_domains (`+domainCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DomainName, d.Description, d.RelatedTables, d.KeyConcepts,
		d.CommonQueries, boolToInt(d.IsActive),
		d.CreatedBy, d.UpdatedBy, fmtTime(d.CreatedAt), fmtTime(d.UpdatedAt),
	)
	return err
}

func scanDomain(row interface{ Scan(...interface{}) error }) (*BusinessDomain, error) {
	var d BusinessDomain
	var active int
	var createdAt, updatedAt string
	err := row.Scan(
		&d.ID, &d.DomainName, &d.Description, &d.RelatedTables, &d.KeyConcepts,
		&d.CommonQueries, &active, &d.CreatedBy, &d.UpdatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.IsActive = intToBool(active)
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}

func (s *SQLiteStore) GetDomain(ctx context.Context, id string) (*BusinessDomain, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+domainCols+` FROM business_domains WHERE id = ?`, id)
	d, err := scanDomain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (s *SQLiteStore) ListDomains(ctx context.Context, opts ListOptions) ([]BusinessDomain, int, error) {
	opts = opts.normalized()
	clause, args := searchClause(opts, "domain_name", "description")

	var total int
	countArgs := append([]interface{}{}, args...)
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM business_domains WHERE 1=1`+clause, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting domains: %w", err)
	}

	query := `SELECT ` + domainCols + ` FROM business_domains WHERE 1=1` + clause +
		` ORDER BY domain_name LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing domains: %w", err)
	}
	defer rows.Close()

	var out []BusinessDomain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) UpdateDomain(ctx context.Context, d *BusinessDomain) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE business_domains SET
			domain_name = ?, description = ?, related_tables = ?,
			key_concepts = ?, common_queries = ?, is_active = ?,
			updated_by = ?, updated_at = ?
		WHERE id = ?`,
		d.DomainName, d.Description, d.RelatedTables, d.KeyConcepts,
		d.CommonQueries, boolToInt(d.IsActive),
		d.UpdatedBy, fmtTime(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *SQLiteStore) DeleteDomain(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM business_domains WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// ── Configs ─────────────────────────────────────────────────────────────────

func (s *SQLiteStore) GetConfig(ctx context.Context, key string) (*SystemConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, value, data_type, description, is_sensitive, updated_by, updated_at
		FROM system_configs WHERE key = ?`, key)
	var cfg SystemConfig
	var sensitive int
	var updatedAt string
	err := row.Scan(&cfg.Key, &cfg.Value, &cfg.DataType, &cfg.Description,
		&sensitive, &cfg.UpdatedBy, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cfg.IsSensitive = intToBool(sensitive)
	cfg.UpdatedAt = parseTime(updatedAt)
	return &cfg, nil
}

func (s *SQLiteStore) ListConfigs(ctx context.Context) ([]SystemConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, data_type, description, is_sensitive, updated_by, updated_at
		FROM system_configs ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing configs: %w", err)
	}
	defer rows.Close()

	var out []SystemConfig
	for rows.Next() {
		var cfg SystemConfig
		var sensitive int
		var updatedAt string
		if err := rows.Scan(&cfg.Key, &cfg.Value, &cfg.DataType, &cfg.Description,
			&sensitive, &cfg.UpdatedBy, &updatedAt); err != nil {
			return nil, err
		}
		cfg.IsSensitive = intToBool(sensitive)
		cfg.UpdatedAt = parseTime(updatedAt)
		out = append(out, cfg)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutConfig(ctx context.Context, cfg *SystemConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_configs (key, value, data_type, description, is_sensitive, updated_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			data_type = excluded.data_type,
			description = excluded.description,
			is_sensitive = excluded.is_sensitive,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`,
		cfg.Key, cfg.Value, cfg.DataType, cfg.Description,
		boolToInt(cfg.IsSensitive), cfg.UpdatedBy, fmtTime(cfg.UpdatedAt),
	)
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
