// Package metadata holds the business-metadata entities that enrich the
// reporting schema for AI query generation: table and column semantics,
// business domains, and system configuration.
package metadata

import "time"

// BusinessTable captures the business semantics of one reporting table.
// The free-text fields hold either plain text, a comma list, or a JSON
// document; the editor decides how to render and edit each one.
type BusinessTable struct {
	ID                     string    `json:"id"`
	SchemaName             string    `json:"schema_name"`
	TableName              string    `json:"table_name"`
	BusinessPurpose        string    `json:"business_purpose"`
	BusinessContext        string    `json:"business_context"`
	PrimaryUseCase         string    `json:"primary_use_case"`
	NaturalLanguageAliases string    `json:"natural_language_aliases"`
	UsagePatterns          string    `json:"usage_patterns"`
	RelatedBusinessTerms   string    `json:"related_business_terms"`
	BusinessRules          string    `json:"business_rules"`
	DomainClassification   string    `json:"domain_classification"`
	ImportanceScore        float64   `json:"importance_score"`
	UsageFrequency         float64   `json:"usage_frequency"`
	IsActive               bool      `json:"is_active"`
	CreatedBy              string    `json:"created_by"`
	UpdatedBy              string    `json:"updated_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// BusinessColumn captures the business semantics of one column.
type BusinessColumn struct {
	ID                     string    `json:"id"`
	TableID                string    `json:"table_id"`
	ColumnName             string    `json:"column_name"`
	DataType               string    `json:"data_type"`
	BusinessMeaning        string    `json:"business_meaning"`
	BusinessContext        string    `json:"business_context"`
	DataExamples           string    `json:"data_examples"`
	ValidationRules        string    `json:"validation_rules"`
	NaturalLanguageAliases string    `json:"natural_language_aliases"`
	SemanticTags           string    `json:"semantic_tags"`
	IsKeyColumn            bool      `json:"is_key_column"`
	IsActive               bool      `json:"is_active"`
	CreatedBy              string    `json:"created_by"`
	UpdatedBy              string    `json:"updated_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// BusinessDomain groups related tables under one business concept.
type BusinessDomain struct {
	ID            string    `json:"id"`
	DomainName    string    `json:"domain_name"`
	Description   string    `json:"description"`
	RelatedTables string    `json:"related_tables"`
	KeyConcepts   string    `json:"key_concepts"`
	CommonQueries string    `json:"common_queries"`
	IsActive      bool      `json:"is_active"`
	CreatedBy     string    `json:"created_by"`
	UpdatedBy     string    `json:"updated_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SystemConfig is one key/value pair of runtime configuration. Values are
// stored as text; DataType records how consumers should interpret them.
type SystemConfig struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	DataType    string    `json:"data_type"` // "string", "number", "boolean", "json"
	Description string    `json:"description"`
	IsSensitive bool      `json:"is_sensitive"`
	UpdatedBy   string    `json:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Entity type names as used in URLs, events, and the field registry.
const (
	EntityTable  = "table"
	EntityColumn = "column"
	EntityDomain = "domain"
	EntityConfig = "config"
)
