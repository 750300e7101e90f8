package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// BusinessTable is the business-layer description of a physical database
// table: what it means, how analysts talk about it, and how the AI query
// layer should use it. The free-text JSON fields hold the raw text managed
// by the path editor, so they stay Text rather than typed JSON columns.
type BusinessTable struct {
	ent.Schema
}

func (BusinessTable) Mixin() []ent.Mixin {
	return []ent.Mixin{
		AuditMixin{},
	}
}

func (BusinessTable) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Unique().
			Comment("UUID assigned on creation"),
		field.String("schema_name").
			NotEmpty().
			Comment("Physical schema the table lives in"),
		field.String("table_name").
			NotEmpty().
			Comment("Physical table name"),
		field.Text("business_purpose").
			Optional().
			Comment("What the table exists to answer"),
		field.Text("business_context").
			Optional(),
		field.Text("primary_use_case").
			Optional(),
		field.Text("natural_language_aliases").
			Optional().
			Comment("Phrases analysts use for this table (JSON array text)"),
		field.Text("usage_patterns").
			Optional().
			Comment("Query shapes the AI layer should prefer (JSON text)"),
		field.Text("related_business_terms").
			Optional(),
		field.Text("business_rules").
			Optional().
			Comment("Constraints the AI must honor when querying (JSON text)"),
		field.String("domain_classification").
			Optional(),
		field.Float("importance_score").
			Default(0).
			Min(0).
			Max(1),
		field.Float("usage_frequency").
			Default(0).
			Min(0),
		field.Bool("is_active").
			Default(true),
	}
}

func (BusinessTable) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("columns", BusinessColumn.Type).
			Comment("Column-level metadata belonging to this table"),
	}
}

func (BusinessTable) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("schema_name", "table_name").
			Unique(),
	}
}
