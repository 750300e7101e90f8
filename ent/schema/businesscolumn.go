package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// BusinessColumn describes one column of a BusinessTable: its meaning,
// example values, and the aliases the natural-language layer maps onto it.
type BusinessColumn struct {
	ent.Schema
}

func (BusinessColumn) Mixin() []ent.Mixin {
	return []ent.Mixin{
		AuditMixin{},
	}
}

func (BusinessColumn) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Unique(),
		field.String("table_id").
			NotEmpty().
			Comment("Owning BusinessTable ID"),
		field.String("column_name").
			NotEmpty(),
		field.String("data_type").
			Optional().
			Comment("Physical SQL type, informational only"),
		field.Text("business_meaning").
			Optional(),
		field.Text("business_context").
			Optional(),
		field.Text("data_examples").
			Optional().
			Comment("Representative values (JSON array text)"),
		field.Text("validation_rules").
			Optional().
			Comment("Value constraints (JSON text)"),
		field.Text("natural_language_aliases").
			Optional(),
		field.Text("semantic_tags").
			Optional(),
		field.Bool("is_key_column").
			Default(false),
		field.Bool("is_active").
			Default(true),
	}
}

func (BusinessColumn) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("table", BusinessTable.Type).
			Ref("columns").
			Unique().
			Required().
			Field("table_id"),
	}
}

func (BusinessColumn) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("table_id", "column_name").
			Unique(),
	}
}
