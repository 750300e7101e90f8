package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// SystemConfig is one keyed configuration entry. Sensitive values are
// masked by the API layer on read; the store keeps the real value.
type SystemConfig struct {
	ent.Schema
}

func (SystemConfig) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			NotEmpty().
			Unique().
			Immutable(),
		field.Text("value").
			Optional(),
		field.String("data_type").
			Default("string"),
		field.Text("description").
			Optional(),
		field.Bool("is_sensitive").
			Default(false),
		field.String("updated_by").
			NotEmpty(),
		field.Time("updated_at"),
	}
}
