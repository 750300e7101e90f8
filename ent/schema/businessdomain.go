package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// BusinessDomain groups related tables under one business area (player
// activity, finance, compliance) and carries the concepts and canonical
// questions that scope AI queries to the right tables.
type BusinessDomain struct {
	ent.Schema
}

func (BusinessDomain) Mixin() []ent.Mixin {
	return []ent.Mixin{
		AuditMixin{},
	}
}

func (BusinessDomain) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Unique(),
		field.String("domain_name").
			NotEmpty().
			Unique(),
		field.Text("description").
			Optional(),
		field.Text("related_tables").
			Optional().
			Comment("Tables in scope for this domain (JSON array text)"),
		field.Text("key_concepts").
			Optional(),
		field.Text("common_queries").
			Optional().
			Comment("Canonical questions the domain answers (JSON array text)"),
		field.Bool("is_active").
			Default(true),
	}
}
