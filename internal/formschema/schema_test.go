package formschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

func TestLoad_AllEntitiesPresent(t *testing.T) {
	schemas, err := Load()
	require.NoError(t, err)

	for _, entity := range []string{
		metadata.EntityTable, metadata.EntityColumn,
		metadata.EntityDomain, metadata.EntityConfig,
	} {
		schema, ok := schemas[entity]
		require.True(t, ok, "missing form for %s", entity)
		assert.Equal(t, entity, schema.Entity)
		assert.NotEmpty(t, schema.Title)
		assert.NotEmpty(t, schema.Sections)
	}
}

func TestLoad_CoversRegistry(t *testing.T) {
	schemas, err := Load()
	require.NoError(t, err)

	// Every registered field appears exactly once in its entity's form.
	for entity, schema := range schemas {
		specs, ok := metadata.Fields(entity)
		require.True(t, ok)

		seen := map[string]int{}
		for _, section := range schema.Sections {
			for _, field := range section.Fields {
				seen[field.Name]++
			}
		}
		for _, spec := range specs {
			assert.Equal(t, 1, seen[spec.Name], "%s.%s", entity, spec.Name)
		}
	}
}

func TestLoad_AttachesConstraints(t *testing.T) {
	schemas, err := Load()
	require.NoError(t, err)

	table := schemas[metadata.EntityTable]
	var aliases *Field
	for i := range table.Sections {
		for j := range table.Sections[i].Fields {
			if table.Sections[i].Fields[j].Name == "natural_language_aliases" {
				aliases = &table.Sections[i].Fields[j]
			}
		}
	}
	require.NotNil(t, aliases)
	assert.Equal(t, "json", aliases.Widget)
	assert.True(t, aliases.Spec.AllowArrays)
	assert.False(t, aliases.Spec.AllowObjects)
	assert.True(t, aliases.Spec.AllowInlineEdit)
}

func TestEnrich_RejectsUnknownField(t *testing.T) {
	_, err := enrich(metadata.EntityTable, cueForm{
		Title: "Bad",
		Sections: []cueSection{
			{ID: "s", Title: "S", Fields: []cueField{{Name: "no_such_field", Widget: "input"}}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_field")
}
