package metadata

import "github.com/uridolan77/reportaing-admin/internal/editor"

// FieldSpec declares one editable field of a metadata entity: its label for
// form rendering and the constraints the value editor enforces.
type FieldSpec struct {
	Name            string `json:"name"`
	Label           string `json:"label"`
	Placeholder     string `json:"placeholder,omitempty"`
	Multiline       bool   `json:"multiline"`
	AllowArrays     bool   `json:"allow_arrays"`
	AllowObjects    bool   `json:"allow_objects"`
	AllowInlineEdit bool   `json:"allow_inline_edit"`
}

// EditorOptions converts the spec into options for the value editor.
func (f FieldSpec) EditorOptions() editor.Options {
	return editor.Options{
		Placeholder:     f.Placeholder,
		AllowArrays:     f.AllowArrays,
		AllowObjects:    f.AllowObjects,
		AllowInlineEdit: f.AllowInlineEdit,
	}
}

// prose is a plain-text field: no structured values, no inline editing.
func prose(name, label string, multiline bool) FieldSpec {
	return FieldSpec{Name: name, Label: label, Multiline: multiline}
}

// list is a field holding a JSON array or comma list of strings.
func list(name, label, placeholder string) FieldSpec {
	return FieldSpec{
		Name: name, Label: label, Placeholder: placeholder,
		Multiline: true, AllowArrays: true, AllowInlineEdit: true,
	}
}

// document is a field holding an arbitrary JSON document.
func document(name, label, placeholder string) FieldSpec {
	return FieldSpec{
		Name: name, Label: label, Placeholder: placeholder,
		Multiline: true, AllowArrays: true, AllowObjects: true, AllowInlineEdit: true,
	}
}

var fieldRegistry = map[string][]FieldSpec{
	EntityTable: {
		prose("business_purpose", "Business Purpose", true),
		prose("business_context", "Business Context", true),
		prose("primary_use_case", "Primary Use Case", false),
		list("natural_language_aliases", "Natural Language Aliases", `["deposits", "player deposits"]`),
		document("usage_patterns", "Usage Patterns", `{"daily_report": "sum by brand"}`),
		list("related_business_terms", "Related Business Terms", `["GGR", "NGR"]`),
		document("business_rules", "Business Rules", `{"currency": "amounts are in EUR"}`),
		prose("domain_classification", "Domain Classification", false),
	},
	EntityColumn: {
		prose("business_meaning", "Business Meaning", true),
		prose("business_context", "Business Context", true),
		list("data_examples", "Data Examples", `["2026-01-01", "2026-01-02"]`),
		document("validation_rules", "Validation Rules", `{"min": 0}`),
		list("natural_language_aliases", "Natural Language Aliases", `["player id", "customer id"]`),
		list("semantic_tags", "Semantic Tags", `["identifier", "pii"]`),
	},
	EntityDomain: {
		prose("description", "Description", true),
		list("related_tables", "Related Tables", `["tbl_Daily_actions"]`),
		list("key_concepts", "Key Concepts", `["deposit", "bonus"]`),
		list("common_queries", "Common Queries", `["deposits by brand last week"]`),
	},
	EntityConfig: {
		document("value", "Value", `{"enabled": true}`),
		prose("description", "Description", true),
	},
}

// Fields returns the editable field specs for an entity type.
func Fields(entityType string) ([]FieldSpec, bool) {
	specs, ok := fieldRegistry[entityType]
	return specs, ok
}

// LookupField returns the spec for a single field of an entity type.
func LookupField(entityType, field string) (FieldSpec, bool) {
	for _, spec := range fieldRegistry[entityType] {
		if spec.Name == field {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// ── Field accessors ─────────────────────────────────────────────────────────
//
// FieldValue and SetField bridge the generic edit API onto the typed entity
// structs. Only fields present in the registry are reachable.

func (t *BusinessTable) FieldValue(field string) (string, bool) {
	switch field {
	case "business_purpose":
		return t.BusinessPurpose, true
	case "business_context":
		return t.BusinessContext, true
	case "primary_use_case":
		return t.PrimaryUseCase, true
	case "natural_language_aliases":
		return t.NaturalLanguageAliases, true
	case "usage_patterns":
		return t.UsagePatterns, true
	case "related_business_terms":
		return t.RelatedBusinessTerms, true
	case "business_rules":
		return t.BusinessRules, true
	case "domain_classification":
		return t.DomainClassification, true
	}
	return "", false
}

func (t *BusinessTable) SetField(field, value string) bool {
	switch field {
	case "business_purpose":
		t.BusinessPurpose = value
	case "business_context":
		t.BusinessContext = value
	case "primary_use_case":
		t.PrimaryUseCase = value
	case "natural_language_aliases":
		t.NaturalLanguageAliases = value
	case "usage_patterns":
		t.UsagePatterns = value
	case "related_business_terms":
		t.RelatedBusinessTerms = value
	case "business_rules":
		t.BusinessRules = value
	case "domain_classification":
		t.DomainClassification = value
	default:
		return false
	}
	return true
}

func (c *BusinessColumn) FieldValue(field string) (string, bool) {
	switch field {
	case "business_meaning":
		return c.BusinessMeaning, true
	case "business_context":
		return c.BusinessContext, true
	case "data_examples":
		return c.DataExamples, true
	case "validation_rules":
		return c.ValidationRules, true
	case "natural_language_aliases":
		return c.NaturalLanguageAliases, true
	case "semantic_tags":
		return c.SemanticTags, true
	}
	return "", false
}

func (c *BusinessColumn) SetField(field, value string) bool {
	switch field {
	case "business_meaning":
		c.BusinessMeaning = value
	case "business_context":
		c.BusinessContext = value
	case "data_examples":
		c.DataExamples = value
	case "validation_rules":
		c.ValidationRules = value
	case "natural_language_aliases":
		c.NaturalLanguageAliases = value
	case "semantic_tags":
		c.SemanticTags = value
	default:
		return false
	}
	return true
}

func (d *BusinessDomain) FieldValue(field string) (string, bool) {
	switch field {
	case "description":
		return d.Description, true
	case "related_tables":
		return d.RelatedTables, true
	case "key_concepts":
		return d.KeyConcepts, true
	case "common_queries":
		return d.CommonQueries, true
	}
	return "", false
}

func (d *BusinessDomain) SetField(field, value string) bool {
	switch field {
	case "description":
		d.Description = value
	case "related_tables":
		d.RelatedTables = value
	case "key_concepts":
		d.KeyConcepts = value
	case "common_queries":
		d.CommonQueries = value
	default:
		return false
	}
	return true
}

func (c *SystemConfig) FieldValue(field string) (string, bool) {
	switch field {
	case "value":
		return c.Value, true
	case "description":
		return c.Description, true
	}
	return "", false
}

func (c *SystemConfig) SetField(field, value string) bool {
	switch field {
	case "value":
		c.Value = value
	case "description":
		c.Description = value
	default:
		return false
	}
	return true
}
