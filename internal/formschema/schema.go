// Package formschema compiles the embedded CUE form definitions into the
// form schemas served to the admin front-end. CUE owns layout and copy; the
// field registry owns edit constraints, and the loader joins the two,
// rejecting any CUE field the registry does not know.
package formschema

import (
	"embed"
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

//go:embed *.cue
var cueFiles embed.FS

// Field is one form field: layout from CUE plus constraints from the
// registry.
type Field struct {
	Name   string             `json:"name"`
	Widget string             `json:"widget"` // "input", "textarea", "json"
	Help   string             `json:"help,omitempty"`
	Spec   metadata.FieldSpec `json:"spec"`
}

// Section is one collapsible group of fields.
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// FormSchema describes the editing form for one entity type.
type FormSchema struct {
	Entity   string    `json:"entity"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// cueField/cueSection/cueForm mirror the CUE shapes before enrichment.
type cueField struct {
	Name   string `json:"name"`
	Widget string `json:"widget"`
	Help   string `json:"help"`
}

type cueSection struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Fields []cueField `json:"fields"`
}

type cueForm struct {
	Entity   string       `json:"entity"`
	Title    string       `json:"title"`
	Sections []cueSection `json:"sections"`
}

// Load compiles the embedded CUE package and returns the schemas keyed by
// entity type.
func Load() (map[string]FormSchema, error) {
	entries, err := cueFiles.ReadDir(".")
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	var val cue.Value
	first := true
	for _, entry := range entries {
		src, err := cueFiles.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}
		v := ctx.CompileBytes(src, cue.Filename(entry.Name()))
		if v.Err() != nil {
			return nil, fmt.Errorf("compiling %s: %w", entry.Name(), v.Err())
		}
		if first {
			val = v
			first = false
		} else {
			val = val.Unify(v)
		}
	}
	if first {
		return nil, fmt.Errorf("no embedded cue files")
	}
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating form definitions: %w", err)
	}

	var raw map[string]cueForm
	if err := val.LookupPath(cue.ParsePath("forms")).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding form definitions: %w", err)
	}

	schemas := make(map[string]FormSchema, len(raw))
	for entity, form := range raw {
		schema, err := enrich(entity, form)
		if err != nil {
			return nil, err
		}
		schemas[entity] = schema
	}
	return schemas, nil
}

// enrich joins CUE layout with registry constraints and checks coverage:
// every CUE field must be registered, and every registered field must appear
// somewhere in the form.
func enrich(entity string, form cueForm) (FormSchema, error) {
	if _, ok := metadata.Fields(entity); !ok {
		return FormSchema{}, fmt.Errorf("form %q: no such entity type in the field registry", entity)
	}

	schema := FormSchema{Entity: entity, Title: form.Title}
	seen := map[string]bool{}
	for _, cs := range form.Sections {
		section := Section{ID: cs.ID, Title: cs.Title}
		for _, cf := range cs.Fields {
			spec, ok := metadata.LookupField(entity, cf.Name)
			if !ok {
				return FormSchema{}, fmt.Errorf("form %q: field %q is not in the registry", entity, cf.Name)
			}
			if seen[cf.Name] {
				return FormSchema{}, fmt.Errorf("form %q: field %q appears twice", entity, cf.Name)
			}
			seen[cf.Name] = true
			section.Fields = append(section.Fields, Field{
				Name: cf.Name, Widget: cf.Widget, Help: cf.Help, Spec: spec,
			})
		}
		schema.Sections = append(schema.Sections, section)
	}

	specs, _ := metadata.Fields(entity)
	var missing []string
	for _, spec := range specs {
		if !seen[spec.Name] {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return FormSchema{}, fmt.Errorf("form %q: registered fields missing from layout: %v", entity, missing)
	}
	return schema, nil
}
