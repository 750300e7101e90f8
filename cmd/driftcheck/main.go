// cmd/driftcheck validates consistency between the CUE form definitions and
// the Go field registry.
//
// It leverages the formschema loader's own validation: since every form field
// must resolve against the registry, compiling the embedded CUE catches
// unknown fields, duplicates, and missing coverage automatically.
//
// Additional checks validate:
// - Every registered entity type has a form
// - JSON-widget fields actually allow containers in the registry
package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/uridolan77/reportaing-admin/internal/formschema"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("driftcheck: ")

	// Phase 1: Compile the embedded CUE and join it with the registry.
	// Load fails on unknown fields, duplicate placements, or registry
	// fields the forms never surface.
	fmt.Println("Phase 1: Compiling form definitions against the field registry...")
	schemas, err := formschema.Load()
	if err != nil {
		log.Fatalf("form validation failed: %v", err)
	}

	entities := make([]string, 0, len(schemas))
	for entity := range schemas {
		entities = append(entities, entity)
	}
	sort.Strings(entities)
	for _, entity := range entities {
		form := schemas[entity]
		fields := 0
		for _, sec := range form.Sections {
			fields += len(sec.Fields)
		}
		fmt.Printf("  %-8s %d sections, %d fields\n", entity, len(form.Sections), fields)
	}

	// Phase 2: Every entity type the registry knows must have a form.
	fmt.Println("Phase 2: Checking entity coverage...")
	drift := 0
	for _, entity := range []string{
		metadata.EntityTable,
		metadata.EntityColumn,
		metadata.EntityDomain,
		metadata.EntityConfig,
	} {
		if _, ok := schemas[entity]; !ok {
			fmt.Printf("  MISSING: no form defined for entity %q\n", entity)
			drift++
		}
	}

	// Phase 3: Widget/constraint agreement. A "json" widget on a field that
	// allows neither arrays nor objects renders an editor that can only ever
	// hold scalars.
	fmt.Println("Phase 3: Checking widget constraints...")
	for _, entity := range entities {
		for _, sec := range schemas[entity].Sections {
			for _, f := range sec.Fields {
				if f.Widget == "json" && !f.Spec.AllowArrays && !f.Spec.AllowObjects {
					fmt.Printf("  DRIFT: %s.%s uses the json widget but allows no containers\n",
						entity, f.Name)
					drift++
				}
			}
		}
	}

	if drift > 0 {
		log.Fatalf("%d drift issue(s) found", drift)
	}
	fmt.Println("\ndriftcheck: OK — forms and registry agree")
}
