// cmd/metaedit is a terminal editor for a single metadata field. It runs the
// same editor state machine the admin UI uses: read-mode preview with
// inline-editable leaves, and a full-text mode over the raw stored value.
//
// Usage:
//
//	metaedit -db ./data/admin.db -entity table -id <uuid> -field natural_language_aliases
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

func main() {
	var (
		dbPath     = flag.String("db", "./data/admin.db", "path to the admin SQLite database")
		entityType = flag.String("entity", "table", "entity type: table, column, domain, config")
		entityID   = flag.String("id", "", "entity ID (config key for -entity config)")
		field      = flag.String("field", "", "field name to edit")
		actor      = flag.String("actor", "metaedit", "actor recorded on commits")
	)
	flag.Parse()

	if *entityID == "" || *field == "" {
		fmt.Fprintln(os.Stderr, "metaedit: -id and -field are required")
		flag.Usage()
		os.Exit(2)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaedit: opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	svc := metadata.NewService(metadata.NewSQLiteStore(db), nil, zap.NewNop())

	ctx := context.Background()
	value, spec, err := svc.FieldState(ctx, *entityType, *entityID, *field)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaedit: %v\n", err)
		os.Exit(1)
	}

	m := newModel(ctx, svc, target{
		EntityType: *entityType,
		EntityID:   *entityID,
		Field:      *field,
		Actor:      *actor,
	}, value, spec)

	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "metaedit: %v\n", err)
		os.Exit(1)
	}
}
