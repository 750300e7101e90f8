package seed

import (
	"context"
	"testing"

	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

func TestMetadata_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := metadata.NewMemoryStore()

	if err := Metadata(ctx, store, nil); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	_, total, err := store.ListTables(ctx, metadata.ListOptions{})
	if err != nil {
		t.Fatalf("listing tables: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 seeded tables, got %d", total)
	}

	// Running again against a populated store must be a no-op.
	if err := Metadata(ctx, store, nil); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	_, total, err = store.ListTables(ctx, metadata.ListOptions{})
	if err != nil {
		t.Fatalf("listing tables: %v", err)
	}
	if total != 2 {
		t.Fatalf("seed is not idempotent: got %d tables", total)
	}

	cfg, err := store.GetConfig(ctx, "ai.default_model")
	if err != nil {
		t.Fatalf("getting seeded config: %v", err)
	}
	if cfg.Value != "gpt-4o" {
		t.Fatalf("unexpected config value %q", cfg.Value)
	}
}
