package metadata

import (
	"context"
	"testing"
	"time"
)

func seedTables(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tables := []BusinessTable{
		{ID: "t1", SchemaName: "common", TableName: "tbl_Daily_actions",
			BusinessPurpose: "Daily player activity aggregates", IsActive: true,
			CreatedAt: now, UpdatedAt: now},
		{ID: "t2", SchemaName: "common", TableName: "tbl_Daily_actions_games",
			BusinessPurpose: "Per-game daily activity", IsActive: true,
			CreatedAt: now, UpdatedAt: now},
		{ID: "t3", SchemaName: "archive", TableName: "tbl_Old_actions",
			BusinessPurpose: "Retired activity table", IsActive: false,
			CreatedAt: now, UpdatedAt: now},
	}
	for i := range tables {
		if err := store.CreateTable(context.Background(), &tables[i]); err != nil {
			t.Fatalf("CreateTable: %v", err)
		}
	}
	return store
}

func TestMemoryStore_GetTable(t *testing.T) {
	store := seedTables(t)
	got, err := store.GetTable(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if got.TableName != "tbl_Daily_actions" {
		t.Errorf("table name = %q", got.TableName)
	}

	if _, err := store.GetTable(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ListTables_ExcludesInactive(t *testing.T) {
	store := seedTables(t)
	tables, total, err := store.ListTables(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 active", total)
	}
	for _, tbl := range tables {
		if !tbl.IsActive {
			t.Errorf("inactive table %s in default listing", tbl.ID)
		}
	}

	_, total, err = store.ListTables(context.Background(), ListOptions{IncludeInactive: true})
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if total != 3 {
		t.Errorf("total with inactive = %d, want 3", total)
	}
}

func TestMemoryStore_ListTables_Search(t *testing.T) {
	store := seedTables(t)
	tables, _, err := store.ListTables(context.Background(), ListOptions{Search: "games"})
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 1 || tables[0].ID != "t2" {
		t.Errorf("search for 'games' returned %d tables", len(tables))
	}
}

func TestMemoryStore_ListTables_Pagination(t *testing.T) {
	store := seedTables(t)
	page1, total, err := store.ListTables(context.Background(),
		ListOptions{IncludeInactive: true, Limit: 2})
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if total != 3 || len(page1) != 2 {
		t.Fatalf("page 1: total=%d len=%d, want 3/2", total, len(page1))
	}
	page2, _, err := store.ListTables(context.Background(),
		ListOptions{IncludeInactive: true, Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(page2) != 1 {
		t.Errorf("page 2 len = %d, want 1", len(page2))
	}
}

func TestMemoryStore_UpdateTable(t *testing.T) {
	store := seedTables(t)
	tbl, _ := store.GetTable(context.Background(), "t1")
	tbl.BusinessPurpose = "updated purpose"
	if err := store.UpdateTable(context.Background(), tbl); err != nil {
		t.Fatalf("UpdateTable: %v", err)
	}
	got, _ := store.GetTable(context.Background(), "t1")
	if got.BusinessPurpose != "updated purpose" {
		t.Errorf("purpose = %q", got.BusinessPurpose)
	}

	missing := &BusinessTable{ID: "nope"}
	if err := store.UpdateTable(context.Background(), missing); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ColumnsByTable(t *testing.T) {
	store := seedTables(t)
	ctx := context.Background()
	cols := []BusinessColumn{
		{ID: "c1", TableID: "t1", ColumnName: "Deposits", IsActive: true},
		{ID: "c2", TableID: "t1", ColumnName: "PlayerID", IsActive: true},
		{ID: "c3", TableID: "t2", ColumnName: "GameID", IsActive: true},
	}
	for i := range cols {
		if err := store.CreateColumn(ctx, &cols[i]); err != nil {
			t.Fatalf("CreateColumn: %v", err)
		}
	}

	got, total, err := store.ListColumns(ctx, "t1", ListOptions{})
	if err != nil {
		t.Fatalf("ListColumns: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	// Sorted by column name.
	if got[0].ColumnName != "Deposits" || got[1].ColumnName != "PlayerID" {
		t.Errorf("order = [%s %s]", got[0].ColumnName, got[1].ColumnName)
	}
}

func TestMemoryStore_ConfigUpsert(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	cfg := &SystemConfig{Key: "query.max_rows", Value: "1000", DataType: "number"}
	if err := store.PutConfig(ctx, cfg); err != nil {
		t.Fatalf("PutConfig: %v", err)
	}
	cfg.Value = "5000"
	if err := store.PutConfig(ctx, cfg); err != nil {
		t.Fatalf("PutConfig upsert: %v", err)
	}

	got, err := store.GetConfig(ctx, "query.max_rows")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if got.Value != "5000" {
		t.Errorf("value = %q, want 5000", got.Value)
	}

	all, err := store.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("configs = %d, want 1", len(all))
	}
}
