package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the appliances table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE appliances (
			appliance_id TEXT PRIMARY KEY,
			manufacturer_name TEXT NOT NULL,
			model_name TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '1',
			friendly_name TEXT NOT NULL,
			friendly_description TEXT NOT NULL DEFAULT '',
			is_reachable INTEGER NOT NULL DEFAULT 1,
			actions TEXT NOT NULL DEFAULT '[]',
			additional_details TEXT NOT NULL DEFAULT '{}',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestSQLiteRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	for _, id := range []string{"zeta", "alpha", "mid"} {
		rec := testRecord(id, "Smart Light")
		if err := repo.Create(ctx, &rec); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// Insertion order, not alphabetical.
	want := []string{"zeta", "alpha", "mid"}
	for i, id := range want {
		if records[i].ApplianceID != id {
			t.Errorf("List()[%d] = %q, want %q", i, records[i].ApplianceID, id)
		}
	}

	got := records[0]
	if !got.IsReachable {
		t.Error("IsReachable = false, want true")
	}
	if len(got.Actions) != 2 || got.Actions[0] != "turnOn" {
		t.Errorf("Actions = %v", got.Actions)
	}
	room, ok := got.AdditionalDetails["room"].(map[string]any)
	if !ok || room["name"] != "hall" {
		t.Errorf("AdditionalDetails = %v", got.AdditionalDetails)
	}
}

func TestSQLiteRepository_ListEmpty(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", records)
	}
}

func TestSQLiteRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	rec := testRecord("x", "Smart Light")
	if err := repo.Create(ctx, &rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &rec); !errors.Is(err, ErrApplianceExists) {
		t.Errorf("Create() duplicate error = %v, want ErrApplianceExists", err)
	}
}

func TestSQLiteRepository_CreateInvalid(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	rec := testRecord("x", "Smart Light")
	rec.FriendlyName = ""
	if err := repo.Create(context.Background(), &rec); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Create() error = %v, want ErrInvalidRecord", err)
	}
}

func TestSQLiteRepository_GetByIDAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	rec := testRecord("endpoint-001", "Smart Camera")
	rec.Version = ""
	rec.Actions = nil
	if err := repo.Create(ctx, &rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "endpoint-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Version != "1" {
		t.Errorf("Version = %q, want default 1", got.Version)
	}
	if got.Actions == nil {
		t.Error("Actions = nil, want empty slice")
	}

	if err := repo.Delete(ctx, "endpoint-001"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, "endpoint-001"); !errors.Is(err, ErrApplianceNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrApplianceNotFound", err)
	}
	if err := repo.Delete(ctx, "endpoint-001"); !errors.Is(err, ErrApplianceNotFound) {
		t.Errorf("Delete() missing error = %v, want ErrApplianceNotFound", err)
	}
}
