package product

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store, err := NewStore(conn)
	if err != nil {
		t.Fatalf("NewStore() returned unexpected error: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() returned unexpected error: %v", err)
	}
	if err := store.Truncate(context.Background()); err != nil {
		t.Fatalf("Truncate() returned unexpected error: %v", err)
	}
	return store
}

func TestStoreSaveAndLoadAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := Record{
		Barcode:        "0123456789012",
		Name:           "Rolled Oats",
		Brand:          "Acme",
		Ingredients:    []string{"whole grain oats", "wheat starch"},
		Allergens:      []string{"wheat", "gluten"},
		NutritionGrade: "a",
	}
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	records, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() returned unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(records))
	}
	got := records[0]
	if got.Name != record.Name || got.Brand != record.Brand {
		t.Fatalf("unexpected record round-trip: %+v", got)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[1] != "wheat starch" {
		t.Fatalf("ingredients did not survive serialization: %v", got.Ingredients)
	}
	if len(got.Allergens) != 2 {
		t.Fatalf("allergens did not survive serialization: %v", got.Allergens)
	}
}

func TestStoreSaveBumpsScanCount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := Record{Barcode: "999", Name: "Beans", Brand: "Generic"}
	for i := 0; i < 3; i++ {
		if err := store.Save(ctx, record); err != nil {
			t.Fatalf("Save() #%d returned unexpected error: %v", i+1, err)
		}
	}

	count, err := store.ScanCount(ctx, "999")
	if err != nil {
		t.Fatalf("ScanCount() returned unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected scan count 3, got %d", count)
	}
}

func TestStoreTruncate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Record{Barcode: "1", Name: "A", Brand: "B"}); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}
	if err := store.Truncate(ctx); err != nil {
		t.Fatalf("Truncate() returned unexpected error: %v", err)
	}

	records, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() returned unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty store after truncate, got %d records", len(records))
	}
}
