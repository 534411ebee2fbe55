package main

import (
	"context"
	"testing"
	"time"

	"tollgate/config"
	"tollgate/db"
	"tollgate/models"
)

// closingStore counts Close calls of a backend holding a connection.
type closingStore struct {
	db.RowStore
	closed int
}

func (s *closingStore) Close() error {
	s.closed++
	return nil
}

func TestCloseStore(t *testing.T) {
	store := &closingStore{RowStore: db.NewMemoryStore()}
	closeStore(store)
	if store.closed != 1 {
		t.Errorf("closed = %d, want 1", store.closed)
	}

	// Stores without a connection are left alone.
	closeStore(db.NewMemoryStore())
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	cfg := &config.Config{Store: config.StoreConfig{
		IncidentSheet:   "Input_Kejadian",
		IncidentKeyword: "input",
		ReferenceSheet:  "Bantuan",
	}}

	if err := seed(ctx, store, cfg, true, true); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows, err := store.ReadRows(ctx, "Input_Kejadian", 1, len(models.Columns))
	if err != nil {
		t.Fatal(err)
	}
	if want := len(models.SampleIncidents(time.Now())) + 1; len(rows) != want {
		t.Errorf("incident rows = %d, want %d", len(rows), want)
	}
	if rows[0][0] != models.Columns[0] {
		t.Errorf("header = %v", rows[0])
	}

	reference, err := store.ReadRows(ctx, "Bantuan", 1, 1)
	if err != nil || len(reference) < 2 {
		t.Fatalf("reference rows = %v, %v", reference, err)
	}

	// A second run keeps the existing reference data.
	if err := seed(ctx, store, cfg, false, true); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	again, _ := store.ReadRows(ctx, "Bantuan", 1, 1)
	if len(again) != len(reference) {
		t.Errorf("reference rows = %d after reseed, want %d", len(again), len(reference))
	}
}
