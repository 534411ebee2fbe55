package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"tollgate/models"
)

func newTestRepo(t *testing.T, records ...models.IncidentRecord) (*IncidentRepository, *MemoryStore) {
	t.Helper()

	rows := [][]string{models.Columns}
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}

	store := NewMemoryStore("Bantuan")
	store.Seed("Input_Kejadian", rows)

	repo := NewIncidentRepository(store, "Input_Kejadian", "input")
	return repo, store
}

func incident(gate, status string) models.IncidentRecord {
	return models.IncidentRecord{
		Date:   "2024-03-01",
		Time:   "07:00",
		Shift:  "I (Satu)",
		Gate:   gate,
		Status: status,
	}
}

func TestAppendStampsServerTime(t *testing.T) {
	repo, _ := newTestRepo(t)
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("WITA", 8*3600))
	repo.now = func() time.Time { return fixed }

	rec := incident("Gardu 1", "Selesai")
	rec.Timestamp = "1999-01-01T00:00:00Z"

	if _, err := repo.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if want := "2024-05-05T23:08:09Z"; records[0].Timestamp != want {
		t.Errorf("timestamp = %q, want %q", records[0].Timestamp, want)
	}
	if records[0].ID != 1 {
		t.Errorf("ID = %d, want 1", records[0].ID)
	}
}

func TestAppendDoesNotRenumber(t *testing.T) {
	repo, _ := newTestRepo(t, incident("Gardu 1", "Selesai"), incident("Gardu 2", "Proses"))

	if _, err := repo.Append(context.Background(), incident("Gardu 3", "Pending")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, want := range []string{"Gardu 1", "Gardu 2", "Gardu 3"} {
		if records[i].Gate != want || records[i].ID != i+1 {
			t.Errorf("record %d = (%d, %q), want (%d, %q)", i, records[i].ID, records[i].Gate, i+1, want)
		}
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t, incident("Gardu 1", "Pending"), incident("Gardu 2", "Pending"))

	updated := incident("Gardu 9", "Selesai")
	updated.Timestamp = "2024-03-01T00:00:00Z"
	updated.Chronology = "Palang macet"
	updated.PhotoAfter = "/uploads/photo_1.jpg"

	if err := repo.Update(context.Background(), 2, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := records[1]
	updated.ID = 2
	if got != updated {
		t.Errorf("record 2 = %+v, want %+v", got, updated)
	}
	if records[0].Gate != "Gardu 1" {
		t.Errorf("record 1 changed: %+v", records[0])
	}
}

func TestUpdateOutOfRange(t *testing.T) {
	repo, _ := newTestRepo(t, incident("Gardu 1", "Pending"))

	for _, position := range []int{0, -1, 2, 50} {
		err := repo.Update(context.Background(), position, incident("Gardu 2", "Pending"))
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Update(%d) err = %v, want ErrNotFound", position, err)
		}
	}
}

func TestDeleteRenumbers(t *testing.T) {
	tests := []struct {
		name     string
		position int
		want     []string
	}{
		{"first of three", 1, []string{"Gardu 2", "Gardu 3"}},
		{"middle", 2, []string{"Gardu 1", "Gardu 3"}},
		{"last", 3, []string{"Gardu 1", "Gardu 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestRepo(t,
				incident("Gardu 1", "Selesai"),
				incident("Gardu 2", "Proses"),
				incident("Gardu 3", "Pending"),
			)

			if err := repo.Delete(context.Background(), tt.position); err != nil {
				t.Fatalf("Delete: %v", err)
			}

			records, err := repo.List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(records), len(tt.want))
			}
			for i, gate := range tt.want {
				if records[i].ID != i+1 || records[i].Gate != gate {
					t.Errorf("record %d = (%d, %q), want (%d, %q)", i, records[i].ID, records[i].Gate, i+1, gate)
				}
			}
		})
	}
}

func TestDeleteKeepsHeader(t *testing.T) {
	repo, store := newTestRepo(t, incident("Gardu 1", "Selesai"))

	if err := repo.Delete(context.Background(), 0); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Delete(0) err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(context.Background(), 2); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Delete(2) err = %v, want ErrNotFound", err)
	}

	rows, err := store.ReadRows(context.Background(), "Input_Kejadian", 1, len(models.Columns))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != models.ColTimestamp {
		t.Errorf("header row lost: %v", rows)
	}
}

func TestResolveSheetMatching(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
		ok     bool
	}{
		{"exact", []string{"Bantuan", "input_kejadian", "Input_Kejadian"}, "Input_Kejadian", true},
		{"case-insensitive", []string{"Bantuan", "INPUT_KEJADIAN"}, "INPUT_KEJADIAN", true},
		{"keyword", []string{"Bantuan", "Form Input 2024"}, "Form Input 2024", true},
		{"missing", []string{"Bantuan", "Rekap"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sheets []Sheet
			for i, title := range tt.titles {
				sheets = append(sheets, Sheet{ID: int64(i), Title: title})
			}
			got, ok := matchSheet(sheets, "Input_Kejadian", "input")
			if ok != tt.ok || got.Title != tt.want {
				t.Errorf("matchSheet = (%q, %v), want (%q, %v)", got.Title, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSheetIdentityIsMemoized(t *testing.T) {
	repo, store := newTestRepo(t, incident("Gardu 1", "Selesai"))
	ctx := context.Background()

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}

	if err := store.Rename("Input_Kejadian", "Arsip"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if _, err := repo.List(ctx); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("List after rename err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Append(ctx, incident("Gardu 2", "Pending")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Append after rename err = %v, want ErrNotFound", err)
	}
}

func TestResolveFailureIsNotMemoized(t *testing.T) {
	store := NewMemoryStore("Bantuan")
	repo := NewIncidentRepository(store, "Input_Kejadian", "input")
	ctx := context.Background()

	if _, err := repo.List(ctx); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("List err = %v, want ErrNotFound", err)
	}

	store.Seed("Input_Kejadian", [][]string{models.Columns})
	if _, err := repo.List(ctx); err != nil {
		t.Errorf("List after creating sheet: %v", err)
	}
}

func TestEnsureHeader(t *testing.T) {
	store := NewMemoryStore("Bantuan")
	repo := NewIncidentRepository(store, "Input_Kejadian", "input")
	ctx := context.Background()

	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}
	if err := repo.EnsureHeader(ctx); err != nil {
		t.Fatalf("second EnsureHeader: %v", err)
	}

	rows, err := store.ReadRows(ctx, "Input_Kejadian", 1, len(models.Columns))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want only the header", len(rows))
	}
	for i, col := range models.Columns {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
}

func TestListPadsShortRows(t *testing.T) {
	store := NewMemoryStore()
	store.Seed("Input_Kejadian", [][]string{models.Columns, {"ts", "2024-01-01", "08:00"}})
	repo := NewIncidentRepository(store, "Input_Kejadian", "input")

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	row := records[0].Row()
	if len(row) != len(models.Columns) {
		t.Fatalf("row has %d cells, want %d", len(row), len(models.Columns))
	}
	if records[0].Time != "08:00" || records[0].PhotoAfter != "" {
		t.Errorf("unexpected record %+v", records[0])
	}
}
