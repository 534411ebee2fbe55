package db

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"tollgate/models"
)

// IncidentRepository maps incident records onto the rows of the incident
// sheet. Row 1 holds the header, so the record at position p lives in
// storage row p+1.
//
// Concurrent updates and deletes on overlapping positions are not
// coordinated: a delete can shift rows under an update in flight.
type IncidentRepository struct {
	store   RowStore
	name    string
	keyword string
	now     func() time.Time

	mu    sync.Mutex
	sheet *Sheet
}

// NewIncidentRepository creates a repository for the sheet called name.
// keyword is the fallback substring used when no title matches name.
func NewIncidentRepository(store RowStore, name, keyword string) *IncidentRepository {
	return &IncidentRepository{
		store:   store,
		name:    name,
		keyword: keyword,
		now:     time.Now,
	}
}

// resolveSheet finds the incident sheet by exact title, then
// case-insensitive title, then keyword containment. The first successful
// lookup is kept for the life of the process.
func (r *IncidentRepository) resolveSheet(ctx context.Context) (Sheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sheet != nil {
		return *r.sheet, nil
	}

	sheets, err := r.store.Sheets(ctx)
	if err != nil {
		return Sheet{}, err
	}

	found, ok := matchSheet(sheets, r.name, r.keyword)
	if !ok {
		return Sheet{}, fmt.Errorf("sheet %q: %w", r.name, models.ErrNotFound)
	}

	log.Printf("📄 Resolved incident sheet: %s (id %d)", found.Title, found.ID)
	r.sheet = &found
	return found, nil
}

func matchSheet(sheets []Sheet, name, keyword string) (Sheet, bool) {
	for _, s := range sheets {
		if s.Title == name {
			return s, true
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(s.Title, name) {
			return s, true
		}
	}
	if keyword != "" {
		keyword = strings.ToLower(keyword)
		for _, s := range sheets {
			if strings.Contains(strings.ToLower(s.Title), keyword) {
				return s, true
			}
		}
	}
	return Sheet{}, false
}

// List returns every data row. IDs are 1-based positions.
func (r *IncidentRepository) List(ctx context.Context) ([]models.IncidentRecord, error) {
	sheet, err := r.resolveSheet(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.store.ReadRows(ctx, sheet.Title, 2, len(models.Columns))
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}

	records := make([]models.IncidentRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, models.RecordFromRow(i+1, row))
	}
	return records, nil
}

// Append stores a new record after the last row. The creation timestamp is
// always the server time; the client value is discarded.
func (r *IncidentRepository) Append(ctx context.Context, rec models.IncidentRecord) (models.IncidentRecord, error) {
	sheet, err := r.resolveSheet(ctx)
	if err != nil {
		return rec, err
	}

	rec.StampTimestamp(r.now())
	if err := r.store.AppendRow(ctx, sheet.Title, rec.Row()); err != nil {
		return rec, fmt.Errorf("failed to append incident: %w", err)
	}
	return rec, nil
}

// Update overwrites the record at the 1-based position with the full field
// set of rec.
func (r *IncidentRepository) Update(ctx context.Context, position int, rec models.IncidentRecord) error {
	if position < 1 {
		return fmt.Errorf("incident %d: %w", position, models.ErrNotFound)
	}

	sheet, err := r.resolveSheet(ctx)
	if err != nil {
		return err
	}

	if err := r.store.WriteRow(ctx, sheet.Title, position+1, rec.Row()); err != nil {
		return fmt.Errorf("failed to update incident %d: %w", position, err)
	}
	return nil
}

// Delete removes the record at the 1-based position. Every later record
// moves up by one.
func (r *IncidentRepository) Delete(ctx context.Context, position int) error {
	if position < 1 {
		return fmt.Errorf("incident %d: %w", position, models.ErrNotFound)
	}

	sheet, err := r.resolveSheet(ctx)
	if err != nil {
		return err
	}

	// 0-based storage index of the row: header is index 0.
	if err := r.store.DeleteRow(ctx, sheet, position); err != nil {
		return fmt.Errorf("failed to delete incident %d: %w", position, err)
	}
	return nil
}

// EnsureHeader writes the column header to row 1 when the sheet is empty.
// The sheet is created when missing.
func (r *IncidentRepository) EnsureHeader(ctx context.Context) error {
	sheet, err := r.resolveSheet(ctx)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		if err := r.store.CreateSheet(ctx, r.name); err != nil {
			return err
		}
		if sheet, err = r.resolveSheet(ctx); err != nil {
			return err
		}
	}

	rows, err := r.store.ReadRows(ctx, sheet.Title, 1, len(models.Columns))
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}

	log.Printf("🧾 Writing header row to %s", sheet.Title)
	return r.store.AppendRow(ctx, sheet.Title, models.Columns)
}
