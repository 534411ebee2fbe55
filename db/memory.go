package db

import (
	"context"
	"fmt"
	"sync"

	"tollgate/models"
)

// MemoryStore is an in-process RowStore used for local development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables []*memoryTable
	nextID int64
}

type memoryTable struct {
	sheet Sheet
	rows  [][]string
}

// NewMemoryStore creates a store with the given empty tables.
func NewMemoryStore(titles ...string) *MemoryStore {
	s := &MemoryStore{}
	for _, title := range titles {
		s.addTable(title)
	}
	return s
}

func (s *MemoryStore) addTable(title string) *memoryTable {
	t := &memoryTable{sheet: Sheet{ID: s.nextID, Title: title}}
	s.nextID++
	s.tables = append(s.tables, t)
	return t
}

func (s *MemoryStore) table(title string) (*memoryTable, error) {
	for _, t := range s.tables {
		if t.sheet.Title == title {
			return t, nil
		}
	}
	return nil, fmt.Errorf("sheet %q: %w", title, models.ErrNotFound)
}

// Seed replaces the content of a table, creating it when missing.
func (s *MemoryStore) Seed(title string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(title)
	if err != nil {
		t = s.addTable(title)
	}
	t.rows = make([][]string, len(rows))
	for i, row := range rows {
		t.rows[i] = append([]string(nil), row...)
	}
}

// Rename changes the title of a table, keeping its ID.
func (s *MemoryStore) Rename(oldTitle, newTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(oldTitle)
	if err != nil {
		return err
	}
	t.sheet.Title = newTitle
	return nil
}

func (s *MemoryStore) Sheets(ctx context.Context) ([]Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheets := make([]Sheet, 0, len(s.tables))
	for _, t := range s.tables {
		sheets = append(sheets, t.sheet)
	}
	return sheets, nil
}

func (s *MemoryStore) ReadRows(ctx context.Context, title string, fromRow, width int) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(title)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for i := fromRow - 1; i < len(t.rows); i++ {
		if i < 0 {
			continue
		}
		rows = append(rows, fitRow(t.rows[i], width))
	}
	return rows, nil
}

func (s *MemoryStore) AppendRow(ctx context.Context, title string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(title)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

func (s *MemoryStore) WriteRow(ctx context.Context, title string, rowNumber int, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(title)
	if err != nil {
		return err
	}
	if rowNumber < 1 || rowNumber > len(t.rows) {
		return fmt.Errorf("row %d of %q: %w", rowNumber, title, models.ErrNotFound)
	}
	t.rows[rowNumber-1] = append([]string(nil), row...)
	return nil
}

func (s *MemoryStore) DeleteRow(ctx context.Context, sheet Sheet, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t *memoryTable
	for _, candidate := range s.tables {
		if candidate.sheet.ID == sheet.ID {
			t = candidate
			break
		}
	}
	if t == nil {
		return fmt.Errorf("sheet id %d: %w", sheet.ID, models.ErrNotFound)
	}
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("row index %d of %q: %w", index, t.sheet.Title, models.ErrNotFound)
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	return nil
}

func (s *MemoryStore) CreateSheet(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.table(title); err == nil {
		return nil
	}
	s.addTable(title)
	return nil
}
