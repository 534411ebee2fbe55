package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"tollgate/models"
)

// Sheet identifies one table of the backing spreadsheet.
type Sheet struct {
	ID    int64  `json:"sheetId"`
	Title string `json:"title"`
}

// RowStore is a tabular store with positional rows. Row 1 of every table is
// its header. Deleting a row shifts every later row up by one.
type RowStore interface {
	// Sheets lists the tables of the spreadsheet.
	Sheets(ctx context.Context) ([]Sheet, error)
	// ReadRows returns the rows from the 1-based storage row fromRow to the
	// end of the table, cut to width columns.
	ReadRows(ctx context.Context, title string, fromRow, width int) ([][]string, error)
	// AppendRow adds a row after the last one.
	AppendRow(ctx context.Context, title string, row []string) error
	// WriteRow overwrites the 1-based storage row rowNumber.
	WriteRow(ctx context.Context, title string, rowNumber int, row []string) error
	// DeleteRow removes the row at the 0-based storage index.
	DeleteRow(ctx context.Context, sheet Sheet, index int) error
	// CreateSheet adds an empty table.
	CreateSheet(ctx context.Context, title string) error
}

// a1Range builds an A1 range such as 'Input_Kejadian'!A2:AD.
func a1Range(title string, fromRow, width int) (string, error) {
	last, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return "", fmt.Errorf("invalid width %d: %w", width, err)
	}
	return fmt.Sprintf("%s!A%d:%s", quoteTitle(title), fromRow, last), nil
}

// a1Row builds the A1 range of a single row such as 'Input_Kejadian'!A5:AD5.
func a1Row(title string, rowNumber, width int) (string, error) {
	first, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return "", fmt.Errorf("invalid row %d: %w", rowNumber, err)
	}
	last, err := excelize.CoordinatesToCellName(width, rowNumber)
	if err != nil {
		return "", fmt.Errorf("invalid row %d: %w", rowNumber, err)
	}
	return fmt.Sprintf("%s!%s:%s", quoteTitle(title), first, last), nil
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// fitRow pads or truncates a row to width cells.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
