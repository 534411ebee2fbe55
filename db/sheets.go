package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"tollgate/models"
)

// SheetsStore is a RowStore backed by a Google spreadsheet.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsStore initializes a Sheets API client for one spreadsheet.
func NewSheetsStore(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsStore, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Sheets client: %w: %w", models.ErrBackendUnavailable, err)
	}

	log.Printf("✅ Sheets client ready for spreadsheet: %s", spreadsheetID)

	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func (s *SheetsStore) Sheets(ctx context.Context) ([]Sheet, error) {
	spreadsheet, err := s.service.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("failed to get spreadsheet", err)
	}

	result := make([]Sheet, 0, len(spreadsheet.Sheets))
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties == nil {
			continue
		}
		result = append(result, Sheet{ID: sh.Properties.SheetId, Title: sh.Properties.Title})
	}
	return result, nil
}

func (s *SheetsStore) ReadRows(ctx context.Context, title string, fromRow, width int) ([][]string, error) {
	rng, err := a1Range(title, fromRow, width)
	if err != nil {
		return nil, err
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, classify("failed to read rows", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, width)
		for i, v := range values {
			if i >= width {
				break
			}
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *SheetsStore) AppendRow(ctx context.Context, title string, row []string) error {
	rng, err := a1Range(title, 1, len(row))
	if err != nil {
		return err
	}

	_, err = s.service.Spreadsheets.Values.Append(s.spreadsheetID, rng, valueRange(row)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return classify("failed to append row", err)
	}
	return nil
}

// WriteRow overwrites an existing row. Rows past the last data row are
// rejected with ErrNotFound instead of silently extending the table; blank
// rows inside the data range can be written.
func (s *SheetsStore) WriteRow(ctx context.Context, title string, rowNumber int, row []string) error {
	if rowNumber < 1 {
		return fmt.Errorf("row %d of %q: %w", rowNumber, title, models.ErrNotFound)
	}

	existing, err := s.ReadRows(ctx, title, 1, len(row))
	if err != nil {
		return err
	}
	if rowNumber > len(existing) {
		return fmt.Errorf("row %d of %q: %w", rowNumber, title, models.ErrNotFound)
	}

	rng, err := a1Row(title, rowNumber, len(row))
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrNotFound, err)
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, valueRange(row)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return classify("failed to update row", err)
	}
	return nil
}

func (s *SheetsStore) DeleteRow(ctx context.Context, sheet Sheet, index int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheet.ID,
					Dimension:       "ROWS",
					StartIndex:      int64(index),
					EndIndex:        int64(index + 1),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}

	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify("failed to delete row", err)
	}
	return nil
}

func (s *SheetsStore) CreateSheet(ctx context.Context, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}

	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify("failed to create sheet", err)
	}
	return nil
}

func valueRange(row []string) *sheets.ValueRange {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	return &sheets.ValueRange{Values: [][]interface{}{values}}
}

// classify maps API failures onto the error taxonomy. Missing sheets and
// out-of-grid ranges come back as 400/404.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusBadRequest:
			return fmt.Errorf("%s: %w: %w", op, models.ErrNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrBackendUnavailable, err)
}
