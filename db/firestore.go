package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tollgate/models"
)

// FirestoreStore is a RowStore backed by Firestore. Every table is a
// document under "tables" with a "rows" sub-collection; each row document
// carries its 1-based storage position.
type FirestoreStore struct {
	client *firestore.Client
}

type firestoreTable struct {
	Title   string `firestore:"title"`
	SheetID int64  `firestore:"sheet_id"`
}

type firestoreRow struct {
	Position int      `firestore:"position"`
	Cells    []string `firestore:"cells"`
}

// NewFirestoreStore initializes a new Firestore client
func NewFirestoreStore(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreStore, error) {
	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.Printf("✅ Connected to Firestore project: %s", projectID)

	return &FirestoreStore{client: client}, nil
}

// Client exposes the underlying client for the audit log.
func (s *FirestoreStore) Client() *firestore.Client {
	return s.client
}

// Close closes the Firestore client
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) tableRef(title string) *firestore.DocumentRef {
	return s.client.Collection("tables").Doc(title)
}

func (s *FirestoreStore) rows(title string) *firestore.CollectionRef {
	return s.tableRef(title).Collection("rows")
}

func (s *FirestoreStore) requireTable(ctx context.Context, title string) error {
	_, err := s.tableRef(title).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("sheet %q: %w", title, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get sheet %q: %w: %w", title, models.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *FirestoreStore) Sheets(ctx context.Context) ([]Sheet, error) {
	iter := s.client.Collection("tables").OrderBy("sheet_id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var sheets []Sheet
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate sheets: %w: %w", models.ErrBackendUnavailable, err)
		}

		var t firestoreTable
		if err := doc.DataTo(&t); err != nil {
			log.Printf("Warning: failed to parse sheet %s: %v", doc.Ref.ID, err)
			continue
		}
		sheets = append(sheets, Sheet{ID: t.SheetID, Title: t.Title})
	}
	return sheets, nil
}

func (s *FirestoreStore) ReadRows(ctx context.Context, title string, fromRow, width int) ([][]string, error) {
	if err := s.requireTable(ctx, title); err != nil {
		return nil, err
	}

	iter := s.rows(title).
		Where("position", ">=", fromRow).
		OrderBy("position", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var rows [][]string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w: %w", models.ErrBackendUnavailable, err)
		}

		var row firestoreRow
		if err := doc.DataTo(&row); err != nil {
			return nil, fmt.Errorf("failed to parse row %s: %w", doc.Ref.ID, err)
		}
		rows = append(rows, fitRow(row.Cells, width))
	}
	return rows, nil
}

func (s *FirestoreStore) AppendRow(ctx context.Context, title string, row []string) error {
	if err := s.requireTable(ctx, title); err != nil {
		return err
	}

	rows := s.rows(title)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		last, err := tx.Documents(rows.OrderBy("position", firestore.Desc).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		next := 1
		if len(last) == 1 {
			var r firestoreRow
			if err := last[0].DataTo(&r); err != nil {
				return err
			}
			next = r.Position + 1
		}
		return tx.Create(rows.NewDoc(), firestoreRow{Position: next, Cells: row})
	})
	if err != nil {
		return fmt.Errorf("failed to append row: %w: %w", models.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *FirestoreStore) WriteRow(ctx context.Context, title string, rowNumber int, row []string) error {
	docs, err := s.rows(title).Where("position", "==", rowNumber).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to find row: %w: %w", models.ErrBackendUnavailable, err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("row %d of %q: %w", rowNumber, title, models.ErrNotFound)
	}

	if _, err := docs[0].Ref.Set(ctx, firestoreRow{Position: rowNumber, Cells: row}); err != nil {
		return fmt.Errorf("failed to update row: %w: %w", models.ErrBackendUnavailable, err)
	}
	return nil
}

// DeleteRow removes one row and renumbers the rows after it in the same
// transaction.
func (s *FirestoreStore) DeleteRow(ctx context.Context, sheet Sheet, index int) error {
	position := index + 1
	rows := s.rows(sheet.Title)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(rows.Where("position", ">=", position).OrderBy("position", firestore.Asc)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return models.ErrNotFound
		}

		var first firestoreRow
		if err := docs[0].DataTo(&first); err != nil {
			return err
		}
		if first.Position != position {
			return models.ErrNotFound
		}

		if err := tx.Delete(docs[0].Ref); err != nil {
			return err
		}
		for _, doc := range docs[1:] {
			var r firestoreRow
			if err := doc.DataTo(&r); err != nil {
				return err
			}
			if err := tx.Update(doc.Ref, []firestore.Update{{Path: "position", Value: r.Position - 1}}); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("row index %d of %q: %w", index, sheet.Title, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete row: %w: %w", models.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *FirestoreStore) CreateSheet(ctx context.Context, title string) error {
	tables := s.client.Collection("tables")
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(tables.Doc(title)); err == nil {
			return nil
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		existing, err := tx.Documents(tables.OrderBy("sheet_id", firestore.Desc).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		var next int64
		if len(existing) == 1 {
			var t firestoreTable
			if err := existing[0].DataTo(&t); err != nil {
				return err
			}
			next = t.SheetID + 1
		}
		return tx.Create(tables.Doc(title), firestoreTable{Title: title, SheetID: next})
	})
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w: %w", models.ErrBackendUnavailable, err)
	}
	return nil
}
