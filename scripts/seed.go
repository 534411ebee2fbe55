package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/api/sheets/v4"

	"tollgate/config"
	"tollgate/db"
	"tollgate/models"
)

func main() {
	withSamples := flag.Bool("samples", false, "append the sample incidents")
	withReference := flag.Bool("reference", true, "create the reference sheet with sample dropdown options when it is missing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	cfg.Validate()
	if !cfg.StoreConfigured() || cfg.Store.Backend == "memory" {
		log.Fatalf("A persistent store must be configured to seed (backend: %s)", cfg.Store.Backend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	err = seed(ctx, store, cfg, *withSamples, *withReference)
	closeStore(store)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("✅ Seeding completed successfully!")
}

func seed(ctx context.Context, store db.RowStore, cfg *config.Config, withSamples, withReference bool) error {
	log.Println("🌱 Starting seeding...")

	repo := db.NewIncidentRepository(store, cfg.Store.IncidentSheet, cfg.Store.IncidentKeyword)
	if err := repo.EnsureHeader(ctx); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	if withSamples {
		if err := seedIncidents(ctx, repo); err != nil {
			return fmt.Errorf("failed to seed incidents: %w", err)
		}
	}

	if withReference {
		if err := seedReference(ctx, store, cfg.Store.ReferenceSheet); err != nil {
			return fmt.Errorf("failed to seed reference sheet: %w", err)
		}
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (db.RowStore, error) {
	if cfg.Store.Backend == "firestore" {
		fs, err := db.NewFirestoreStore(ctx, cfg.Google.ProjectID, cfg.Google.ClientOptions()...)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
	ss, err := db.NewSheetsStore(ctx, cfg.Google.SpreadsheetID, cfg.Google.ClientOptions(sheets.SpreadsheetsScope)...)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// closeStore releases backends that hold a client connection.
func closeStore(store db.RowStore) {
	c, ok := store.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("⚠️  Failed to close store: %v", err)
	}
}

func seedIncidents(ctx context.Context, repo *db.IncidentRepository) error {
	for _, rec := range models.SampleIncidents(time.Now()) {
		saved, err := repo.Append(ctx, rec)
		if err != nil {
			return err
		}
		log.Printf("✅ Seeded incident: %s %s %s", saved.Date, saved.Time, saved.Gate)
	}
	return nil
}

// seedReference writes the sample options column by column: headers in
// row 1, values below.
func seedReference(ctx context.Context, store db.RowStore, title string) error {
	existing, err := store.ReadRows(ctx, title, 1, 1)
	if err == nil && len(existing) > 0 {
		log.Printf("⚠️  Reference sheet %s already has data, skipping", title)
		return nil
	}
	if err := store.CreateSheet(ctx, title); err != nil {
		return err
	}

	options := models.SampleDropdowns()
	headers := make([]string, 0, len(options))
	for h := range options {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	depth := 0
	for _, h := range headers {
		if n := len(options[h]); n > depth {
			depth = n
		}
	}

	rows := [][]string{headers}
	for i := 0; i < depth; i++ {
		row := make([]string, len(headers))
		for j, h := range headers {
			if i < len(options[h]) {
				row[j] = options[h][i]
			}
		}
		rows = append(rows, row)
	}

	for _, row := range rows {
		if err := store.AppendRow(ctx, title, row); err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded reference sheet %s (%d option groups)", title, len(headers))
	return nil
}
