// Tollgate incident desk API.
// Records toll-gate incidents in a spreadsheet, ingests photos, renders PDF
// reports and serves recap statistics.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"tollgate/auth"
	"tollgate/config"
	"tollgate/db"
	"tollgate/dropdown"
	"tollgate/handlers"
	"tollgate/middleware"
	"tollgate/photo"
	"tollgate/report"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg := config.Load()
	cfg.Validate()
	configureLogging(cfg)

	log.Printf("🚀 Starting Tollgate API Server")
	log.Printf("📍 Environment: %s", cfg.Server.Environment)
	log.Printf("🔧 Port: %s", cfg.Server.Port)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	audit := openAuditLogger(cfg, store)

	var repo *db.IncidentRepository
	var loader *dropdown.Loader
	if store != nil {
		synonyms := dropdown.DefaultSynonyms()
		if cfg.Store.SynonymsFile != "" {
			loaded, err := dropdown.LoadSynonyms(cfg.Store.SynonymsFile)
			if err != nil {
				log.Fatalf("❌ Failed to load dropdown synonyms: %v", err)
			}
			synonyms = loaded
		}
		repo = db.NewIncidentRepository(store, cfg.Store.IncidentSheet, cfg.Store.IncidentKeyword)
		loader = dropdown.NewLoader(store, cfg.Store.ReferenceSheet, synonyms)
		if cfg.Store.Backend == "memory" {
			if err := repo.EnsureHeader(ctx); err != nil {
				log.Fatalf("❌ Failed to prepare in-memory sheet: %v", err)
			}
		}
	} else {
		log.Printf("🧪 Store not configured, running in demo mode")
	}

	photoStore := openObjectStore(ctx, cfg, cfg.Photo.Upload, cfg.Google.PhotoFolderID, "photos")
	var reportStore photo.ObjectStore
	if cfg.Report.UploadToDrive {
		reportStore = openObjectStore(ctx, cfg, cfg.Photo.Upload, cfg.Google.DriveFolderID, "reports")
	}
	for _, s := range []photo.ObjectStore{photoStore, reportStore} {
		if c, ok := s.(io.Closer); ok {
			defer c.Close()
		}
	}
	exportStore := reportStore
	if exportStore == nil {
		exportStore = photoStore
	}

	fetcher := photo.NewFetcher(cfg.Server.PublicDir, cfg.Photo.Timeout)
	ingestor := photo.NewIngestor(
		fetcher,
		photo.NewCompressor(cfg.Photo.Compress, cfg.Photo.MaxWidth, cfg.Photo.Quality),
		photo.NewLocalStore(cfg.Photo.UploadDir, "/uploads/"),
		photoStore,
		cfg.Photo.Timeout,
	)
	reports := report.NewService(
		fetcher,
		report.NewCompiler(cfg.Report.LogoPath, cfg.Report.Organizations, cfg.Report.Unit, cfg.Report.Title),
		report.NewPDFRenderer(),
		cfg.Report.OutputDir,
		reportStore,
		cfg.Report.Timeout,
	)

	users, err := auth.NewUserDirectory(auth.DemoCredentials())
	if err != nil {
		log.Fatalf("❌ Failed to build user directory: %v", err)
	}
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)

	dropdowns := handlers.NewDropdownHandler(loader)
	incidents := handlers.NewIncidentHandler(repo, dropdowns, ingestor, reports, audit)
	router := &handlers.Router{
		Incidents:       incidents,
		Dropdowns:       dropdowns,
		Uploads:         handlers.NewUploadHandler(ingestor),
		Reports:         handlers.NewReportHandler(reports, audit),
		Recap:           handlers.NewRecapHandler(incidents, exportStore, audit),
		Auth:            handlers.NewAuthHandler(users, jwtManager),
		Admin:           handlers.NewAdminHandler(users, audit),
		PublicDir:       cfg.Server.PublicDir,
		StoreConfigured: store != nil,
	}
	if cfg.Auth.Enabled {
		router.JWT = jwtManager
		router.Users = users
		log.Printf("🔐 Authentication enabled (token expiration: %v)", cfg.JWT.Expiration)
	}
	log.Printf("✅ Handlers initialized")

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	rateLimiter.TrustProxy = cfg.RateLimit.TrustProxy
	rateLimiter.CleanupOldLimiters(ctx, time.Hour)
	log.Printf("🛡️  Rate limiter initialized (%d requests per %v)", cfg.RateLimit.Requests, cfg.RateLimit.Window)

	handler := router.Handler()
	handler = rateLimiter.Middleware()(handler)
	handler = middleware.CORSMiddleware(cfg.CORS.AllowedOrigins)(handler)
	if cfg.Logging.Level != "error" {
		handler = middleware.RequestLogger(handler)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Report.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✅ Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// configureLogging sets the standard logger flags. "bare" drops the
// timestamp for platforms that add their own; debug level or development
// adds the source location.
func configureLogging(cfg *config.Config) {
	flags := log.LstdFlags
	if cfg.Logging.Format == "bare" {
		flags = 0
	}
	if cfg.Logging.Level == "debug" || cfg.IsDevelopment() {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
}

// openStore connects the configured row store. It returns nil when the
// store is not configured or cannot be initialized; the API then serves
// demo data.
func openStore(ctx context.Context, cfg *config.Config) (db.RowStore, func()) {
	noop := func() {}
	if !cfg.StoreConfigured() {
		return nil, noop
	}

	switch cfg.Store.Backend {
	case "memory":
		log.Printf("🗃️  Using in-memory store")
		return db.NewMemoryStore(cfg.Store.IncidentSheet, cfg.Store.ReferenceSheet), noop
	case "firestore":
		fs, err := db.NewFirestoreStore(ctx, cfg.Google.ProjectID, cfg.Google.ClientOptions()...)
		if err != nil {
			log.Printf("⚠️  Failed to initialize Firestore, running in demo mode: %v", err)
			return nil, noop
		}
		log.Printf("🔥 Using Firestore project %s", cfg.Google.ProjectID)
		return fs, func() { fs.Close() }
	default:
		ss, err := db.NewSheetsStore(ctx, cfg.Google.SpreadsheetID, cfg.Google.ClientOptions(sheets.SpreadsheetsScope)...)
		if err != nil {
			log.Printf("⚠️  Failed to initialize Google Sheets, running in demo mode: %v", err)
			return nil, noop
		}
		log.Printf("📋 Using Google Sheets %s", cfg.Google.SpreadsheetID)
		return ss, noop
	}
}

// openAuditLogger persists audit entries to Firestore when that backend is
// in use; otherwise entries are only logged and kept in memory.
func openAuditLogger(cfg *config.Config, store db.RowStore) *db.AuditLogger {
	if !cfg.Store.AuditLogEnabled {
		return nil
	}
	if fs, ok := store.(*db.FirestoreStore); ok {
		return db.NewAuditLogger(fs.Client())
	}
	return db.NewAuditLogger(nil)
}

// openObjectStore returns the remote store for kind ("drive", "bucket" or
// "none"), or nil when it is disabled or cannot be initialized.
func openObjectStore(ctx context.Context, cfg *config.Config, kind, folderID, prefix string) photo.ObjectStore {
	if !cfg.Google.HasCredentials() {
		return nil
	}
	switch kind {
	case "drive":
		if folderID == "" {
			folderID = cfg.Google.DriveFolderID
		}
		s, err := photo.NewDriveStore(ctx, folderID, cfg.Google.ClientOptions(drive.DriveFileScope)...)
		if err != nil {
			log.Printf("⚠️  Drive upload disabled: %v", err)
			return nil
		}
		return s
	case "bucket":
		if cfg.Photo.BucketName == "" {
			log.Printf("⚠️  Bucket upload disabled: PHOTO_BUCKET is not set")
			return nil
		}
		s, err := photo.NewBucketStore(ctx, cfg.Photo.BucketName, prefix, cfg.Google.ClientOptions()...)
		if err != nil {
			log.Printf("⚠️  Bucket upload disabled: %v", err)
			return nil
		}
		return s
	default:
		return nil
	}
}
