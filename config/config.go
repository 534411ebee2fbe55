package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Google    GoogleConfig
	Store     StoreConfig
	Photo     PhotoConfig
	Report    ReportConfig
	JWT       JWTConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	PublicDir   string
}

// GoogleConfig carries the service account used for Sheets, Drive and Firestore.
type GoogleConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	CredentialsPath     string
	ProjectID           string
	SpreadsheetID       string
	DriveFolderID       string
	PhotoFolderID       string
}

type StoreConfig struct {
	// Backend selects the row store: "sheets", "firestore" or "memory".
	Backend         string
	IncidentSheet   string
	IncidentKeyword string
	ReferenceSheet  string
	SynonymsFile    string
	AuditLogEnabled bool
}

type PhotoConfig struct {
	UploadDir  string
	Compress   bool
	MaxWidth   int
	Quality    int
	Upload     string // "drive", "bucket" or "none"
	BucketName string
	Timeout    time.Duration
}

type ReportConfig struct {
	OutputDir     string
	LogoPath      string
	Organizations []string
	Unit          string
	Title         string
	UploadToDrive bool
	Timeout       time.Duration
}

type JWTConfig struct {
	Secret                 string
	Expiration             time.Duration
	RefreshTokenExpiration time.Duration
}

type AuthConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// TrustProxy keys clients by X-Forwarded-For; only set it behind a proxy
	// that overwrites the header.
	TrustProxy bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() *Config {
	publicDir := getEnv("PUBLIC_DIR", "./public")
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Host:        getEnv("HOST", "0.0.0.0"),
			Environment: getEnv("ENVIRONMENT", "development"),
			PublicDir:   publicDir,
		},
		Google: GoogleConfig{
			ServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
			PrivateKey:          unescapeKey(getEnv("GOOGLE_PRIVATE_KEY", "")),
			CredentialsPath:     getEnv("GOOGLE_CREDENTIALS_PATH", ""),
			ProjectID:           getEnv("GOOGLE_PROJECT_ID", ""),
			SpreadsheetID:       getEnv("SPREADSHEET_ID", ""),
			DriveFolderID:       getEnv("DRIVE_FOLDER_ID", ""),
			PhotoFolderID:       getEnv("PHOTO_FOLDER_ID", ""),
		},
		Store: StoreConfig{
			Backend:         strings.ToLower(getEnv("STORE_BACKEND", "sheets")),
			IncidentSheet:   getEnv("INCIDENT_SHEET", "Input_Kejadian"),
			IncidentKeyword: getEnv("INCIDENT_SHEET_KEYWORD", "input"),
			ReferenceSheet:  getEnv("REFERENCE_SHEET", "Bantuan"),
			SynonymsFile:    getEnv("DROPDOWN_SYNONYMS_FILE", ""),
			AuditLogEnabled: parseBool(getEnv("AUDIT_LOG_ENABLED", "true"), true),
		},
		Photo: PhotoConfig{
			UploadDir:  getEnv("UPLOAD_DIR", publicDir+"/uploads"),
			Compress:   parseBool(getEnv("PHOTO_COMPRESS", "true"), true),
			MaxWidth:   parseInt(getEnv("PHOTO_MAX_WIDTH", "1200"), 1200),
			Quality:    parseInt(getEnv("PHOTO_QUALITY", "75"), 75),
			Upload:     strings.ToLower(getEnv("PHOTO_UPLOAD", "drive")),
			BucketName: getEnv("PHOTO_BUCKET", ""),
			Timeout:    parseDuration(getEnv("PHOTO_TIMEOUT", "30s"), 30*time.Second),
		},
		Report: ReportConfig{
			OutputDir:     getEnv("REPORT_DIR", publicDir+"/reports"),
			LogoPath:      getEnv("REPORT_LOGO", publicDir+"/logo-company.jpg"),
			Organizations: parseStringSlice(getEnv("REPORT_ORGANIZATIONS", "PT. MAKASSAR METRO NETWORK,PT. MAKASSAR AIRPORT NETWORK")),
			Unit:          getEnv("REPORT_UNIT", "UNIT OPERASIONAL PENGUMPULAN TOL"),
			Title:         getEnv("REPORT_TITLE", "LAPORAN KEJADIAN OPERASIONAL GERBANG"),
			UploadToDrive: parseBool(getEnv("REPORT_UPLOAD", "false"), false),
			Timeout:       parseDuration(getEnv("REPORT_TIMEOUT", "60s"), 60*time.Second),
		},
		JWT: JWTConfig{
			Secret:                 getEnv("JWT_SECRET", "dev-secret-key"),
			Expiration:             parseDuration(getEnv("JWT_EXPIRATION", "30m"), 30*time.Minute),
			RefreshTokenExpiration: parseDuration(getEnv("REFRESH_TOKEN_EXPIRATION", "168h"), 7*24*time.Hour),
		},
		Auth: AuthConfig{
			Enabled: parseBool(getEnv("AUTH_ENABLED", "false"), false),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		RateLimit: RateLimitConfig{
			Requests:   parseInt(getEnv("RATE_LIMIT_REQUESTS", "100"), 100),
			Window:     parseDuration(getEnv("RATE_LIMIT_WINDOW", "60"), 60*time.Second),
			TrustProxy: parseBool(getEnv("TRUST_PROXY", "false"), false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// HasCredentials reports whether usable service account credentials are present.
func (g GoogleConfig) HasCredentials() bool {
	if g.CredentialsPath != "" {
		if _, err := os.Stat(g.CredentialsPath); err == nil {
			return true
		}
	}
	return len(g.ServiceAccountEmail) > 10 && strings.Contains(g.PrivateKey, "BEGIN PRIVATE KEY")
}

// StoreConfigured reports whether the selected backend can be used.
// An unconfigured store puts the service in demo mode.
func (c *Config) StoreConfigured() bool {
	switch c.Store.Backend {
	case "memory":
		return true
	case "firestore":
		return c.Google.ProjectID != "" && c.Google.HasCredentials()
	default:
		return c.Google.SpreadsheetID != "" && c.Google.HasCredentials()
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func unescapeKey(s string) string {
	if strings.Contains(s, `\n`) {
		return strings.ReplaceAll(s, `\n`, "\n")
	}
	return s
}

func parseInt(s string, defaultValue int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultValue
}

func parseBool(s string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	// If it's just a number, assume seconds
	if i, err := strconv.Atoi(s); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}

func parseStringSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) Validate() {
	if c.JWT.Secret == "dev-secret-key" && c.IsProduction() && c.Auth.Enabled {
		log.Fatal("JWT_SECRET must be set in production")
	}
	switch c.Store.Backend {
	case "sheets", "firestore", "memory":
	default:
		log.Printf("⚠️  Unknown STORE_BACKEND %q, falling back to sheets", c.Store.Backend)
		c.Store.Backend = "sheets"
	}
	if c.Store.Backend == "firestore" && c.Google.ProjectID == "" {
		log.Printf("⚠️  GOOGLE_PROJECT_ID is not set for the firestore backend, running in demo mode")
	}
}
