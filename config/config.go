package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8080"
	defaultSessionTTL     = 2 * time.Hour
	defaultCartAttempts   = 3
	defaultMaxUploadBytes = 10 << 20
)

// Config holds the runtime settings of the storefront configurator
type Config struct {
	Port        string
	DatabaseURL string

	PricebookPath  string
	GuideImageBase string

	// Artwork archive; disabled when the folder ID is empty
	ArtworkDriveFolderID string
	CredentialsPath      string
	CredentialsJSON      string

	ChromePath string

	SessionTTL      time.Duration
	CartMaxAttempts int
	MaxUploadBytes  int64

	CustomNeonIdentities   []string
	CustomCanvasIdentities []string
}

// LoadDotEnv loads .env outside production. Missing files are not an error
func LoadDotEnv(path string) {
	if os.Getenv("ENV") == "production" {
		return
	}
	if path == "" {
		path = ".env"
	}
	// Overload so .env values take precedence over the shell
	if err := godotenv.Overload(path); err != nil {
		log.Printf("⚠️  Config: .env file not found at %s, using system environment variables", path)
		return
	}
	log.Printf("✅ Config: Loaded environment variables from %s", path)
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 normalizePort(os.Getenv("PORT")),
		PricebookPath:        strings.TrimSpace(os.Getenv("PRICEBOOK_PATH")),
		GuideImageBase:       strings.TrimSpace(os.Getenv("GUIDE_IMAGE_BASE")),
		ArtworkDriveFolderID: strings.TrimSpace(os.Getenv("ARTWORK_DRIVE_FOLDER_ID")),
		CredentialsPath:      os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		CredentialsJSON:      os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"),
		ChromePath:           strings.TrimSpace(os.Getenv("CHROME_PATH")),
		SessionTTL:           defaultSessionTTL,
		CartMaxAttempts:      defaultCartAttempts,
		MaxUploadBytes:       defaultMaxUploadBytes,
	}

	dsn, err := databaseURL()
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: must be a positive duration", v)
		}
		cfg.SessionTTL = ttl
	}

	if v := os.Getenv("CART_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid CART_MAX_ATTEMPTS %q: must be at least 1", v)
		}
		cfg.CartMaxAttempts = n
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q: must be positive", v)
		}
		cfg.MaxUploadBytes = n
	}

	cfg.CustomNeonIdentities = splitList(os.Getenv("CUSTOM_NEON_IDENTITIES"))
	cfg.CustomCanvasIdentities = splitList(os.Getenv("CUSTOM_CANVAS_IDENTITIES"))

	if cfg.ArtworkDriveFolderID != "" && cfg.CredentialsPath == "" && cfg.CredentialsJSON == "" {
		return nil, fmt.Errorf("ARTWORK_DRIVE_FOLDER_ID is set but neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_APPLICATION_CREDENTIALS_JSON is")
	}

	return cfg, nil
}

// Addr is the listen address; all interfaces so containers can reach it
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func databaseURL() (string, error) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr, nil
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	if host == "" || user == "" || dbname == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode), nil
}

// normalizePort strips a leading colon; hosting platforms pass the bare number
func normalizePort(port string) string {
	port = strings.TrimPrefix(strings.TrimSpace(port), ":")
	if port == "" {
		return defaultPort
	}
	return port
}

// splitList parses a comma-separated list; empty input yields nil so defaults apply
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
