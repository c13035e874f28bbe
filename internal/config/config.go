package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port            string
	FrontendURL     string
	ShutdownTimeout time.Duration
	RateLimitPerMin int

	// Logging
	LogLevel  string
	LogFormat string

	// Backend selection
	DataBackend   string
	MemorySeedDir string

	// SQLite
	SQLiteDBPath string

	// Firestore
	FirebaseProjectID       string
	FirebaseClientEmail     string
	FirebasePrivateKey      string
	FirebaseCredentialsFile string

	// AMQP (optional on the server, required by the worker)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets ledger mirror
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// CLI client
	APIURL        string
	HTTPTimeout   time.Duration
	CachePath     string
	SessionPath   string
	DirectBackend string
}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "3001"),
		FrontendURL:     getEnv("FRONTEND_URL", "*"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DataBackend:   getEnv("DATA_BACKEND", "auto"),
		MemorySeedDir: getEnv("MEMORY_SEED_DIR", "data"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ecowallet.db"),

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail:     getEnv("FIREBASE_CLIENT_EMAIL", ""),
		FirebasePrivateKey:      getEnv("FIREBASE_PRIVATE_KEY", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ecowallet"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ecowallet.ledger"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Ledger"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),

		APIURL:        getEnv("ECOWALLET_API_URL", "http://localhost:3001/api"),
		HTTPTimeout:   getEnvDuration("ECOWALLET_HTTP_TIMEOUT", 10*time.Second),
		CachePath:     getEnv("ECOWALLET_CACHE_PATH", defaultUserPath(os.UserCacheDir, "cache.db")),
		SessionPath:   getEnv("ECOWALLET_SESSION_PATH", defaultUserPath(os.UserConfigDir, "session.yaml")),
		DirectBackend: getEnv("ECOWALLET_DIRECT_BACKEND", ""),
	}

	return cfg
}

// HasFirebaseCredentials reports whether enough is configured to reach Firestore.
func (c *Config) HasFirebaseCredentials() bool {
	if c.FirebaseProjectID == "" {
		return false
	}
	inline := c.FirebaseClientEmail != "" && c.FirebasePrivateKey != ""
	return inline || c.FirebaseCredentialsFile != ""
}

// Validate validates the server-side configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"auto", "memory", "sqlite", "firestore"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Firestore must be reachable when explicitly selected
	if c.DataBackend == "firestore" {
		if c.FirebaseProjectID == "" {
			errors = append(errors, "FIREBASE_PROJECT_ID is required when using firestore backend")
		}
		if !c.HasFirebaseCredentials() {
			errors = append(errors, "either FIREBASE_CLIENT_EMAIL and FIREBASE_PRIVATE_KEY or FIREBASE_CREDENTIALS_FILE must be provided for firestore backend")
		}
		if c.FirebaseCredentialsFile != "" {
			if _, err := os.Stat(c.FirebaseCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Firebase credentials file does not exist: %s", c.FirebaseCredentialsFile))
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	if c.RateLimitPerMin < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimitPerMin))
	}

	errors = append(errors, c.validateLogging()...)

	return combine(errors)
}

// ValidateWorker checks what the ledger mirror worker needs.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the worker")
	}
	if c.GoogleSpreadsheetID == "" {
		errors = append(errors, "GOOGLE_SPREADSHEET_ID is required for the worker")
	}
	if c.GoogleSheetName == "" {
		errors = append(errors, "GOOGLE_SHEET_NAME cannot be empty")
	}
	if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
		errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for the worker")
	}
	errors = append(errors, c.validateLogging()...)
	return combine(errors)
}

// ValidateClient checks the CLI settings.
func (c *Config) ValidateClient() error {
	var errors []string
	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': must be an absolute http(s) URL", c.APIURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}
	if c.HTTPTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be positive", c.HTTPTimeout))
	}
	if c.CachePath == "" {
		errors = append(errors, "cache path cannot be empty")
	}
	if c.SessionPath == "" {
		errors = append(errors, "session path cannot be empty")
	}
	switch c.DirectBackend {
	case "", "sqlite", "firestore":
	default:
		errors = append(errors, fmt.Sprintf("invalid direct backend '%s': must be empty, 'sqlite' or 'firestore'", c.DirectBackend))
	}
	return combine(errors)
}

func (c *Config) validateLogging() []string {
	var errors []string
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "tint":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text, json or tint", c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	return errors
}

func combine(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func defaultUserPath(base func() (string, error), name string) string {
	dir, err := base()
	if err != nil {
		return filepath.Join(".ecowallet", name)
	}
	return filepath.Join(dir, "ecowallet", name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
