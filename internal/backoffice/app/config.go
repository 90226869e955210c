package app

import (
	"os"
	"strconv"
	"time"

	"github.com/folioworks/backoffice/pkg/jwtx"
)

type Config struct {
	Issuer      string // Required: issuer claim for tokens
	FrontendURL string // Required: base URL used in reset-password emails

	PrivateKeyFile string        // Optional: path to RSA private key PEM (ephemeral key generated when unset)
	PublicKeyFile  string        // Optional: path to RSA public key PEM (derived from private key when unset)
	AccessTTL      time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL     time.Duration // Optional: refresh token lifetime (default: 168h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./backoffice.db)
	BcryptCost   int    // Optional: bcrypt cost for password and token hashing (default: library default)

	SMTPHost     string // Optional: SMTP relay host (mail is logged instead of sent when unset)
	SMTPPort     int    // Optional: SMTP relay port (default: 587)
	SMTPUsername string // Optional: SMTP auth username
	SMTPPassword string // Optional: SMTP auth password
	SMTPFrom     string // Optional: From address for outgoing mail

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:      getEnvOrDefault("BACKOFFICE_ISSUER", "backoffice"),
		FrontendURL: getEnvOrDefault("BACKOFFICE_FRONTEND_URL", "http://localhost:3000"),

		PrivateKeyFile: os.Getenv("BACKOFFICE_PRIVATE_KEY_FILE"),
		PublicKeyFile:  os.Getenv("BACKOFFICE_PUBLIC_KEY_FILE"),
		AccessTTL:      getEnvDurationOrDefault("BACKOFFICE_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:     getEnvDurationOrDefault("BACKOFFICE_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("BACKOFFICE_DATABASE_FILE", "backoffice.db"),
		BcryptCost:   getEnvIntOrDefault("BACKOFFICE_BCRYPT_COST", 0),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
