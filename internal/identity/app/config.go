package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Required: issuer claim for session tokens

	SigningKeyFile string        // Optional: path to Ed25519 PEM key (default: ./signing.pem, generated if absent)
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./identity.db)
	PepperFile     string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	FullTTL        time.Duration // Optional: full session lifetime (default: 24h)
	PendingTTL     time.Duration // Optional: pending session lifetime (default: 10m)

	MailFrom      string // Sender address for outbound codes
	ResendAPIKey  string // Optional: when set, mail goes through the Resend API; otherwise log-only
	ResendBaseURL string // Optional: override for tests

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("IDENTITY_ISSUER", "vitalpoint-identity"),
		SigningKeyFile: getEnvOrDefault("IDENTITY_SIGNING_KEY_FILE", "signing.pem"),
		DatabaseFile:   getEnvOrDefault("IDENTITY_DATABASE_FILE", "identity.db"),
		PepperFile:     getEnvOrDefault("IDENTITY_PEPPER_FILE", "pepper"),
		FullTTL:        getEnvDurationOrDefault("IDENTITY_SESSION_TTL", 24*time.Hour),
		PendingTTL:     getEnvDurationOrDefault("IDENTITY_PENDING_TTL", 10*time.Minute),

		MailFrom:      getEnvOrDefault("MAIL_FROM", "no-reply@vitalpoint.example"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		ResendBaseURL: os.Getenv("RESEND_BASE_URL"),

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
