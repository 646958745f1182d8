package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret signs sessions when JWT_SECRET is unset.
const DevJWTSecret = "change-this-to-a-secure-random-string"

// Config holds all application configuration.
type Config struct {
	LogLevel  string
	LogFormat string

	// Client side.
	APIBaseURL string
	// RequestTimeout bounds each backend call. Zero means no timeout.
	RequestTimeout time.Duration
	ExportDir      string

	// Development backend.
	ServerPort     string
	GinMode        string
	JWTSecret      string
	JWTExpiry      time.Duration
	BcryptCost     int
	SessionCookie  string
	SecureCookie   bool
	MaxUploadBytes int64
	// AuthRateLimit is the number of /api/auth requests allowed per IP and minute.
	AuthRateLimit int
	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 0)) * time.Second,
		ExportDir:      getEnv("EXPORT_DIR", "."),
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		JWTSecret:      getEnv("JWT_SECRET", DevJWTSecret),
		JWTExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		SessionCookie:  getEnv("SESSION_COOKIE", "session"),
		SecureCookie:   getEnvBool("SECURE_COOKIE", false),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 10)) * 1024 * 1024,
		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 30),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
