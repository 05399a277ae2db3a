package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "http://localhost:8080/api"

// Config holds all configuration for the back-office console
type Config struct {
	APIBaseURL      string
	Port            string
	LogLevel        string
	Environment     string
	HTTPTimeout     time.Duration
	SessionStore    string
	SessionFilePath string
	SessionRootKey  string
	RedisURL        string
	ProfileCacheTTL time.Duration
	DefaultTaxRate  float64
	LowStockPreview int
	RecentPreview   int
	DisplayLocale   string
	DisplayCurrency string
	MetricsExporter string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() *Config {
	// Existing environment variables win over .env entries
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment only", "error", err)
	}

	return FromEnv()
}

// FromEnv builds a Config from the process environment without touching .env
func FromEnv() *Config {
	cfg := &Config{
		APIBaseURL:      apiBaseURL(),
		Port:            getEnvWithDefault("PORT", "3000"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		SessionStore:    strings.ToLower(getEnvWithDefault("SESSION_STORE", "file")),
		SessionFilePath: getEnvWithDefault("SESSION_FILE_PATH", "./data/session.json"),
		SessionRootKey:  getEnvWithDefault("SESSION_ROOT_KEY", "persist:root"),
		RedisURL:        getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		ProfileCacheTTL: getEnvAsDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		DefaultTaxRate:  getEnvAsFloat("DEFAULT_TAX_RATE", 19),
		LowStockPreview: getEnvAsInt("LOW_STOCK_PREVIEW", 10),
		RecentPreview:   getEnvAsInt("RECENT_PREVIEW", 5),
		DisplayLocale:   getEnvWithDefault("DISPLAY_LOCALE", "es-CO"),
		DisplayCurrency: getEnvWithDefault("DISPLAY_CURRENCY", "COP"),
		MetricsExporter: getEnvWithDefault("METRICS_EXPORTER", ""),
	}

	if cfg.SessionStore != "file" && cfg.SessionStore != "redis" {
		slog.Warn("Unknown session store, falling back to file", "provided", cfg.SessionStore)
		cfg.SessionStore = "file"
	}

	return cfg
}

// LogSummary writes the effective configuration at info level
func (c *Config) LogSummary(logger *slog.Logger) {
	logger.Info("Configuration loaded",
		"api_base_url", c.APIBaseURL,
		"port", c.Port,
		"environment", c.Environment,
		"log_level", c.LogLevel,
		"http_timeout", c.HTTPTimeout.String(),
		"session_store", c.SessionStore,
		"session_root_key", c.SessionRootKey,
		"profile_cache_ttl", c.ProfileCacheTTL.String(),
		"default_tax_rate", c.DefaultTaxRate,
		"display_locale", c.DisplayLocale,
		"display_currency", c.DisplayCurrency,
		"metrics_exporter", c.MetricsExporter)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// apiBaseURL also honours the variable name used by the web build
func apiBaseURL() string {
	if value := os.Getenv("API_BASE_URL"); value != "" {
		return strings.TrimRight(value, "/")
	}
	if value := os.Getenv("VITE_API_BASE_URL"); value != "" {
		return strings.TrimRight(value, "/")
	}
	slog.Warn("API_BASE_URL not set, using default", "default", defaultAPIBaseURL)
	return defaultAPIBaseURL
}

// getEnvWithDefault gets an environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		slog.Warn("Invalid integer setting, using default", "key", key, "provided", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("Invalid decimal setting, using default", "key", key, "provided", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		slog.Warn("Invalid duration setting, using default", "key", key, "provided", value, "default", defaultValue.String())
		return defaultValue
	}
	return parsed
}
