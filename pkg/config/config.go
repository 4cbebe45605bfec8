package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	Env string // development, staging, production, test

	// Outbound HTTP
	HTTPTimeout time.Duration

	// Providers
	SEC          SECConfig
	FMP          FMPConfig
	AlphaVantage AlphaVantageConfig

	// Optional score snapshot storage
	Database DatabaseConfig

	// Scoring profile (empty = embedded default)
	ProfilePath string

	// Logging
	LogLevel  string
	LogFormat string
}

// SECConfig holds SEC EDGAR configuration
type SECConfig struct {
	// UserAgent is the contact identifier SEC requires on every request,
	// e.g. "growthscore/1.0 (ops@example.org)"
	UserAgent  string
	BaseURL    string
	TickersURL string
	RateLimit  int // requests per second
}

// FMPConfig holds Financial Modeling Prep configuration
type FMPConfig struct {
	APIKey  string
	BaseURL string
}

// AlphaVantageConfig holds Alpha Vantage configuration
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether snapshot storage is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "20s"),

		SEC: SECConfig{
			UserAgent:  getEnv("SEC_USER_AGENT", ""),
			BaseURL:    getEnv("SEC_BASE_URL", "https://data.sec.gov"),
			TickersURL: getEnv("SEC_TICKERS_URL", "https://www.sec.gov/files/company_tickers.json"),
			RateLimit:  getEnvAsInt("SEC_RATE_LIMIT", 10),
		},

		FMP: FMPConfig{
			APIKey:  getEnv("FMP_API_KEY", ""),
			BaseURL: getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
		},

		AlphaVantage: AlphaVantageConfig{
			APIKey:  getEnv("ALPHAVANTAGE_API_KEY", ""),
			BaseURL: getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 0),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		ProfilePath: getEnv("SCORING_PROFILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration values that would break every command.
// Missing provider credentials are not validated here: each adapter reports
// its own missing credential so the fallback chain can move on.
func (c *Config) validate() error {
	switch c.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	switch c.LogFormat {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, console, pretty")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	if c.SEC.RateLimit <= 0 {
		return fmt.Errorf("SEC_RATE_LIMIT must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
