package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata" // SCAN_TZ without a system zoneinfo

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Files
	UniverseFile string
	ReportPath   string
	StrategyFile string // optional YAML overriding Strategy

	// PortfolioSize is the operator budget; empty means "ask"
	PortfolioSize string

	// Redis (fundamentals cache)
	Redis RedisConfig

	// External APIs
	Yahoo YahooConfig

	Fetch    FetchConfig
	Strategy StrategyConfig

	// Scheduler
	ScanCron     string
	UniverseCron string
	ScanTZ       string // IANA zone the cron expressions are read in

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// YahooConfig holds Yahoo Finance endpoint configuration
type YahooConfig struct {
	BaseURL   string
	CookieURL string
	RateLimit float64 // requests per second
}

// FetchConfig controls how the ticker universe is walked
type FetchConfig struct {
	BatchSize    int
	BatchPause   time.Duration
	HistoryYears int
}

// StrategyConfig holds the valuation and price band parameters
type StrategyConfig struct {
	ShortlistSize   int
	TrimFraction    float64
	BandWidth       float64 // band half-width in standard deviations
	MinObservations int     // minimum trimmed weekly observations
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		UniverseFile:  getEnv("UNIVERSE_FILE", "sp_500_stocks.csv"),
		ReportPath:    getEnv("REPORT_PATH", "sp500_value_report.xlsx"),
		StrategyFile:  getEnv("STRATEGY_FILE", ""),
		PortfolioSize: getEnv("PORTFOLIO_SIZE", ""),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("CACHE_TTL", "24h"),
		},

		Yahoo: YahooConfig{
			BaseURL:   getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			CookieURL: getEnv("YAHOO_COOKIE_URL", "https://fc.yahoo.com"),
			RateLimit: getEnvAsFloat("YAHOO_RATE_LIMIT", 2),
		},

		Fetch: FetchConfig{
			BatchSize:    getEnvAsInt("FETCH_BATCH_SIZE", 100),
			BatchPause:   getEnvAsDuration("FETCH_BATCH_PAUSE", "10s"),
			HistoryYears: getEnvAsInt("HISTORY_YEARS", 5),
		},

		Strategy: StrategyConfig{
			ShortlistSize:   getEnvAsInt("SHORTLIST_SIZE", 50),
			TrimFraction:    getEnvAsFloat("TRIM_FRACTION", 0.1),
			BandWidth:       getEnvAsFloat("BAND_WIDTH", 2.0),
			MinObservations: getEnvAsInt("MIN_WEEKS", 20),
		},

		// weekdays after the US close, seconds field first
		ScanCron:     getEnv("SCAN_CRON", "0 30 17 * * 1-5"),
		UniverseCron: getEnv("UNIVERSE_CRON", "0 0 6 * * 1"),
		ScanTZ:       getEnv("SCAN_TZ", "America/New_York"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Fetch.BatchSize <= 0 {
		return fmt.Errorf("FETCH_BATCH_SIZE must be positive")
	}
	if c.Fetch.HistoryYears <= 0 {
		return fmt.Errorf("HISTORY_YEARS must be positive")
	}
	if c.Yahoo.RateLimit <= 0 {
		return fmt.Errorf("YAHOO_RATE_LIMIT must be positive")
	}

	if _, err := time.LoadLocation(c.ScanTZ); err != nil {
		return fmt.Errorf("SCAN_TZ is not a known time zone: %w", err)
	}

	if c.Strategy.ShortlistSize <= 0 {
		return fmt.Errorf("SHORTLIST_SIZE must be positive")
	}
	if c.Strategy.TrimFraction < 0 || c.Strategy.TrimFraction >= 0.5 {
		return fmt.Errorf("TRIM_FRACTION must be in [0, 0.5)")
	}
	if c.Strategy.BandWidth <= 0 {
		return fmt.Errorf("BAND_WIDTH must be positive")
	}
	if c.Strategy.MinObservations < 2 {
		return fmt.Errorf("MIN_WEEKS must be at least 2")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
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
