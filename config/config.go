package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server configuration
	ListenAddr string

	// Redis configuration
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int64

	// Memcache configuration
	MemcacheAddr string

	// Import configuration
	AllowedHosts       []string
	DefaultManualPrice float64

	// Pricing configuration
	ExchangeRate      float64
	FlatShipping      float64
	DeclaredSurcharge float64
	MarginPercent     float64

	// Enrichment configuration
	OpenRouterAPIKey string
	OpenRouterModel  string

	// Fetch configuration
	BrowserEnabled bool
	BrowserWSURL   string
	FetchTimeout   time.Duration
	BrowserTimeout time.Duration
	RateLimitTTL   time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.ParseInt(getEnv("REDIS_STREAM_MAXLEN", "1000"), 10, 64)
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "20"))
	browserTimeout, _ := strconv.Atoi(getEnv("BROWSER_TIMEOUT_SECONDS", "60"))
	rateLimitTTL, _ := strconv.Atoi(getEnv("RATE_LIMIT_SECONDS", "30"))

	return &Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8090"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            redisDB,
		RedisStream:        getEnv("REDIS_STREAM", "imports"),
		RedisStreamMaxLen:  streamMaxLen,
		MemcacheAddr:       getEnv("MEMCACHE_ADDR", "localhost:11211"),
		AllowedHosts:       getEnvList("ALLOWED_HOSTS", "x.yupoo.com,yupoo.com"),
		DefaultManualPrice: getEnvFloat("DEFAULT_MANUAL_PRICE", 150),
		ExchangeRate:       getEnvFloat("EXCHANGE_RATE", 0.75),
		FlatShipping:       getEnvFloat("FLAT_SHIPPING", 80),
		DeclaredSurcharge:  getEnvFloat("DECLARED_SURCHARGE", 60),
		MarginPercent:      getEnvFloat("MARGIN_PERCENT", 40),
		OpenRouterAPIKey:   getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:    getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		BrowserEnabled:     getEnv("BROWSER_ENABLED", "false") == "true",
		BrowserWSURL:       getEnv("BROWSER_WS_URL", ""),
		FetchTimeout:       time.Duration(fetchTimeout) * time.Second,
		BrowserTimeout:     time.Duration(browserTimeout) * time.Second,
		RateLimitTTL:       time.Duration(rateLimitTTL) * time.Second,
		Environment:        getEnv("IMPORTER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.ExchangeRate <= 0 {
		return fmt.Errorf("exchange rate must be positive, got %f", c.ExchangeRate)
	}
	if c.MarginPercent < 0 {
		return fmt.Errorf("margin percent must not be negative, got %f", c.MarginPercent)
	}
	if c.FlatShipping < 0 || c.DeclaredSurcharge < 0 {
		return fmt.Errorf("shipping and surcharge must not be negative")
	}
	if c.DefaultManualPrice <= 0 {
		return fmt.Errorf("default manual price must be positive, got %f", c.DefaultManualPrice)
	}
	if len(c.AllowedHosts) == 0 {
		return fmt.Errorf("at least one allowed host is required")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getEnvList retrieves a comma separated environment variable as a slice
func getEnvList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	parts := strings.Split(value, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
