package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Optional redis backing for the rate limiter (multi-replica deployments)
	RedisURL string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Keyword provider. When disabled, every request is answered with
	// deterministic synthetic metrics.
	ProviderEnabled        bool
	ProviderClientID       string
	ProviderClientSecret   string
	ProviderRefreshToken   string
	ProviderDeveloperToken string
	ProviderCustomerID     string
	ProviderTokenURL       string
	ProviderAPIBaseURL     string

	// Pipeline tuning
	CacheTTL           time.Duration // how long fetched metrics stay valid
	MaxKeywords        int           // distinct keywords per request
	InteractiveTimeout time.Duration // provider budget for user-facing calls
	BackgroundTimeout  time.Duration // provider budget for refresh jobs
	RefreshInterval    time.Duration // saved keyword refresh cadence
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/kwpulse?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		ProviderEnabled:        getEnv("PROVIDER_ENABLED", "") != "",
		ProviderClientID:       getEnv("PROVIDER_CLIENT_ID", ""),
		ProviderClientSecret:   getEnv("PROVIDER_CLIENT_SECRET", ""),
		ProviderRefreshToken:   getEnv("PROVIDER_REFRESH_TOKEN", ""),
		ProviderDeveloperToken: getEnv("PROVIDER_DEVELOPER_TOKEN", ""),
		ProviderCustomerID:     getEnv("PROVIDER_CUSTOMER_ID", ""),
		ProviderTokenURL:       getEnv("PROVIDER_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		ProviderAPIBaseURL:     getEnv("PROVIDER_API_BASE_URL", ""),

		CacheTTL:           getEnvDuration("CACHE_TTL", 30*24*time.Hour),
		MaxKeywords:        getEnvInt("MAX_KEYWORDS_PER_REQUEST", 50),
		InteractiveTimeout: getEnvDuration("PROVIDER_INTERACTIVE_TIMEOUT", 8*time.Second),
		BackgroundTimeout:  getEnvDuration("PROVIDER_BACKGROUND_TIMEOUT", 45*time.Second),
		RefreshInterval:    getEnvDuration("REFRESH_INTERVAL", 24*time.Hour),
	}
}

// Validate checks the configuration once at startup, so misconfiguration
// surfaces as an operator error instead of failing user requests.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.ProviderEnabled {
		if c.ProviderClientID == "" || c.ProviderClientSecret == "" || c.ProviderRefreshToken == "" {
			return errors.New("PROVIDER_CLIENT_ID, PROVIDER_CLIENT_SECRET and PROVIDER_REFRESH_TOKEN are required when the provider is enabled")
		}
		if c.ProviderAPIBaseURL == "" {
			return errors.New("PROVIDER_API_BASE_URL is required when the provider is enabled")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
