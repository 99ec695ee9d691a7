package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the terminal's runtime configuration, sourced from the
// environment (optionally seeded from a .env file).
type Config struct {
	Env       string
	LogLevel  string
	Port      uint16
	StoreName string
	Currency  string

	// TaxRate is the flat tax fraction applied at checkout, e.g. "0.10".
	// Kept as a string so the pricing layer parses it into an exact decimal.
	TaxRate string

	Backend BackendConfig
	NATS    NATSConfig
}

// BackendConfig points at the remote storefront backend.
type BackendConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NATSConfig enables event publishing when URL is set.
type NATSConfig struct {
	URL string
}

// NewConfig loads configuration from the environment. A .env file is loaded
// first when present, searching the current directory and up to two parents.
func NewConfig() (*Config, error) {
	loadDotenv()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 8080)
	v.SetDefault("STORE_NAME", "OpenCounter Terminal")
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("TAX_RATE", "0.10")
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("BACKEND_TIMEOUT", "15s")

	cfg := &Config{
		Env:       v.GetString("ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		Port:      v.GetUint16("PORT"),
		StoreName: v.GetString("STORE_NAME"),
		Currency:  v.GetString("CURRENCY"),
		TaxRate:   v.GetString("TAX_RATE"),
		Backend: BackendConfig{
			BaseURL: v.GetString("BACKEND_BASE_URL"),
			Token:   v.GetString("BACKEND_TOKEN"),
			Timeout: v.GetDuration("BACKEND_TIMEOUT"),
		},
		NATS: NATSConfig{
			URL: v.GetString("NATS_URL"),
		},
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		return nil, fmt.Errorf("invalid ENV %q: must be dev or prod", cfg.Env)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL must be set")
	}

	return cfg, nil
}

// loadDotenv tries ./.env then walks up two parent directories, matching the
// repo layout where the binary may run from cmd/server.
func loadDotenv() {
	if err := godotenv.Load(); err == nil {
		return
	}

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		dir = filepath.Join(dir, "..")
		if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
			return
		}
	}
}
