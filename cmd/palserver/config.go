package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string
	Model    string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Agent config
	MaxIterations int
	Timeout       time.Duration

	// Thread config
	ThreadTTL     time.Duration
	HistoryWindow int

	// Demo data
	SeedDemoData bool
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:          getEnvOrDefault("PAL_PORT", "8000"),
		LogLevel:      getEnvOrDefault("PAL_LOG_LEVEL", "info"),
		Provider:      os.Getenv("PAL_PROVIDER"),
		Model:         os.Getenv("PAL_MODEL"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		GoogleKey:     os.Getenv("GOOGLE_API_KEY"),
		MaxIterations: getEnvIntOrDefault("PAL_MAX_ITERATIONS", 8),
		Timeout:       getEnvDurationOrDefault("PAL_TIMEOUT", 2*time.Minute),
		ThreadTTL:     getEnvDurationOrDefault("PAL_THREAD_TTL", 30*time.Minute),
		HistoryWindow: getEnvIntOrDefault("PAL_HISTORY_WINDOW", 50),
		SeedDemoData:  getEnvBoolOrDefault("PAL_DEMO_DATA", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("PAL_PROVIDER is required (anthropic, openai, or google)")
	}

	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, or google)", c.Provider)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
