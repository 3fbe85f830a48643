package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Matching  MatchingConfig
	Cart      CartConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig locates the catalog CSV and the synonym table
type CatalogConfig struct {
	Path         string `mapstructure:"path"`
	SynonymsPath string `mapstructure:"synonyms_path"`
}

// MatchingConfig holds product-resolution configuration
type MatchingConfig struct {
	MinScore           float64 `mapstructure:"min_score"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// CartConfig holds session cart configuration
type CartConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Currency string        `mapstructure:"currency"`
}

// StorageConfig holds order persistence configuration. An empty
// interactions_path disables the chat history log.
type StorageConfig struct {
	SQLitePath       string `mapstructure:"sqlite_path"`
	InteractionsPath string `mapstructure:"interactions_path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if present (development convenience)
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ventabot/")

	// Environment variable settings
	v.SetEnvPrefix("VENTABOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads KEY=VALUE pairs from a .env file in the working
// directory. Missing file is not an error. Existing environment
// variables are never overridden.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults
	v.SetDefault("catalog.path", "data/catalog.csv")
	v.SetDefault("catalog.synonyms_path", "data/synonyms.json")

	// Matching defaults
	v.SetDefault("matching.min_score", 0.65)
	v.SetDefault("matching.enable_debug_logging", false)

	// Cart defaults
	v.SetDefault("cart.ttl", "24h")
	v.SetDefault("cart.currency", "COP")

	// Storage defaults
	v.SetDefault("storage.sqlite_path", "data/orders.db")
	v.SetDefault("storage.interactions_path", "logs/chat_history.jsonl")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required (set VENTABOT_CATALOG_PATH)")
	}

	if config.Matching.MinScore < 0 || config.Matching.MinScore > 1 {
		return fmt.Errorf("matching min_score must be between 0 and 1, got: %v", config.Matching.MinScore)
	}

	if config.Cart.TTL < 0 {
		return fmt.Errorf("cart TTL cannot be negative, got: %v", config.Cart.TTL)
	}

	if config.Storage.SQLitePath == "" {
		return fmt.Errorf("storage sqlite_path is required")
	}

	return nil
}
