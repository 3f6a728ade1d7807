package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Catalog    CatalogConfig
	Embedding  EmbeddingConfig
	Cache      CacheConfig
	Extraction ExtractionConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds catalog datastore configuration
type CatalogConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
	TopK        int    `mapstructure:"top_k"`
}

// EmbeddingConfig holds embedding API configuration
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// CacheConfig holds embedding cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ExtractionConfig holds extraction driver configuration
type ExtractionConfig struct {
	Strategy       string `mapstructure:"strategy"` // "line" or "flat"
	BoundaryMarker string `mapstructure:"boundary_marker"`
	PreambleMarker string `mapstructure:"preamble_marker"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/zaqa/")

	// Environment variable settings
	v.SetEnvPrefix("ZAQA")
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults. The empty database_url default registers the key so
	// the environment override is picked up during Unmarshal.
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.top_k", 5)

	// Embedding defaults
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "https://api.openai.com")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 1536)

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Extraction defaults
	v.SetDefault("extraction.strategy", "line")
	v.SetDefault("extraction.boundary_marker", "shipping to:")
	v.SetDefault("extraction.preamble_marker", "order the following items")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.DatabaseURL == "" {
		return fmt.Errorf("catalog database URL is required (set ZAQA_CATALOG_DATABASE_URL)")
	}

	if config.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key is required (set ZAQA_EMBEDDING_API_KEY)")
	}

	if config.Catalog.TopK < 1 {
		return fmt.Errorf("catalog top_k must be at least 1, got: %d", config.Catalog.TopK)
	}

	if config.Extraction.Strategy != "line" && config.Extraction.Strategy != "flat" {
		return fmt.Errorf("extraction strategy must be 'line' or 'flat', got: %s", config.Extraction.Strategy)
	}

	return nil
}
