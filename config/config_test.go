package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ZAQA_CATALOG_DATABASE_URL", "postgres://localhost:5432/catalog")
	t.Setenv("ZAQA_EMBEDDING_API_KEY", "test-key")
}

func TestLoad(t *testing.T) {
	t.Run("loads defaults with required env set", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Port = %v, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Environment = %v, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.DatabaseURL != "postgres://localhost:5432/catalog" {
			t.Errorf("DatabaseURL = %v", cfg.Catalog.DatabaseURL)
		}
		if cfg.Catalog.TopK != 5 {
			t.Errorf("TopK = %v, want 5", cfg.Catalog.TopK)
		}
		if cfg.Embedding.Model != "text-embedding-3-small" {
			t.Errorf("Model = %v, want text-embedding-3-small", cfg.Embedding.Model)
		}
		if cfg.Embedding.Dimensions != 1536 {
			t.Errorf("Dimensions = %v, want 1536", cfg.Embedding.Dimensions)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Extraction.Strategy != "line" {
			t.Errorf("Strategy = %v, want line", cfg.Extraction.Strategy)
		}
		if cfg.Extraction.BoundaryMarker != "shipping to:" {
			t.Errorf("BoundaryMarker = %v", cfg.Extraction.BoundaryMarker)
		}
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ZAQA_SERVER_PORT", "9090")
		t.Setenv("ZAQA_SERVER_ENVIRONMENT", "production")
		t.Setenv("ZAQA_CATALOG_TOP_K", "10")
		t.Setenv("ZAQA_EMBEDDING_MODEL", "custom-model")
		t.Setenv("ZAQA_CACHE_TTL", "1h")
		t.Setenv("ZAQA_EXTRACTION_STRATEGY", "flat")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Port = %v, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Environment = %v, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.TopK != 10 {
			t.Errorf("TopK = %v, want 10", cfg.Catalog.TopK)
		}
		if cfg.Embedding.Model != "custom-model" {
			t.Errorf("Model = %v, want custom-model", cfg.Embedding.Model)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Extraction.Strategy != "flat" {
			t.Errorf("Strategy = %v, want flat", cfg.Extraction.Strategy)
		}
	})

	t.Run("missing database URL fails validation", func(t *testing.T) {
		t.Setenv("ZAQA_CATALOG_DATABASE_URL", "")
		t.Setenv("ZAQA_EMBEDDING_API_KEY", "test-key")

		_, err := Load()
		if err == nil {
			t.Fatal("Load succeeded, want error")
		}
		if !strings.Contains(err.Error(), "database URL") {
			t.Errorf("error = %v, want mention of database URL", err)
		}
	})

	t.Run("missing API key fails validation", func(t *testing.T) {
		t.Setenv("ZAQA_CATALOG_DATABASE_URL", "postgres://localhost:5432/catalog")
		t.Setenv("ZAQA_EMBEDDING_API_KEY", "")

		_, err := Load()
		if err == nil {
			t.Fatal("Load succeeded, want error")
		}
		if !strings.Contains(err.Error(), "API key") {
			t.Errorf("error = %v, want mention of API key", err)
		}
	})

	t.Run("invalid strategy fails validation", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ZAQA_EXTRACTION_STRATEGY", "magic")

		_, err := Load()
		if err == nil {
			t.Fatal("Load succeeded, want error")
		}
		if !strings.Contains(err.Error(), "strategy") {
			t.Errorf("error = %v, want mention of strategy", err)
		}
	})

	t.Run("non-positive top_k fails validation", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ZAQA_CATALOG_TOP_K", "0")

		_, err := Load()
		if err == nil {
			t.Fatal("Load succeeded, want error")
		}
		if !strings.Contains(err.Error(), "top_k") {
			t.Errorf("error = %v, want mention of top_k", err)
		}
	})
}
