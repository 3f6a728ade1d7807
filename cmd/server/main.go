package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-openapi/inflect"
	"github.com/joho/godotenv"

	"github.com/zaqa/backend/config"
	httpDelivery "github.com/zaqa/backend/internal/delivery/http"
	"github.com/zaqa/backend/internal/infrastructure/cache"
	"github.com/zaqa/backend/internal/infrastructure/catalog"
	"github.com/zaqa/backend/internal/infrastructure/decode"
	"github.com/zaqa/backend/internal/infrastructure/embedding"
	"github.com/zaqa/backend/internal/infrastructure/ocr"
	"github.com/zaqa/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Zaqa order extraction backend")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Extraction strategy: %s", cfg.Extraction.Strategy)

	// Infrastructure dependencies
	store, err := catalog.Connect(context.Background(), cfg.Catalog.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to catalog database: %v", err)
	}
	defer store.Close()
	log.Printf("Catalog database connected (top_k=%d)", cfg.Catalog.TopK)

	embedClient := embedding.NewClient(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Model)
	if cfg.Server.Environment == "development" {
		embedClient.SetDebug(true)
	}
	log.Printf("Embedding model: %s (%d dims)", cfg.Embedding.Model, cfg.Embedding.Dimensions)

	vectorCache := cache.NewMemoryVectorCache()
	log.Printf("Vector cache TTL: %s", cfg.Cache.TTL)

	// Usecase layer. The singularization engine and the parser are built once
	// and reused read-only for the process lifetime.
	parser := usecase.NewSegmentParser(inflect.Singularize)
	extractor := usecase.NewExtractor(parser, usecase.ExtractorConfig{
		Strategy:       usecase.Strategy(cfg.Extraction.Strategy),
		BoundaryMarker: cfg.Extraction.BoundaryMarker,
		PreambleMarker: cfg.Extraction.PreambleMarker,
	})

	decoder := decode.NewDecoder(ocr.ExecRunner{})
	extractionService := usecase.NewExtractionService(decoder, extractor)

	resolutionService := usecase.NewResolutionService(
		store,
		embedClient,
		vectorCache,
		usecase.ResolutionConfig{
			TopK:               cfg.Catalog.TopK,
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Server.Environment == "development",
		},
	)

	// HTTP delivery
	handler := httpDelivery.NewHandler(extractionService, resolutionService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
