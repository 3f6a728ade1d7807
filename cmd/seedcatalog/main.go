package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/zaqa/backend/config"
	"github.com/zaqa/backend/internal/domain"
	"github.com/zaqa/backend/internal/infrastructure/catalog"
	"github.com/zaqa/backend/internal/infrastructure/embedding"
)

// seedcatalog loads a product catalog CSV (sku,name,description), computes an
// embedding per row and upserts everything into the catalog table.
func main() {
	var (
		file    = flag.String("file", "catalog.csv", "catalog CSV file (sku,name,description with header)")
		workers = flag.Int("workers", 4, "concurrent embedding requests")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	store, err := catalog.Connect(ctx, cfg.Catalog.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to catalog database: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx, cfg.Embedding.Dimensions); err != nil {
		log.Fatalf("Failed to ensure catalog schema: %v", err)
	}

	embedClient := embedding.NewClient(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Model)

	entries, err := readCatalogCSV(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}
	log.Printf("Seeding %d catalog entries from %s", len(entries), *file)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)

	var mu sync.Mutex
	seeded := 0

	for _, entry := range entries {
		g.Go(func() error {
			// Same composite text the resolver's catalog was embedded with
			text := fmt.Sprintf("SKU: %s | Name: %s | Desc: %s", entry.SKU, entry.Name, entry.Description)
			vector, err := embedClient.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed %s: %w", entry.SKU, err)
			}
			entry.Embedding = vector

			if err := store.UpsertEntry(gctx, &entry); err != nil {
				return err
			}

			mu.Lock()
			seeded++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d entries", seeded)
}

// readCatalogCSV parses the catalog file. The first row is a header.
func readCatalogCSV(path string) ([]domain.CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	var entries []domain.CatalogEntry
	for _, rec := range records[1:] {
		if len(rec) < 3 || rec[0] == "" {
			continue
		}
		entries = append(entries, domain.CatalogEntry{
			SKU:         rec[0],
			Name:        rec[1],
			Description: rec[2],
		})
	}
	return entries, nil
}
