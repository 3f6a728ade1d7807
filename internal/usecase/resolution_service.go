package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/zaqa/backend/internal/domain"
)

// Package-level compiled regex patterns for cache key normalization
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// ResolutionConfig holds configuration for the resolution service
type ResolutionConfig struct {
	TopK               int
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// ResolutionService resolves raw extracted tokens against the product
// catalog: exact lookup first, then nearest-neighbor retrieval with fuzzy
// lexical re-ranking and derived confidence scores.
type ResolutionService struct {
	catalog  domain.CatalogStore
	embedder domain.Embedder
	cache    domain.VectorCache
	topK     int
	cacheTTL time.Duration
	debug    bool
}

// NewResolutionService creates a resolution service with dependencies.
func NewResolutionService(
	catalog domain.CatalogStore,
	embedder domain.Embedder,
	cache domain.VectorCache,
	config ResolutionConfig,
) *ResolutionService {
	topK := config.TopK
	if topK <= 0 {
		topK = 5
	}
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	return &ResolutionService{
		catalog:  catalog,
		embedder: embedder,
		cache:    cache,
		topK:     topK,
		cacheTTL: cacheTTL,
		debug:    config.EnableDebugLogging,
	}
}

// ResolveBatch resolves each token independently, preserving input order.
// One pool connection is held for the whole batch. A cancelled context stops
// the remaining tokens and returns the results produced so far alongside the
// context error; a per-token upstream failure is isolated as an empty match
// list so one bad lookup doesn't abort the batch.
func (s *ResolutionService) ResolveBatch(ctx context.Context, tokens []string) ([]domain.MatchResult, error) {
	session, err := s.catalog.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer session.Release()

	results := make([]domain.MatchResult, 0, len(tokens))
	for _, raw := range tokens {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := s.resolveOne(ctx, session, raw)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			log.Printf("[RESOLVE] token %q failed: %v", raw, err)
			results = append(results, domain.MatchResult{Extracted: raw, Matches: []domain.MatchCandidate{}})
			continue
		}
		results = append(results, *result)
	}

	return results, nil
}

func (s *ResolutionService) resolveOne(ctx context.Context, session domain.CatalogSession, raw string) (*domain.MatchResult, error) {
	// exact SKU hit short-circuits retrieval entirely
	entry, err := session.ExactLookup(ctx, raw)
	if err == nil {
		return &domain.MatchResult{
			Extracted: raw,
			Matches:   []domain.MatchCandidate{{SKU: entry.SKU, Confidence: 1.0}},
		}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: exact lookup: %v", domain.ErrUpstreamUnavailable, err)
	}

	vector, err := s.embedToken(ctx, raw)
	if err != nil {
		return nil, err
	}

	neighbors, err := session.NearestNeighbors(ctx, vector, s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: nearest neighbors: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(neighbors) == 0 {
		return &domain.MatchResult{Extracted: raw, Matches: []domain.MatchCandidate{}}, nil
	}

	names := make([]string, len(neighbors))
	for i, n := range neighbors {
		names[i] = n.Name
	}
	best := lexicalBestIndex(raw, names)

	if s.debug {
		log.Printf("[RESOLVE] %q: %d candidates, lexical best %q (rank %d)", raw, len(neighbors), neighbors[best].Name, best)
	}

	// The lexical best is promoted to rank 1; the rest stay in retrieval
	// order, not confidence order. Documented behavior, kept as-is.
	matches := make([]domain.MatchCandidate, 0, len(neighbors))
	matches = append(matches, domain.MatchCandidate{
		SKU:        neighbors[best].SKU,
		Confidence: confidenceFromDistance(neighbors[best].Distance),
	})
	for i, n := range neighbors {
		if i == best {
			continue
		}
		matches = append(matches, domain.MatchCandidate{
			SKU:        n.SKU,
			Confidence: confidenceFromDistance(n.Distance),
		})
	}

	return &domain.MatchResult{Extracted: raw, Matches: matches}, nil
}

// embedToken returns the token's embedding vector, consulting the cache
// before the embedding service.
func (s *ResolutionService) embedToken(ctx context.Context, raw string) ([]float32, error) {
	key := embeddingCacheKey(raw)

	if s.cache != nil {
		if vector, err := s.cache.Get(ctx, key); err == nil {
			return vector, nil
		}
	}

	vector, err := s.embedder.Embed(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", domain.ErrUpstreamUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, vector, s.cacheTTL); err != nil {
			log.Printf("[RESOLVE] caching vector for %q failed: %v", raw, err)
		}
	}

	return vector, nil
}

// confidenceFromDistance derives a [0,1] confidence as 1 − distance, rounded
// to 3 decimals. Distances over 1 would go negative, so the result is clamped
// explicitly rather than trusting the metric.
func confidenceFromDistance(distance float64) float64 {
	confidence := math.Round((1-distance)*1000) / 1000
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// embeddingCacheKey normalizes a token for use as a cache key.
// Format: "embed:{normalized_token}"
func embeddingCacheKey(raw string) string {
	normalized := strings.ToLower(raw)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return "embed:" + strings.TrimSpace(normalized)
}
