package domain

import (
	"context"
	"time"
)

// Decoded is the output of document decoding: plain text for image/PDF/text
// sources, tabular rows for CSV and spreadsheets. Rows take precedence when
// present; Text doubles as a fallback for tabular sources that flatten to
// nothing.
type Decoded struct {
	Text string
	Rows [][]string
}

// Decoder turns raw uploaded bytes into decoded content ready for extraction.
// Implementations dispatch on content type and filename; unknown formats
// yield ErrUnsupportedFormat.
type Decoder interface {
	Decode(ctx context.Context, data []byte, contentType, filename string) (*Decoded, error)
}

// Embedder computes a fixed-dimension semantic vector for a string.
type Embedder interface {
	Embed(ctx context.Context, input string) ([]float32, error)
}

// CatalogStore hands out per-batch catalog sessions. A session pins one pool
// connection for the duration of a resolution batch; catalog data is
// read-only at request time so no further locking is needed.
type CatalogStore interface {
	Session(ctx context.Context) (CatalogSession, error)
}

// CatalogSession is the read surface of the catalog over a single connection.
type CatalogSession interface {
	// ExactLookup returns the entry whose SKU equals the token verbatim,
	// or ErrNotFound.
	ExactLookup(ctx context.Context, sku string) (*CatalogEntry, error)

	// NearestNeighbors returns the k entries closest to the query vector,
	// nearest first, each with its distance.
	NearestNeighbors(ctx context.Context, vector []float32, k int) ([]Neighbor, error)

	// Release returns the underlying connection to the pool.
	Release()
}

// VectorCache caches embedding vectors keyed by normalized token so repeated
// resolutions of the same token skip the embedding round trip.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, error)
	Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error
}
