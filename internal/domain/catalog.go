package domain

// CatalogEntry is one row of the product catalog. Read-only at request time.
type CatalogEntry struct {
	SKU         string
	Name        string
	Description string
	Embedding   []float32
}

// Neighbor is a nearest-neighbor retrieval hit: a catalog entry plus its
// vector distance from the query. Distance is normalized to [0,1] by the
// store's metric; the confidence derivation clamps anyway.
type Neighbor struct {
	SKU      string
	Name     string
	Distance float64
}

// MatchCandidate is a single ranked SKU candidate for an extracted token.
type MatchCandidate struct {
	SKU        string  `json:"sku"`
	Confidence float64 `json:"confidence"`
}

// MatchResult holds the ranked candidates for one raw extracted token.
// Matches is empty when neither exact lookup nor nearest-neighbor retrieval
// produced a candidate.
type MatchResult struct {
	Extracted string           `json:"extracted"`
	Matches   []MatchCandidate `json:"matches"`
}
