package domain

import "errors"

var (
	// ErrUnsupportedFormat is returned when no decoder can interpret the
	// uploaded content type or file extension. Never retried.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoItemsDetected is returned when extraction ran successfully but
	// produced zero items. Distinct from a decoding failure.
	ErrNoItemsDetected = errors.New("no order items detected")

	// ErrMissingRequiredField is returned for malformed requests, e.g. a
	// batch resolution payload without the "skus" key.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrUpstreamUnavailable is returned when the embedding service or the
	// catalog store cannot be reached after retries.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrNotFound is returned by exact catalog lookups that match no row.
	ErrNotFound = errors.New("catalog entry not found")

	// ErrCacheMiss is returned when a vector is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
