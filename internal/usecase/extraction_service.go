package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/zaqa/backend/internal/domain"
)

// ExtractionService orchestrates document decoding and item extraction.
// Flow: decode bytes -> flatten tabular rows if any -> run extraction driver.
type ExtractionService struct {
	decoder   domain.Decoder
	extractor *Extractor
}

// NewExtractionService creates an extraction service with dependencies.
func NewExtractionService(decoder domain.Decoder, extractor *Extractor) *ExtractionService {
	return &ExtractionService{
		decoder:   decoder,
		extractor: extractor,
	}
}

// ExtractOrder decodes an uploaded document and extracts its order items.
// Unsupported formats propagate domain.ErrUnsupportedFormat; a document that
// decodes fine but yields no items returns domain.ErrNoItemsDetected so
// callers can tell "nothing found" apart from "no input".
func (s *ExtractionService) ExtractOrder(ctx context.Context, data []byte, contentType, filename string) (*domain.ExtractionResult, error) {
	decoded, err := s.decoder.Decode(ctx, data, contentType, filename)
	if err != nil {
		return nil, err
	}

	text := decoded.Text
	if len(decoded.Rows) > 0 {
		if lines := FlattenRows(decoded.Rows); len(lines) > 0 {
			text = strings.Join(lines, "\n")
		}
	}

	items := s.extractor.Extract(text)
	if len(items) == 0 {
		log.Printf("[EXTRACT] no items detected (content_type=%s filename=%s)", contentType, filename)
		return nil, domain.ErrNoItemsDetected
	}

	return domain.NewExtractionResult(items), nil
}
