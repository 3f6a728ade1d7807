package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqa/backend/internal/domain"
)

// OrderExtractor is the extraction surface the handler needs.
type OrderExtractor interface {
	ExtractOrder(ctx context.Context, data []byte, contentType, filename string) (*domain.ExtractionResult, error)
}

// SKUResolver is the catalog resolution surface the handler needs.
type SKUResolver interface {
	ResolveBatch(ctx context.Context, tokens []string) ([]domain.MatchResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extractor OrderExtractor
	resolver  SKUResolver
}

// NewHandler creates a new HTTP handler
func NewHandler(extractor OrderExtractor, resolver SKUResolver) *Handler {
	return &Handler{
		extractor: extractor,
		resolver:  resolver,
	}
}

// HealthCheck is the liveness probe.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ExtractOrder handles multipart document uploads and returns extracted items.
func (h *Handler) ExtractOrder(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file part is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.extractor.ExtractOrder(c.Request.Context(), data, contentType, fileHeader.Filename)

	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported file type"})
	case errors.Is(err, domain.ErrNoItemsDetected):
		c.JSON(http.StatusOK, gin.H{"message": "No order items detected"})
	case err != nil:
		log.Printf("[HTTP] extract_order failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed"})
	default:
		c.JSON(http.StatusOK, result)
	}
}

// matchRequest uses a pointer so a missing "skus" key is distinguishable
// from an empty list.
type matchRequest struct {
	SKUs *[]string `json:"skus"`
}

func (r *matchRequest) validate() error {
	if r.SKUs == nil {
		return fmt.Errorf("%w: skus", domain.ErrMissingRequiredField)
	}
	return nil
}

// MatchSKUs resolves a batch of raw tokens against the catalog.
func (h *Handler) MatchSKUs(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if err := req.validate(); errors.Is(err, domain.ErrMissingRequiredField) {
		log.Printf("[HTTP] match_skus rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No skus key supplied"})
		return
	}

	results, err := h.resolver.ResolveBatch(c.Request.Context(), *req.SKUs)
	if err != nil {
		// Tokens resolved before a cancellation or failure are still good;
		// return them rather than discarding the work.
		if len(results) > 0 {
			log.Printf("[HTTP] match_skus returning %d partial results: %v", len(results), err)
			c.JSON(http.StatusOK, gin.H{"matches": results})
			return
		}
		log.Printf("[HTTP] match_skus failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog resolution unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": results})
}
