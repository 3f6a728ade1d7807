package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/zaqa/backend/internal/domain"
)

// Client computes embedding vectors through an OpenAI-compatible embeddings
// endpoint. Requests are rate limited and retried with exponential backoff
// on transient failure.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new embedding API client
func NewClient(apiKey, baseURL, model string) *Client {
	// Most embedding providers allow a few requests per second sustained;
	// 5 rps with a burst of 10 stays well under typical quotas.
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for the input string.
func (c *Client) Embed(ctx context.Context, input string) ([]float32, error) {
	reqURL := fmt.Sprintf("%s/v1/embeddings", c.baseURL)

	payload, err := json.Marshal(embeddingRequest{Input: input, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		vector, retryable, err := c.doEmbed(ctx, reqURL, payload)
		if err == nil {
			return vector, nil
		}
		if !retryable {
			return nil, err
		}

		if c.debug {
			log.Printf("[EMBED] attempt %d failed: %v", attempt, err)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, lastErr)
}

// doEmbed executes one request. The boolean reports whether a failure is
// worth retrying.
func (c *Client) doEmbed(ctx context.Context, reqURL string, payload []byte) ([]float32, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// 4xx other than 429 won't get better on retry
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("embedding API status %d: %s", resp.StatusCode, truncate(string(body), 512))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, false, fmt.Errorf("embedding response contained no vector")
	}

	return parsed.Data[0].Embedding, false, nil
}

// exponentialBackoff returns the wait duration before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(250<<(attempt-1)) * time.Millisecond
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
