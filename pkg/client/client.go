// Package client provides the Mouser part number search HTTP client with
// retry, pacing-friendly error classification, and optional response
// caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/batch"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/cache"
)

// Prometheus metrics for search requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mouser_requests_total",
		Help: "Total search requests by outcome status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mouser_request_duration_seconds",
		Help:    "Search request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mouser_errors_total",
		Help: "Total request errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the Mouser part number search endpoint.
const DefaultBaseURL = "https://api.mouser.com/api/v1/search/partnumber"

// MinAPIKeyLen is the minimum accepted API key length. Shorter keys are
// rejected before any request is made.
const MinAPIKeyLen = 20

// Client is the Mouser search API client.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is the opaque Mouser API key, passed as a query parameter.
	APIKey string

	// BaseURL is the search endpoint (default: DefaultBaseURL).
	BaseURL string

	// Timeout per HTTP request.
	Timeout time.Duration

	// Retry is the transient-failure policy.
	Retry RetryPolicy

	// Cache is the optional response cache (nil disables caching).
	Cache *cache.Manager

	// CacheTTL bounds how long a cached response stays usable.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:   apiKey,
		BaseURL:  DefaultBaseURL,
		Timeout:  30 * time.Second,
		Retry:    DefaultRetryPolicy(),
		CacheTTL: 15 * time.Minute,
	}
}

// New creates a new Mouser search client.
func New(cfg Config) (*Client, error) {
	if len(cfg.APIKey) < MinAPIKeyLen {
		return nil, &ValidationError{
			Field:  "api_key",
			Reason: fmt.Sprintf("must be at least %d characters (got %d)", MinAPIKeyLen, len(cfg.APIKey)),
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, &ValidationError{Field: "base_url", Reason: err.Error()}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryPolicy()
	}

	logger := log.With().Str("component", "mouser-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logger,
	}, nil
}

// Search submits one batch to the part number search endpoint and returns
// the parsed response. Transient statuses are retried per the configured
// policy; all other failures return a classified *APIError.
func (c *Client) Search(ctx context.Context, b batch.Batch) (*SearchResponse, error) {
	joined := b.Join()

	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check cache
	if cached, ok := c.FromCache(ctx, b); ok {
		return cached, nil
	}

	// Step 2: Build request body
	body, err := json.Marshal(SearchRequest{
		SearchByPartRequest: SearchByPartRequest{MouserPartNumber: joined},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	// Step 3: Execute with single-retry policy
	var lastErr error
	for attempt := 1; attempt <= c.config.Retry.MaxAttempts; attempt++ {
		resp, err := c.do(ctx, body)

		// Network errors fail the batch without retry.
		if err != nil {
			c.logger.Error().Err(err).Int("size", b.Size()).Msg("Search request failed")
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues("network_error").Inc()
			return nil, &APIError{
				ErrorClass: ErrorClassNetwork,
				Err:        err,
			}
		}

		requestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

		// Success: parse and cache the body.
		if resp.StatusCode == http.StatusOK {
			parsed, raw, err := c.decode(resp)
			if err != nil {
				return nil, err
			}

			if attempt > 1 {
				c.logger.Info().
					Int("attempt", attempt).
					Msg("Search succeeded after retry")
			}

			// Only usable responses are cached. A 200 carrying an
			// upstream error list or a null results container must not
			// be replayed on a rerun that could now succeed.
			if len(parsed.Errors) == 0 && parsed.SearchResults != nil {
				c.storeInCache(ctx, joined, raw)
			}
			return parsed, nil
		}

		respBody := readBody(resp)

		// Transient status: back off once, then escalate.
		if c.config.Retry.Retryable(resp.StatusCode) {
			errorsTotal.WithLabelValues(string(ErrorClassTransient)).Inc()
			lastErr = &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassTransient,
				Body:       respBody,
			}

			c.logger.Warn().
				Int("status", resp.StatusCode).
				Int("attempt", attempt).
				Msg("Transient search failure")

			if attempt >= c.config.Retry.MaxAttempts {
				break
			}
			if err := c.config.Retry.sleep(ctx, resp.StatusCode); err != nil {
				return nil, err
			}
			continue
		}

		// Permanent status: report and fail the batch.
		errorsTotal.WithLabelValues(string(ErrorClassPermanent)).Inc()
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", respBody).
			Msg("Permanent search failure")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassPermanent,
			Body:       respBody,
		}
	}

	// Retry exhausted: the transient failure is now permanent for this batch.
	retryExhaustedTotal.Inc()
	c.logger.Error().
		Int("max_attempts", c.config.Retry.MaxAttempts).
		Msg("Retry attempts exhausted")

	return nil, fmt.Errorf("%w after %d attempts: %v",
		ErrRetryExhausted, c.config.Retry.MaxAttempts, lastErr)
}

// FromCache returns the parsed cached response for b when the response
// cache holds a valid entry. The orchestrating loop probes this before
// waiting on the pacing gate, so cached reruns are not paced as if they
// hit the upstream.
func (c *Client) FromCache(ctx context.Context, b batch.Batch) (*SearchResponse, bool) {
	if c.cache == nil {
		return nil, false
	}

	entry, err := c.cache.Get(ctx, b.Join())
	if err != nil {
		if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Msg("Cache get error")
		}
		return nil, false
	}

	var cached SearchResponse
	if err := json.Unmarshal(entry.Data, &cached); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid cache entry ignored")
		return nil, false
	}

	c.logger.Debug().
		Int("size", b.Size()).
		Msg("Search served from cache")
	requestsTotal.WithLabelValues("cache_hit").Inc()

	return &cached, true
}

// do executes a single POST against the search endpoint.
func (c *Client) do(ctx context.Context, body []byte) (*http.Response, error) {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", c.config.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// decode parses a 200 response body, returning both the parsed form and
// the raw bytes for caching.
func (c *Client) decode(resp *http.Response) (*SearchResponse, []byte, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Err:        err,
		}
	}

	var parsed SearchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassPermanent,
			Body:       truncate(string(raw)),
			Err:        err,
		}
	}

	return &parsed, raw, nil
}

// storeInCache caches a raw response body when caching is enabled.
func (c *Client) storeInCache(ctx context.Context, joined string, raw []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, joined, raw, c.config.CacheTTL); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache response")
	}
}

// readBody drains and closes an error response body for reporting.
func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return truncate(string(raw))
}

// truncate bounds reported bodies so log lines stay readable.
func truncate(s string) string {
	const max = 512
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
