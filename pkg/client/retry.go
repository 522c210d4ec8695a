package client

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mouser_retries_total",
		Help: "Total number of retry attempts by HTTP status",
	}, []string{"status"})

	retryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mouser_retry_exhausted_total",
		Help: "Total number of times the retry attempt also failed",
	})
)

// RetryPolicy decides which statuses earn a retry, how many attempts are
// made in total, and how long to back off between them. The default is
// the minimal single-retry policy; tests inject tighter ones.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts including the initial request.
	MaxAttempts int

	// Backoff is the fixed wait between attempts.
	Backoff time.Duration

	// RetryableStatus holds the HTTP statuses classified as transient.
	RetryableStatus map[int]bool
}

// DefaultRetryPolicy returns the single-retry policy for the Mouser API:
// 403 and 503 are transient, retried exactly once after a 5 second wait.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Backoff:     5 * time.Second,
		RetryableStatus: map[int]bool{
			403: true,
			503: true,
		},
	}
}

// Retryable reports whether a status earns another attempt.
func (p RetryPolicy) Retryable(status int) bool {
	return p.RetryableStatus[status]
}

// sleep waits out the policy backoff, honoring context cancellation.
func (p RetryPolicy) sleep(ctx context.Context, status int) error {
	retriesTotal.WithLabelValues(fmt.Sprintf("%d", status)).Inc()

	log.Debug().
		Int("status", status).
		Dur("backoff", p.Backoff).
		Msg("Retrying request after backoff")

	select {
	case <-ctx.Done():
		log.Warn().
			Int("status", status).
			Msg("Context cancelled during retry backoff")
		return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
	case <-time.After(p.Backoff):
		return nil
	}
}
