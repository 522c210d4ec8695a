// Package ratelimit implements request pacing for the Mouser search API.
// The orchestrating loop waits on a Gate before every request so the
// upstream service is never hit faster than the configured interval.
package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for request pacing.
var (
	pacingWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mouser_pacing_wait_seconds",
		Help:    "Time spent waiting on the pacing gate before a request",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	pacingWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mouser_pacing_waits_total",
		Help: "Total number of waits on the pacing gate",
	})
)

// DefaultInterval is the courtesy delay enforced before each request.
const DefaultInterval = 2 * time.Second

// Gate paces requests to the upstream service. Wait blocks until the
// caller may proceed or the context is cancelled.
type Gate interface {
	Wait(ctx context.Context) error
}

// IntervalGate admits one request per fixed interval. It is the minimal
// pacing policy; swapping in an adaptive gate does not touch the
// batching or aggregation logic.
type IntervalGate struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewIntervalGate creates a gate admitting one request per interval.
// A non-positive interval falls back to DefaultInterval.
func NewIntervalGate(interval time.Duration, logger zerolog.Logger) *IntervalGate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &IntervalGate{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

// Wait blocks until the gate admits the next request.
func (g *IntervalGate) Wait(ctx context.Context) error {
	start := time.Now()
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	waited := time.Since(start)
	pacingWaitsTotal.Inc()
	pacingWaitSeconds.Observe(waited.Seconds())

	if waited > 10*time.Millisecond {
		g.logger.Debug().
			Dur("waited", waited).
			Msg("Pacing gate released request")
	}

	return nil
}

// NopGate admits every request immediately. Used in tests and for
// callers that provide their own pacing.
type NopGate struct{}

// Wait implements Gate.
func (NopGate) Wait(ctx context.Context) error {
	return ctx.Err()
}
