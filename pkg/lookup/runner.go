package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/batch"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/client"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/logging"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/ratelimit"
)

var batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mouser_batches_total",
	Help: "Total processed batches by outcome",
}, []string{"outcome"})

// ErrNoResults is returned when a completed run collected zero records.
// It is a distinct terminal outcome, not a crash: every batch was
// processed and each failure was already reported through the observer.
var ErrNoResults = errors.New("no results collected")

// Searcher submits one batch to the upstream service.
type Searcher interface {
	Search(ctx context.Context, b batch.Batch) (*client.SearchResponse, error)
}

// Runner drives the sequential batch loop. Batches are submitted one at
// a time in input order; the pacing gate is waited on before every
// upstream request (batches served from the response cache skip it) and
// cancellation is checked only between batches, never within an
// in-flight request.
type Runner struct {
	searcher Searcher
	gate     ratelimit.Gate
	observer Observer
	logger   zerolog.Logger
}

// NewRunner creates a runner. A nil gate disables pacing and a nil
// observer discards events.
func NewRunner(searcher Searcher, gate ratelimit.Gate, observer Observer) (*Runner, error) {
	if searcher == nil {
		return nil, errors.New("searcher must not be nil")
	}
	if gate == nil {
		gate = ratelimit.NopGate{}
	}
	if observer == nil {
		observer = NopObserver{}
	}

	return &Runner{
		searcher: searcher,
		gate:     gate,
		observer: observer,
		logger:   logging.NewLogger("runner"),
	}, nil
}

// Run processes all batches and returns the accumulated records in
// batch-submission order. Per-batch failures are contained: the batch
// contributes zero records, the observer is notified, and the run
// continues. Only ErrNoResults and context cancellation end a run
// without a full result set.
func (r *Runner) Run(ctx context.Context, batches []batch.Batch) ([]PartRecord, error) {
	total := len(batches)
	start := time.Now()

	r.logger.Info().
		Int("batches", total).
		Msg("Run started")

	var results []PartRecord

	for i, b := range batches {
		// Cancellation boundary: between batches only.
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run cancelled after %d/%d batches: %w", i, total, err)
		}

		// A cached batch never reaches the upstream, so it does not pay
		// the courtesy delay either.
		cached, fromCache := r.probeCache(ctx, b)
		if !fromCache {
			if err := r.gate.Wait(ctx); err != nil {
				return results, fmt.Errorf("pacing wait: %w", err)
			}
		}

		records, err := r.processBatch(ctx, i, b, cached)
		results = append(results, records...)

		if err != nil {
			batchesTotal.WithLabelValues("failed").Inc()
		} else {
			batchesTotal.WithLabelValues("ok").Inc()
		}

		r.observer.OnProgress(i+1, total)
	}

	r.logger.Info().
		Int("batches", total).
		Int("records", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Run finished")

	if len(results) == 0 {
		return nil, ErrNoResults
	}

	return results, nil
}

// cacheProber is implemented by searchers carrying a response cache.
type cacheProber interface {
	FromCache(ctx context.Context, b batch.Batch) (*client.SearchResponse, bool)
}

// probeCache asks a cache-backed searcher for a stored response.
func (r *Runner) probeCache(ctx context.Context, b batch.Batch) (*client.SearchResponse, bool) {
	prober, ok := r.searcher.(cacheProber)
	if !ok {
		return nil, false
	}
	return prober.FromCache(ctx, b)
}

// processBatch submits one batch (unless a cached response is supplied)
// and aggregates its response. All errors are reported to the observer
// and contained here.
func (r *Runner) processBatch(ctx context.Context, index int, b batch.Batch, cached *client.SearchResponse) ([]PartRecord, error) {
	resp := cached
	if resp == nil {
		// The in-flight request is shielded from cancellation; the loop
		// boundary in Run is the only cancellation point.
		var err error
		resp, err = r.searcher.Search(context.WithoutCancel(ctx), b)
		if err != nil {
			kind := classify(err)
			r.observer.OnError(kind, err.Error())
			r.logger.Error().
				Err(err).
				Int("batch", index).
				Str("error_kind", string(kind)).
				Msg("Batch failed")
			return nil, err
		}
	}

	if !Usable(resp) {
		detail := fmt.Sprintf("batch %d: upstream reported %d errors", index, len(resp.Errors))
		for _, e := range resp.Errors {
			r.logger.Warn().
				Int("batch", index).
				Str("code", e.Code).
				Str("message", e.Message).
				Msg("Upstream error entry")
		}
		if resp.SearchResults == nil {
			detail = fmt.Sprintf("batch %d: results container is null", index)
		}
		r.observer.OnError(KindResponse, detail)
		return nil, errors.New(detail)
	}

	records := Accumulate(resp)
	r.logger.Debug().
		Int("batch", index).
		Int("records", len(records)).
		Msg("Batch aggregated")

	return records, nil
}

// classify maps client errors onto observer error kinds. A transient
// failure whose retry was exhausted has escalated to permanent.
func classify(err error) ErrorKind {
	if errors.Is(err, client.ErrRetryExhausted) {
		return KindPermanent
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorClass {
		case client.ErrorClassTransient:
			return KindTransient
		case client.ErrorClassNetwork:
			return KindNetwork
		}
		return KindPermanent
	}

	return KindPermanent
}
