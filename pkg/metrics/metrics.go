// Package metrics provides the centralized Prometheus metrics reference
// for the bulk lookup tool. All metrics are defined in their respective
// packages (client, cache, ratelimit, lookup) to maintain modularity and
// avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the tool.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - mouser_requests_total{status} (Counter): Search requests by outcome
//     (HTTP status, "cache_hit", "network_error")
//   - mouser_request_duration_seconds (Histogram): Search request duration
//   - mouser_errors_total{class} (Counter): Errors by class
//     (transient, permanent, network)
//
// Retry Metrics (pkg/client):
//   - mouser_retries_total{status} (Counter): Retry attempts by HTTP status
//   - mouser_retry_exhausted_total (Counter): Batches whose retry also failed
//
// Pacing Metrics (pkg/ratelimit):
//   - mouser_pacing_waits_total (Counter): Waits on the pacing gate
//   - mouser_pacing_wait_seconds (Histogram): Time spent waiting on the gate
//
// Cache Metrics (pkg/cache):
//   - mouser_cache_hits_total (Counter): Cached responses served
//   - mouser_cache_misses_total (Counter): Cache misses
//   - mouser_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pipeline Metrics (pkg/lookup):
//   - mouser_batches_total{outcome} (Counter): Processed batches (ok, failed)
//   - mouser_parts_collected_total (Counter): Part records extracted
//
// Example Prometheus Queries:
//
//   # Batch failure rate
//   rate(mouser_batches_total{outcome="failed"}[5m]) /
//   rate(mouser_batches_total[5m])
//
//   # Cache hit rate
//   sum(rate(mouser_cache_hits_total[5m])) /
//   (sum(rate(mouser_cache_hits_total[5m])) + sum(rate(mouser_cache_misses_total[5m])))
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(mouser_request_duration_seconds_bucket[5m]))
