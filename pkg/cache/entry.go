// Package cache provides an optional TTL-bounded Redis cache for Mouser
// search responses. Re-running overlapping identifier ranges then skips
// the upstream request entirely.
package cache

import (
	"time"
)

// Entry represents one cached search response.
type Entry struct {
	// Data is the raw response body JSON.
	Data []byte `json:"data"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// CachedAt is when the response was cached.
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
