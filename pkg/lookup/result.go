// Package lookup orchestrates the sequential batch pipeline: it paces
// requests through a rate-limit gate, submits one batch at a time to the
// search client, aggregates usable responses into part records, and
// reports progress and errors to an observer.
package lookup

// Sentinel replaces any field missing from the upstream response.
const Sentinel = "N/A"

// PartRecord is one normalized lookup result.
type PartRecord struct {
	MPN          string
	Manufacturer string
	ImageURL     string
}
