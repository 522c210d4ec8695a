// Package batch splits an ordered list of part number identifiers into
// bounded-size groups for submission to the Mouser search API.
package batch

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultMaxPerGroup is the upstream limit on part numbers per search request.
const DefaultMaxPerGroup = 10

// Separator joins the identifiers of one batch into the transport string.
const Separator = "|"

// Batch is an ordered group of identifiers submitted as one request.
type Batch struct {
	// Identifiers are the trimmed part numbers in input order.
	Identifiers []string
}

// Join returns the pipe-delimited transport string for the batch.
func (b Batch) Join() string {
	return strings.Join(b.Identifiers, Separator)
}

// Size returns the number of identifiers in the batch.
func (b Batch) Size() int {
	return len(b.Identifiers)
}

// RangeFilter restricts grouping to the half-open identifier range
// [Start, Stop). It supports resuming a long list across sessions
// without re-uploading the input.
type RangeFilter struct {
	Enabled bool
	Start   int
	Stop    int
}

// Group splits identifiers into batches of at most maxPerGroup members.
// Identifiers are trimmed before joining; batches are filled greedily in
// input order. The final batch may be smaller than maxPerGroup but is
// never empty. Empty input yields an empty slice.
//
// Out-of-range filter bounds are clamped silently to the list length.
func Group(identifiers []string, maxPerGroup int, filter RangeFilter) []Batch {
	if maxPerGroup <= 0 {
		maxPerGroup = DefaultMaxPerGroup
	}

	if filter.Enabled {
		start, stop := clamp(filter.Start, filter.Stop, len(identifiers))
		if stop != filter.Stop || start != filter.Start {
			log.Debug().
				Int("start", filter.Start).
				Int("stop", filter.Stop).
				Int("length", len(identifiers)).
				Msg("Range filter clamped to list bounds")
		}
		identifiers = identifiers[start:stop]
	}

	batches := make([]Batch, 0, (len(identifiers)+maxPerGroup-1)/maxPerGroup)
	current := make([]string, 0, maxPerGroup)

	for _, id := range identifiers {
		current = append(current, strings.TrimSpace(id))
		if len(current) == maxPerGroup {
			batches = append(batches, Batch{Identifiers: current})
			current = make([]string, 0, maxPerGroup)
		}
	}

	if len(current) > 0 {
		batches = append(batches, Batch{Identifiers: current})
	}

	return batches
}

// clamp bounds the half-open range [start, stop) to [0, length].
func clamp(start, stop, length int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > length {
		start = length
	}
	if stop < start {
		stop = start
	}
	if stop > length {
		stop = length
	}
	return start, stop
}
