package lookup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/client"
)

var partsCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mouser_parts_collected_total",
	Help: "Total part records extracted from usable responses",
})

// Usable reports whether a response may contribute records: the upstream
// error list must be empty and the results container non-null.
func Usable(resp *client.SearchResponse) bool {
	return resp != nil && len(resp.Errors) == 0 && resp.SearchResults != nil
}

// Accumulate extracts the normalized part records from one response.
// Unusable responses contribute zero records. Missing fields fall back
// to the Sentinel so every record carries all three columns.
func Accumulate(resp *client.SearchResponse) []PartRecord {
	if !Usable(resp) {
		return nil
	}

	records := make([]PartRecord, 0, len(resp.SearchResults.Parts))
	for _, part := range resp.SearchResults.Parts {
		records = append(records, PartRecord{
			MPN:          fieldOr(part.ManufacturerPartNumber),
			Manufacturer: fieldOr(part.Manufacturer),
			ImageURL:     fieldOr(part.ImagePath),
		})

		log.Debug().
			Str("mpn", part.ManufacturerPartNumber).
			Str("mouser_part_number", part.MouserPartNumber).
			Str("description", part.Description).
			Str("availability", part.Availability).
			Msg("Part matched")
	}

	partsCollectedTotal.Add(float64(len(records)))

	return records
}

// fieldOr substitutes the sentinel for absent fields.
func fieldOr(s string) string {
	if s == "" {
		return Sentinel
	}
	return s
}
