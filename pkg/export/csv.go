// Package export writes the aggregated result set as UTF-8 CSV with a
// header row, one row per record, in batch-submission order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/lookup"
)

// Header is the fixed column set of the export.
var Header = []string{"MPN", "Manufacturer", "ImageURL"}

// Write renders records as CSV to w. The header row is always written,
// even for an empty record set.
func Write(w io.Writer, records []lookup.PartRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		if err := cw.Write([]string{r.MPN, r.Manufacturer, r.ImageURL}); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// WriteFile writes records to path, or to stdout when path is "-".
func WriteFile(path string, records []lookup.PartRecord) error {
	if path == "-" {
		return Write(os.Stdout, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("records", len(records)).
		Msg("Result set exported")

	return nil
}
