// Package loader reads part number identifiers from a tabular input file.
//
// The input is a headerless CSV whose first column holds one manufacturer
// part number per row. Values are always treated as text so that
// numeric-looking identifiers keep their leading zeros and formatting.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// LoadError indicates the input file could not be parsed as tabular data.
// The run aborts before any requests are made.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load input %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load input: %v", e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Read parses the first column of a headerless CSV stream into an ordered
// list of identifiers. Rows with an empty or whitespace-only first column
// are skipped. On parse failure an empty list and a *LoadError are
// returned.
func Read(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	// Rows may have trailing columns of varying width; only the first
	// column carries identifiers.
	cr.FieldsPerRecord = -1

	var identifiers []string
	skipped := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Err: err}
		}

		if len(record) == 0 {
			skipped++
			continue
		}

		id := strings.TrimSpace(record[0])
		if id == "" {
			skipped++
			continue
		}

		identifiers = append(identifiers, id)
	}

	log.Debug().
		Int("identifiers", len(identifiers)).
		Int("skipped_rows", skipped).
		Msg("Input parsed")

	return identifiers, nil
}

// ReadFile opens path and delegates to Read.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	identifiers, err := Read(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	return identifiers, nil
}
