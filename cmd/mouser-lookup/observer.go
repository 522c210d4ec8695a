package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/logging"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/lookup"
)

// barObserver renders pipeline progress as a terminal progress bar and
// logs contained batch failures as they happen.
type barObserver struct {
	bar    *progressbar.ProgressBar
	logger zerolog.Logger
}

func newBarObserver(totalBatches int) *barObserver {
	bar := progressbar.NewOptions(totalBatches,
		progressbar.OptionSetDescription("Looking up parts"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)

	return &barObserver{
		bar:    bar,
		logger: logging.NewLogger("cli"),
	}
}

// OnProgress implements lookup.Observer.
func (o *barObserver) OnProgress(completed, total int) {
	_ = o.bar.Set(completed)
}

// OnError implements lookup.Observer.
func (o *barObserver) OnError(kind lookup.ErrorKind, detail string) {
	o.logger.Warn().
		Str("kind", string(kind)).
		Str("detail", detail).
		Msg("Batch failed, continuing")
}
