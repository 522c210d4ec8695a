package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/batch"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/cache"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/client"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/config"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/export"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/loader"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/logging"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/lookup"
	"github.com/Sternrassler/mouser-bulk-lookup/pkg/ratelimit"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		inputPath  string
		outputPath string
		apiKey     string
		baseURL    string
		batchSize  int
		startRow   int
		stopRow    int
		pacing     string
		redisAddr  string
		logLevel   string
		pretty     bool
	)

	cmd := &cobra.Command{
		Use:   "mouser-lookup",
		Short: "Bulk part number lookup against the Mouser search API",
		Long: `Reads manufacturer part numbers from the first column of a headerless
CSV file, submits them to the Mouser part number search API in batches,
and writes the matched parts as CSV with columns MPN, Manufacturer and
ImageURL.

Batches are processed strictly one at a time with a courtesy delay
before every request. A failed batch is reported and skipped; the run
always continues to the end.`,
		Example: `  # Look up all part numbers in parts.csv
  mouser-lookup -i parts.csv -o results.csv --api-key $MOUSER_API_KEY

  # Resume a long list: rows 200 up to (not including) 400
  mouser-lookup -i parts.csv --start 200 --stop 400

  # Print results to stdout, cache responses in Redis
  mouser-lookup -i parts.csv -o - --redis-addr localhost:6379`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Flags beat config file and environment.
			flags := cmd.Flags()
			if flags.Changed("api-key") {
				cfg.APIKey = apiKey
			}
			if flags.Changed("base-url") {
				cfg.BaseURL = baseURL
			}
			if flags.Changed("batch-size") {
				cfg.BatchSize = batchSize
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if flags.Changed("pacing") {
				parsed, err := parseDuration(pacing)
				if err != nil {
					return err
				}
				cfg.PacingInterval = parsed
			}
			if flags.Changed("redis-addr") {
				cfg.Redis.Addr = redisAddr
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if flags.Changed("pretty") {
				cfg.Log.Pretty = pretty
			}

			logging.Setup(logging.Config{
				Level:  logging.LogLevel(cfg.Log.Level),
				Pretty: cfg.Log.Pretty,
				Output: cmd.ErrOrStderr(),
			})

			rangeFilter := batch.RangeFilter{}
			if flags.Changed("start") || flags.Changed("stop") {
				rangeFilter = batch.RangeFilter{Enabled: true, Start: startRow, Stop: stopRow}
				if !flags.Changed("stop") {
					// No upper bound: the batcher clamps to the list length.
					rangeFilter.Stop = math.MaxInt
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd, cfg, inputPath, outputPath, rangeFilter)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input CSV file, first column holds part numbers (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "results.csv", "output CSV file, or - for stdout")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Mouser API key (or MOUSER_API_KEY)")
	cmd.Flags().StringVar(&baseURL, "base-url", client.DefaultBaseURL, "search endpoint override")
	cmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultMaxPerGroup, "part numbers per request")
	cmd.Flags().IntVar(&startRow, "start", 0, "first identifier index to process (inclusive)")
	cmd.Flags().IntVar(&stopRow, "stop", 0, "identifier index to stop before (exclusive)")
	cmd.Flags().StringVar(&pacing, "pacing", "", "delay before each request, e.g. 2s")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address enabling the response cache")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "human-readable log output")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// run wires the pipeline: load, batch, then the sequential lookup loop
// feeding the CSV sink.
func run(ctx context.Context, cmd *cobra.Command, cfg config.Config, inputPath, outputPath string, rangeFilter batch.RangeFilter) error {
	logger := logging.NewLogger("cli")

	// Key validation comes first: a bad key must abort before the file
	// is even opened, let alone any request made.
	clientCfg := client.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout.Std(),
		CacheTTL: cfg.CacheTTL.Std(),
		Retry:    client.DefaultRetryPolicy(),
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis %s: %w", cfg.Redis.Addr, err)
		}
		defer redisClient.Close()
		clientCfg.Cache = cache.NewManager(redisClient)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Response cache enabled")
	}

	searcher, err := client.New(clientCfg)
	if err != nil {
		return err
	}

	identifiers, err := loader.ReadFile(inputPath)
	if err != nil {
		return err
	}
	if len(identifiers) == 0 {
		return fmt.Errorf("no identifiers found in %s", inputPath)
	}

	batches := batch.Group(identifiers, cfg.BatchSize, rangeFilter)
	if len(batches) == 0 {
		return fmt.Errorf("range filter [%d, %d) selects no identifiers", rangeFilter.Start, rangeFilter.Stop)
	}

	logger.Info().
		Int("identifiers", len(identifiers)).
		Int("batches", len(batches)).
		Int("batch_size", cfg.BatchSize).
		Msg("Input batched")

	gate := ratelimit.NewIntervalGate(cfg.PacingInterval.Std(), logging.NewLogger("pacing"))

	runner, err := lookup.NewRunner(searcher, gate, newBarObserver(len(batches)))
	if err != nil {
		return err
	}

	records, err := runner.Run(ctx, batches)
	if err != nil {
		if errors.Is(err, lookup.ErrNoResults) {
			cmd.PrintErrln("No results: every batch failed or matched nothing. See the log for per-batch errors.")
			return nil
		}
		return err
	}

	if err := export.WriteFile(outputPath, records); err != nil {
		return err
	}

	if outputPath != "-" {
		cmd.Printf("Wrote %d records to %s\n", len(records), outputPath)
	}

	return nil
}

// parseDuration converts a flag value into the config Duration type.
func parseDuration(s string) (config.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid pacing %q: %w", s, err)
	}
	return config.Duration(d), nil
}
