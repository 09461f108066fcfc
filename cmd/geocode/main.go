// Command geocode reverse geocodes the coordinates of a survey export and
// writes the sheet back with an Endereço_Google column appended.
//
// Usage:
//
//	go run ./cmd/geocode -i survey.csv -o output_enderecos.xlsx [--dry-run]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/address-etl-service/internal/adapter/geocoding"
	"github.com/couchcryptid/address-etl-service/internal/adapter/sheet"
	"github.com/couchcryptid/address-etl-service/internal/config"
	"github.com/couchcryptid/address-etl-service/internal/observability"
	"github.com/couchcryptid/address-etl-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

type flags struct {
	input   string
	output  string
	charset string
	latCol  string
	lonCol  string
	dryRun  bool
	limit   int
	workers int
	verbose bool
}

func main() {
	var f flags
	pflag.StringVarP(&f.input, "input", "i", "", "survey export to read (.csv or .xlsx)")
	pflag.StringVarP(&f.output, "output", "o", "output_enderecos.xlsx", "sheet to write (.csv or .xlsx)")
	pflag.StringVar(&f.charset, "charset", "", "charset of CSV input, e.g. windows-1252 (default utf-8)")
	pflag.StringVar(&f.latCol, "lat-column", pipeline.DefaultLatColumn, "latitude column name")
	pflag.StringVar(&f.lonCol, "lon-column", pipeline.DefaultLonColumn, "longitude column name")
	pflag.BoolVar(&f.dryRun, "dry-run", false, "geocode only the first rows; works without an API key")
	pflag.IntVar(&f.limit, "limit", 0, "maximum rows to geocode (0 = all, or 5 in dry-run mode)")
	pflag.IntVarP(&f.workers, "workers", "w", 4, "concurrent geocoding requests")
	pflag.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	pflag.Parse()

	if f.input == "" {
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(f); err != nil {
		slog.Error("geocode failed", "error", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("failed to load .env file", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder, err := geocoding.New(cfg, metrics, logger)
	if err != nil {
		return err
	}
	if geocoder == nil {
		logger.Warn("no geocoding API key configured, addresses will be mocked")
	}

	in, err := sheet.Open(f.input, sheet.CSVOptions{Charset: f.charset})
	if err != nil {
		return err
	}
	logger.Info("sheet loaded", "path", f.input, "rows", in.Len())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := pipeline.GeocodeSheet(ctx, in, pipeline.GeocodeOptions{
		LatColumn: f.latCol,
		LonColumn: f.lonCol,
		Geocoder:  geocoder,
		DryRun:    f.dryRun,
		Limit:     f.limit,
		Workers:   f.workers,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		if out == nil {
			return err
		}
		logger.Warn("geocoding interrupted, saving partial results", "error", err)
	}

	if saveErr := sheet.Save(f.output, out, sheet.CSVOptions{}); saveErr != nil {
		return saveErr
	}
	logger.Info("sheet written", "path", f.output, "rows", out.Len())
	if sumErr := observability.LogSummary(logger, prometheus.DefaultGatherer); sumErr != nil {
		logger.Warn("metrics summary unavailable", "error", sumErr)
	}
	return err
}
