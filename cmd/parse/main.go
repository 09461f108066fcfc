// Command parse decomposes the Endereço_Google column of a geocoded sheet
// into Logradouro, Número, Bairro, Município, Estado, CEP and País columns.
//
// Usage:
//
//	go run ./cmd/parse -i output_enderecos.xlsx -o output_enderecos_tratado.xlsx
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/address-etl-service/internal/adapter/sheet"
	"github.com/couchcryptid/address-etl-service/internal/config"
	"github.com/couchcryptid/address-etl-service/internal/observability"
	"github.com/couchcryptid/address-etl-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

func main() {
	var (
		input, output, addrCol, charset string
		keep                            []int
		workers                         int
		verbose                         bool
	)
	pflag.StringVarP(&input, "input", "i", "output_enderecos.xlsx", "geocoded sheet to read (.csv or .xlsx)")
	pflag.StringVarP(&output, "output", "o", "output_enderecos_tratado.xlsx", "treated sheet to write (.csv or .xlsx)")
	pflag.StringVar(&addrCol, "address-column", pipeline.DefaultAddressColumn, "address column; falls back to the last column")
	pflag.StringVar(&charset, "charset", "", "charset of CSV input, e.g. windows-1252 (default utf-8)")
	pflag.IntSliceVar(&keep, "keep", pipeline.DefaultKeepColumns, "zero-based indexes of passthrough columns")
	pflag.IntVarP(&workers, "workers", "w", 0, "parallel workers (default GOMAXPROCS)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) logging")
	pflag.Parse()

	if err := run(input, output, charset, pipeline.ParseOptions{
		KeepColumns:   keep,
		AddressColumn: addrCol,
		Workers:       workers,
	}, verbose); err != nil {
		slog.Error("parse failed", "error", err)
		os.Exit(1)
	}
}

func run(input, output, charset string, opts pipeline.ParseOptions, verbose bool) error {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("failed to load .env file", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	opts.Logger = observability.NewLogger(cfg)
	opts.Metrics = observability.NewMetrics()

	in, err := sheet.Open(input, sheet.CSVOptions{Charset: charset})
	if err != nil {
		return err
	}
	opts.Logger.Info("sheet loaded", "path", input, "rows", in.Len())

	out, err := pipeline.ParseSheet(context.Background(), in, opts)
	if err != nil {
		return err
	}
	if err := sheet.Save(output, out, sheet.CSVOptions{}); err != nil {
		return err
	}
	opts.Logger.Info("treated sheet written", "path", output, "rows", out.Len())
	if err := observability.LogSummary(opts.Logger, prometheus.DefaultGatherer); err != nil {
		opts.Logger.Warn("metrics summary unavailable", "error", err)
	}
	return nil
}
