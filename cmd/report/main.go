// Command report renders the treated sheet and a markdown narrative into a
// single HTML page.
//
// Usage:
//
//	go run ./cmd/report -m Relatorio.md -i output_enderecos_tratado.xlsx -o index.html
package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/address-etl-service/internal/adapter/sheet"
	"github.com/couchcryptid/address-etl-service/internal/config"
	"github.com/couchcryptid/address-etl-service/internal/observability"
	"github.com/couchcryptid/address-etl-service/internal/report"
	"github.com/spf13/pflag"
)

func main() {
	var (
		mdPath, input, output string
		opts                  report.Options
	)
	pflag.StringVarP(&mdPath, "markdown", "m", "Relatorio_Projeto.md", "markdown narrative")
	pflag.StringVarP(&input, "input", "i", "output_enderecos_tratado.xlsx", "treated sheet (.csv or .xlsx)")
	pflag.StringVarP(&output, "output", "o", "index.html", "HTML file to write")
	pflag.StringVar(&opts.Title, "title", "", "page title")
	pflag.StringVar(&opts.Footer, "footer", "", "footer text")
	pflag.IntVar(&opts.TopN, "top", 10, "entries in the municipality and neighborhood rankings")
	pflag.Parse()

	logger := observability.NewLogger(&config.Config{LogLevel: "info", LogFormat: "text"})

	if err := run(mdPath, input, output, opts); err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}
	logger.Info("report generated", "path", output)
}

func run(mdPath, input, output string, opts report.Options) error {
	narrative, err := report.LoadNarrative(mdPath)
	if err != nil {
		return err
	}
	tbl, err := sheet.Open(input, sheet.CSVOptions{})
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := report.Render(f, narrative, tbl, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
