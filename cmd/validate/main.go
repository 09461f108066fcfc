// Command validate checks the integrity of the address data produced by the
// batch tools and the mock fixtures: the treated sheet must agree with a fresh
// decomposition of its address column, and every fixture record must
// transform into a consistent address event.
//
// Usage:
//
//	go run ./cmd/validate \
//	  --sheet output_enderecos_tratado.xlsx \
//	  --raw-json data/mock/raw_locations.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/address-etl-service/internal/adapter/sheet"
	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/pipeline"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	sheetPath := pflag.String("sheet", "", "treated sheet (.csv or .xlsx)")
	addrCol := pflag.String("address-column", pipeline.DefaultAddressColumn, "address column of the treated sheet")
	rawJSON := pflag.String("raw-json", "", "raw location fixture")
	pflag.Parse()

	if *sheetPath == "" && *rawJSON == "" {
		pflag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*sheetPath, *addrCol, *rawJSON))
}

func run(sheetPath, addrCol, rawJSONPath string) int {
	fmt.Println("=== Address Data Integrity Validation ===")
	fmt.Println()

	var phases []*phase
	if sheetPath != "" {
		tbl, err := sheet.Open(sheetPath, sheet.CSVOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load sheet: %v\n", err)
			return 1
		}
		phases = append(phases, validateTreatedSheet(tbl, addrCol))
	}
	if rawJSONPath != "" {
		records, err := loadJSON[domain.RawLocationRecord](rawJSONPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
			return 1
		}
		phases = append(phases, validateFixture(records))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateTreatedSheet(tbl *sheet.Table, addrCol string) *phase {
	p := &phase{name: "Treated sheet decomposition"}
	err := pipeline.ValidateSheet(tbl, addrCol)
	if err == nil {
		return p
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			p.errorf("%v", e)
		}
		return p
	}
	p.errorf("%v", err)
	return p
}

func validateFixture(records []domain.RawLocationRecord) *phase {
	p := &phase{name: "Fixture records → address events"}
	logger := slog.New(slog.DiscardHandler)
	seen := map[string]string{}

	for _, rec := range records {
		if rec.ID == "" {
			p.errorf("record without id (lat=%q lon=%q)", rec.Latitude, rec.Longitude)
			continue
		}
		event := domain.BuildAddressEvent(context.Background(), rec, nil, logger)

		if prev, dup := seen[event.ID]; dup {
			p.errorf("%s: event id %s collides with %s", rec.ID, event.ID, prev)
		}
		seen[event.ID] = rec.ID

		if !strings.HasPrefix(event.ID, "addr-") {
			p.errorf("%s: unexpected event id %q", rec.ID, event.ID)
		}
		if event.RawAddress == nil {
			if rec.Address == nil {
				p.errorf("%s: no raw address resolved", rec.ID)
			}
			continue
		}
		want := domain.Decompose(*event.RawAddress).Row()
		if got := event.Address.Row(); strings.Join(got, "|") != strings.Join(want, "|") {
			p.errorf("%s: parsed %v, raw address decomposes to %v", rec.ID, got, want)
		}
		if _, sentinel := domain.ParseCoordinates(rec.Latitude, rec.Longitude); sentinel != "" && event.Coordinates != nil {
			p.errorf("%s: coordinates kept despite %q", rec.ID, sentinel)
		}
	}
	return p
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result []T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}
