// Command genmock turns a survey export into the JSON fixtures used by the
// pipeline and integration test suites. Addresses are taken from the sheet's
// address column when present; the transformed fixture is produced by the
// real domain package without a geocoder.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  --sheet output_enderecos.xlsx \
//	  --raw-out data/mock/raw_locations.json \
//	  --events-out data/mock/address_events.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/address-etl-service/internal/adapter/sheet"
	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	sheetPath := pflag.String("sheet", "", "survey export (.csv or .xlsx)")
	rawOut := pflag.String("raw-out", "", "output path for the raw location fixture")
	eventsOut := pflag.String("events-out", "", "output path for the transformed address event fixture (optional)")
	attrs := pflag.StringSlice("attr", []string{"nome"}, "columns copied into record attributes")
	limit := pflag.Int("limit", 0, "maximum records to emit (0 = all)")
	pflag.Parse()

	if *sheetPath == "" || *rawOut == "" {
		pflag.Usage()
		return fmt.Errorf("missing required flags: --sheet, --raw-out")
	}

	tbl, err := sheet.Open(*sheetPath, sheet.CSVOptions{})
	if err != nil {
		return err
	}

	records, err := recordsFromSheet(tbl, *attrs, *limit)
	if err != nil {
		return err
	}
	log.Printf("records: %d", len(records))

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if *eventsOut == "" {
		return nil
	}

	// Fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.November, 26, 17, 29, 38, 0, time.UTC)))
	defer domain.SetClock(nil)

	logger := slog.New(slog.DiscardHandler)
	events := make([]domain.AddressEvent, 0, len(records))
	for _, rec := range records {
		events = append(events, domain.BuildAddressEvent(context.Background(), rec, nil, logger))
	}
	if err := writeJSON(*eventsOut, events); err != nil {
		return fmt.Errorf("writing events fixture: %w", err)
	}
	log.Printf("wrote events fixture: %s", *eventsOut)

	printStats(events)
	return nil
}

func recordsFromSheet(tbl *sheet.Table, attrCols []string, limit int) ([]domain.RawLocationRecord, error) {
	latIdx, lonIdx := tbl.Index(pipeline.DefaultLatColumn), tbl.Index(pipeline.DefaultLonColumn)
	if latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("sheet needs %q and %q columns", pipeline.DefaultLatColumn, pipeline.DefaultLonColumn)
	}
	addrIdx := tbl.Index(pipeline.DefaultAddressColumn)

	n := tbl.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	records := make([]domain.RawLocationRecord, 0, n)
	for i, row := range tbl.Rows[:n] {
		rec := domain.RawLocationRecord{
			ID:        fmt.Sprintf("loc-%03d", i+1),
			Latitude:  row[latIdx],
			Longitude: row[lonIdx],
		}
		if addrIdx >= 0 && row[addrIdx] != "" {
			rec.Address = row[addrIdx]
		}
		for _, col := range attrCols {
			idx := tbl.Index(col)
			if idx < 0 || row[idx] == "" {
				continue
			}
			if rec.Attributes == nil {
				rec.Attributes = map[string]string{}
			}
			rec.Attributes[col] = row[idx]
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type kv struct {
	key   string
	count int
}

func printStats(events []domain.AddressEvent) {
	sources := map[string]int{}
	present := map[domain.Field]int{}
	for i := range events {
		sources[events[i].Source]++
		p, _ := domain.FieldCoverage(events[i].Address)
		for _, f := range p {
			present[f]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(events))

	sorted := make([]kv, 0, len(sources))
	for k, c := range sources {
		sorted = append(sorted, kv{k, c})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].count > sorted[j].count })
	fmt.Print("By source:")
	for _, s := range sorted {
		fmt.Printf(" %s=%d", s.key, s.count)
	}
	fmt.Println()

	fmt.Print("Fields present:")
	for _, f := range domain.Fields {
		fmt.Printf(" %s=%d", f, present[f])
	}
	fmt.Println()
}
