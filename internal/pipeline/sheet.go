package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/couchcryptid/address-etl-service/internal/adapter/sheet"
	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/observability"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Default column names of the survey export and the treated sheet.
const (
	DefaultLatColumn     = "_Localização_latitude"
	DefaultLonColumn     = "_Localização_longitude"
	DefaultAddressColumn = "Endereço_Google"

	dryRunLimit          = 5
	defaultGeocodeWorker = 4
)

// DefaultKeepColumns are the passthrough columns (N, O, P) copied into the
// treated sheet ahead of the address.
var DefaultKeepColumns = []int{13, 14, 15}

// GeocodeOptions configures GeocodeSheet.
type GeocodeOptions struct {
	LatColumn string
	LonColumn string
	// Geocoder may be nil only in dry-run mode; rows then receive the mock
	// sentinel.
	Geocoder domain.Geocoder
	DryRun   bool
	// Limit caps the rows sent to the geocoder. Zero means all rows, or five
	// in dry-run mode. Rows past the limit are marked DRY_RUN_SKIPPED in
	// dry-run mode and Skipped otherwise.
	Limit   int
	Workers int
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// GeocodeSheet reverse geocodes every row of a survey export and returns a
// copy of the table with the address column appended. Rows keep their input
// order regardless of the worker count. When ctx ends early the partial table
// is returned along with the error, unprocessed and interrupted rows marked
// Skipped.
func GeocodeSheet(ctx context.Context, in *sheet.Table, opts GeocodeOptions) (*sheet.Table, error) {
	opts = opts.withDefaults()

	latIdx, lonIdx := in.Index(opts.LatColumn), in.Index(opts.LonColumn)
	if latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("latitude/longitude columns %q, %q not found (available: %s)",
			opts.LatColumn, opts.LonColumn, strings.Join(in.Header, ", "))
	}
	if opts.Geocoder == nil && !opts.DryRun {
		return nil, errors.New("no geocoder configured: set GOOGLE_MAPS_API_KEY or MAPBOX_TOKEN, or run in dry-run mode")
	}

	limit := opts.Limit
	if limit <= 0 || limit > in.Len() {
		limit = in.Len()
	}
	opts.Logger.Info("geocoding sheet",
		"rows", in.Len(),
		"limit", limit,
		"dry_run", opts.DryRun,
		"workers", opts.Workers,
	)

	pastLimit := domain.SentinelSkipped
	if opts.DryRun {
		pastLimit = domain.SentinelDryRunSkipped
	}
	addresses := make([]string, in.Len())
	for i := range addresses {
		if i < limit {
			addresses[i] = domain.SentinelSkipped
			continue
		}
		addresses[i] = pastLimit
		opts.countRow("geocode", "skipped")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range limit {
		row := in.Rows[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			addresses[i] = opts.geocodeRow(gctx, i, cellAt(row, latIdx), cellAt(row, lonIdx))
			return nil
		})
	}
	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}

	out := cloneTable(in)
	if err := out.AppendColumn(DefaultAddressColumn, addresses); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return out, fmt.Errorf("geocode sheet: %w", waitErr)
	}
	return out, nil
}

func (o GeocodeOptions) withDefaults() GeocodeOptions {
	if o.LatColumn == "" {
		o.LatColumn = DefaultLatColumn
	}
	if o.LonColumn == "" {
		o.LonColumn = DefaultLonColumn
	}
	if o.DryRun && o.Limit <= 0 {
		o.Limit = dryRunLimit
	}
	if o.Workers <= 0 {
		o.Workers = defaultGeocodeWorker
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o GeocodeOptions) geocodeRow(ctx context.Context, i int, lat, lon string) string {
	coords, sentinel := domain.ParseCoordinates(lat, lon)
	if sentinel != "" {
		o.countRow("geocode", "sentinel")
		return sentinel
	}

	o.Logger.Debug("geocoding row", "row", i+1, "lat", coords.Lat, "lon", coords.Lon)
	res := domain.ResolveAddress(ctx, coords, o.Geocoder, o.Logger)
	if ctx.Err() != nil {
		// Interrupted mid-request; the row was never resolved.
		o.countRow("geocode", "skipped")
		return domain.SentinelSkipped
	}
	if res.Source == domain.SourceReverse {
		o.countRow("geocode", "ok")
	} else {
		o.countRow("geocode", "sentinel")
	}
	return res.Address
}

func (o GeocodeOptions) countRow(job, outcome string) {
	if o.Metrics != nil {
		o.Metrics.SheetRows.WithLabelValues(job, outcome).Inc()
	}
}

// ParseOptions configures ParseSheet.
type ParseOptions struct {
	// KeepColumns are zero-based indexes copied ahead of the address column.
	// Nil selects DefaultKeepColumns; an empty slice keeps none.
	KeepColumns   []int
	AddressColumn string
	Workers       int
	Logger        *slog.Logger
	Metrics       *observability.Metrics
}

// ParseSheet builds the treated sheet: the passthrough columns, the address
// column and one column per decomposed field. Unknown fields become empty
// cells.
func ParseSheet(ctx context.Context, in *sheet.Table, opts ParseOptions) (*sheet.Table, error) {
	opts = opts.withDefaults()

	if len(opts.KeepColumns) > 0 && len(in.Header) <= slices.Max(opts.KeepColumns) {
		return nil, fmt.Errorf("sheet has %d columns, need more than %d for passthrough columns %v",
			len(in.Header), slices.Max(opts.KeepColumns), opts.KeepColumns)
	}
	if len(in.Header) == 0 {
		return nil, errors.New("sheet has no columns")
	}

	addrIdx := in.Index(opts.AddressColumn)
	if addrIdx < 0 {
		addrIdx = len(in.Header) - 1
		opts.Logger.Warn("address column not found, using last column",
			"wanted", opts.AddressColumn,
			"using", in.Header[addrIdx],
		)
	}

	header := make([]string, 0, len(opts.KeepColumns)+1+len(domain.Fields))
	for _, idx := range opts.KeepColumns {
		header = append(header, in.Header[idx])
	}
	header = append(header, in.Header[addrIdx])
	header = append(header, domain.Labels()...)

	rows := make([][]string, in.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, src := range in.Rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = opts.parseRow(src, addrIdx, cap(header))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}

	opts.Logger.Info("sheet parsed", "rows", len(rows), "address_column", in.Header[addrIdx])
	return &sheet.Table{Header: header, Rows: rows}, nil
}

func (o ParseOptions) withDefaults() ParseOptions {
	if o.KeepColumns == nil {
		o.KeepColumns = DefaultKeepColumns
	}
	if o.AddressColumn == "" {
		o.AddressColumn = DefaultAddressColumn
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o ParseOptions) parseRow(src []string, addrIdx, width int) []string {
	row := make([]string, 0, width)
	for _, idx := range o.KeepColumns {
		row = append(row, cellAt(src, idx))
	}
	raw := cellAt(src, addrIdx)
	row = append(row, raw)

	parsed := domain.Decompose(raw)
	if o.Metrics != nil {
		outcome := "ok"
		if domain.IsUnparseable(raw) {
			outcome = "sentinel"
			o.Metrics.UnparseableAddresses.Inc()
		}
		o.Metrics.SheetRows.WithLabelValues("parse", outcome).Inc()
		recordCoverage(o.Metrics, parsed)
	}
	return append(row, parsed.Row()...)
}

// ValidateSheet checks a treated sheet: every field column must be present
// and each row's fields must match a fresh decomposition of its address.
// Surrounding whitespace in a cell is ignored. All mismatches are reported
// together.
func ValidateSheet(t *sheet.Table, addressColumn string) error {
	if addressColumn == "" {
		addressColumn = DefaultAddressColumn
	}
	addrIdx := t.Index(addressColumn)
	if addrIdx < 0 {
		return fmt.Errorf("address column %q not found (available: %s)", addressColumn, strings.Join(t.Header, ", "))
	}

	fieldIdx := make([]int, len(domain.Fields))
	var result *multierror.Error
	for i, f := range domain.Fields {
		fieldIdx[i] = t.Index(f.Label())
		if fieldIdx[i] < 0 {
			result = multierror.Append(result, fmt.Errorf("missing column %q", f.Label()))
		}
	}
	if result != nil {
		return result.ErrorOrNil()
	}

	cells := make([]string, len(fieldIdx))
	for r, row := range t.Rows {
		for i, idx := range fieldIdx {
			cells[i] = cellAt(row, idx)
		}
		got := domain.ParsedAddressFromRow(cells).Row()
		want := domain.Decompose(cellAt(row, addrIdx)).Row()
		for i, f := range domain.Fields {
			if got[i] != want[i] {
				// Header is row 1.
				result = multierror.Append(result,
					fmt.Errorf("row %d: %s is %q, expected %q", r+2, f.Label(), got[i], want[i]))
			}
		}
	}
	return result.ErrorOrNil()
}

func cloneTable(t *sheet.Table) *sheet.Table {
	out := &sheet.Table{
		Header: slices.Clone(t.Header),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
