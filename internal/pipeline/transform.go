package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/observability"
)

// AddressTransformer resolves and decomposes the address of each raw
// location event.
type AddressTransformer struct {
	geocoder domain.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates an AddressTransformer. A nil geocoder disables
// reverse geocoding; locations without an address then get the mock sentinel.
func NewTransformer(geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *AddressTransformer {
	return &AddressTransformer{
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}
}

func (t *AddressTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	event := domain.BuildAddressEvent(ctx, rec, t.geocoder, t.logger)
	t.observe(event)

	return domain.SerializeAddressEvent(event)
}

func (t *AddressTransformer) observe(event domain.AddressEvent) {
	t.metrics.AddressSources.WithLabelValues(event.Source).Inc()
	if event.RawAddress == nil || domain.IsUnparseable(*event.RawAddress) {
		t.metrics.UnparseableAddresses.Inc()
	}
	recordCoverage(t.metrics, event.Address)
}

func recordCoverage(m *observability.Metrics, a domain.ParsedAddress) {
	present, missing := domain.FieldCoverage(a)
	for _, f := range present {
		m.AddressFields.WithLabelValues(f.String(), "present").Inc()
	}
	for _, f := range missing {
		m.AddressFields.WithLabelValues(f.String(), "missing").Inc()
	}
}
