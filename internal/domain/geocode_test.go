package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat      string
		lon      string
		coords   Coordinates
		sentinel string
	}{
		{"valid", "-1.4558", "-48.4902", Coordinates{Lat: -1.4558, Lon: -48.4902}, ""},
		{"padded", " -1.4558 ", "\t-48.4902", Coordinates{Lat: -1.4558, Lon: -48.4902}, ""},
		{"zero lat only is valid", "0", "-48.49", Coordinates{Lat: 0, Lon: -48.49}, ""},
		{"both zero", "0", "0.0", Coordinates{}, SentinelEmptyCoordinates},
		{"empty lat", "", "-48.49", Coordinates{}, SentinelEmptyCoordinates},
		{"empty lon", "-1.45", "  ", Coordinates{}, SentinelEmptyCoordinates},
		{"NaN", "NaN", "-48.49", Coordinates{}, SentinelEmptyCoordinates},
		{"comma decimal", "-1,4558", "-48,4902", Coordinates{}, SentinelInvalidCoordinates},
		{"text", "north", "west", Coordinates{}, SentinelInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, sentinel := ParseCoordinates(tt.lat, tt.lon)
			assert.Equal(t, tt.coords, coords)
			assert.Equal(t, tt.sentinel, sentinel)
		})
	}
}

func TestResolveAddress_NilGeocoder(t *testing.T) {
	res := ResolveAddress(context.Background(), Coordinates{Lat: -1.45, Lon: -48.49}, nil, discardLogger())

	assert.Equal(t, SentinelMockAddress, res.Address)
	assert.Equal(t, SourceMock, res.Source)
	assert.True(t, Decompose(res.Address).IsEmpty())
}

func TestResolveAddress_Success(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{FormattedAddress: testFullAddress}}

	res := ResolveAddress(context.Background(), Coordinates{Lat: -1.45, Lon: -48.49}, geo, discardLogger())

	assert.Equal(t, testFullAddress, res.Address)
	assert.Equal(t, SourceReverse, res.Source)
	assert.Equal(t, 1, geo.calls)
}

func TestResolveAddress_Error(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("OVER_QUERY_LIMIT")}

	res := ResolveAddress(context.Background(), Coordinates{Lat: -1.45, Lon: -48.49}, geo, discardLogger())

	assert.Equal(t, "Error: OVER_QUERY_LIMIT", res.Address)
	assert.Equal(t, SourceFailed, res.Source)
	assert.True(t, Decompose(res.Address).IsEmpty())
}

func TestResolveAddress_RejectedCredentials(t *testing.T) {
	geo := &mockGeocoder{err: fmt.Errorf("mapbox API error: status 401: %w", ErrUnauthorized)}

	res := ResolveAddress(context.Background(), Coordinates{Lat: -1.45, Lon: -48.49}, geo, discardLogger())

	assert.Equal(t, SentinelAPIKeyError, res.Address)
	assert.Equal(t, SourceFailed, res.Source)
}

func TestResolveAddress_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{FormattedAddress: "  "}}

	res := ResolveAddress(context.Background(), Coordinates{Lat: -1.45, Lon: -48.49}, geo, discardLogger())

	assert.Equal(t, SentinelNoResults, res.Address)
	assert.Equal(t, SourceEmpty, res.Source)
}
