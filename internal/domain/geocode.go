package domain

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Placeholder strings written in place of an address when none could be
// produced. Downstream sheets store them verbatim in the address column.
const (
	SentinelNoAddress          = "No address found"
	SentinelNoResults          = "No results"
	SentinelAPIKeyError        = "API_KEY_ERROR"
	SentinelMockAddress        = "Mock Address (No API Key)"
	SentinelInvalidCoordinates = "Invalid Coordinates"
	SentinelEmptyCoordinates   = "Empty/Zero Coordinates"
	SentinelDryRunSkipped      = "DRY_RUN_SKIPPED"
	SentinelSkipped            = "Skipped"

	sentinelErrorPrefix = "Error"
	sentinelMockMarker  = "Mock Address"
)

// Resolution sources recorded on every AddressEvent.
const (
	SourceInput   = "input"   // address supplied by the upstream record
	SourceReverse = "reverse" // address returned by the geocoder
	SourceEmpty   = "empty"   // geocoder answered with no result
	SourceFailed  = "failed"  // geocoder returned an error
	SourceMock    = "mock"    // no geocoder configured
	SourceInvalid = "invalid" // coordinates missing or unparseable
)

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Resolution is the raw address produced for one location and where it came from.
type Resolution struct {
	Address string
	Source  string
}

// ParseCoordinates parses spreadsheet-style coordinate cells. When the pair is
// unusable it returns the sentinel to record instead of an address.
func ParseCoordinates(lat, lon string) (Coordinates, string) {
	lat = strings.TrimSpace(lat)
	lon = strings.TrimSpace(lon)
	if lat == "" || lon == "" {
		return Coordinates{}, SentinelEmptyCoordinates
	}

	la, errLat := strconv.ParseFloat(lat, 64)
	lo, errLon := strconv.ParseFloat(lon, 64)
	if errLat != nil || errLon != nil {
		return Coordinates{}, SentinelInvalidCoordinates
	}
	if math.IsNaN(la) || math.IsNaN(lo) || (la == 0 && lo == 0) {
		return Coordinates{}, SentinelEmptyCoordinates
	}
	return Coordinates{Lat: la, Lon: lo}, ""
}

// ResolveAddress reverse geocodes coords into a raw address string.
// Failures never propagate: they are folded into sentinel strings so every
// location yields exactly one address cell (graceful degradation).
func ResolveAddress(ctx context.Context, coords Coordinates, geocoder Geocoder, logger *slog.Logger) Resolution {
	if geocoder == nil {
		return Resolution{Address: SentinelMockAddress, Source: SourceMock}
	}

	result, err := geocoder.ReverseGeocode(ctx, coords.Lat, coords.Lon)
	if errors.Is(err, ErrUnauthorized) {
		logger.Error("geocoder rejected credentials", "error", err)
		return Resolution{Address: SentinelAPIKeyError, Source: SourceFailed}
	}
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", coords.Lat,
			"lon", coords.Lon,
			"error", err,
		)
		return Resolution{Address: sentinelErrorPrefix + ": " + err.Error(), Source: SourceFailed}
	}
	if strings.TrimSpace(result.FormattedAddress) == "" {
		return Resolution{Address: SentinelNoResults, Source: SourceEmpty}
	}
	return Resolution{Address: result.FormattedAddress, Source: SourceReverse}
}
