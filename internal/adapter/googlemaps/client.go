// Package googlemaps implements domain.Geocoder on top of the Google Maps
// Geocoding API.
package googlemaps

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/observability"
	"googlemaps.github.io/maps"
)

const provider = "google"

// Client implements domain.Geocoder using the Google Maps reverse geocoding API.
type Client struct {
	maps    *maps.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a Google Maps reverse geocoding client. Extra options
// are applied after the defaults, e.g. maps.WithBaseURL in tests.
//
// The SDK's own limiter is disabled; throttling is left to the caller's
// decorators so that it is shared across providers.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, opts ...maps.ClientOption) (*Client, error) {
	options := append([]maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
		maps.WithRateLimit(0),
	}, opts...)

	mc, err := maps.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("create google maps client: %w", err)
	}
	return &Client{maps: mc, metrics: metrics, logger: logger}, nil
}

// ReverseGeocode returns the first result's formatted address. A
// ZERO_RESULTS answer yields an empty result and no error.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	start := time.Now()
	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	})
	c.metrics.GeocodeAPIDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
		c.logger.Debug("google reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		if strings.Contains(err.Error(), "REQUEST_DENIED") {
			return domain.GeocodingResult{}, fmt.Errorf("google reverse geocode: %w: %w", err, domain.ErrUnauthorized)
		}
		return domain.GeocodingResult{}, fmt.Errorf("google reverse geocode: %w", err)
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		c.metrics.GeocodeRequests.WithLabelValues(provider, "empty").Inc()
		return domain.GeocodingResult{}, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues(provider, "success").Inc()

	r := results[0]
	result := domain.GeocodingResult{
		Lat:              r.Geometry.Location.Lat,
		Lon:              r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
		Confidence:       confidence(r),
	}
	if len(r.AddressComponents) > 0 {
		result.PlaceName = r.AddressComponents[0].LongName
	}
	return result, nil
}

// confidence maps Google's location_type onto the 0..1 scale Mapbox reports
// as relevance.
func confidence(r maps.GeocodingResult) float64 {
	var c float64
	switch r.Geometry.LocationType {
	case "ROOFTOP":
		c = 1.0
	case "RANGE_INTERPOLATED":
		c = 0.8
	case "GEOMETRIC_CENTER":
		c = 0.6
	case "APPROXIMATE":
		c = 0.4
	}
	if r.PartialMatch {
		c /= 2
	}
	return c
}
