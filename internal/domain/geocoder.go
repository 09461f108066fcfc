package domain

import (
	"context"
	"errors"
)

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// ErrUnauthorized is wrapped by geocoders when the provider rejects the
// configured credentials.
var ErrUnauthorized = errors.New("geocoder credentials rejected")

// Geocoder resolves coordinates into a single-line formatted address.
type Geocoder interface {
	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
