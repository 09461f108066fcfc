// Package geocoding assembles the configured reverse geocoder from a provider
// client and the cache and rate-limit decorators shared by every provider.
package geocoding

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/address-etl-service/internal/adapter/googlemaps"
	"github.com/couchcryptid/address-etl-service/internal/adapter/mapbox"
	"github.com/couchcryptid/address-etl-service/internal/config"
	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/observability"
)

// New builds the geocoder selected by cfg.GeocoderProvider. It returns a nil
// Geocoder when geocoding is disabled; callers then record mock addresses.
//
// Decorators are stacked cache -> rate limiter -> provider so cache hits
// never wait on the limiter.
func New(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, error) {
	var inner domain.Geocoder
	switch cfg.GeocoderProvider {
	case config.ProviderMapbox:
		inner = mapbox.NewClient(cfg.MapboxToken, cfg.GeocoderTimeout, metrics, logger)
	case config.ProviderGoogle:
		client, err := googlemaps.NewClient(cfg.GoogleMapsAPIKey, cfg.GeocoderTimeout, metrics, logger)
		if err != nil {
			return nil, err
		}
		inner = client
	case config.ProviderNone, "":
		metrics.GeocodeEnabled.Set(0)
		logger.Info("reverse geocoding disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.GeocoderProvider)
	}

	if cfg.GeocoderRateLimit > 0 {
		inner = NewRateLimitedGeocoder(inner, cfg.GeocoderRateLimit, metrics)
	}

	cached, err := NewCachedGeocoder(inner, cfg.GeocoderCacheSize, metrics)
	if err != nil {
		return nil, err
	}

	metrics.GeocodeEnabled.Set(1)
	logger.Info("reverse geocoding enabled",
		"provider", cfg.GeocoderProvider,
		"cache_size", cfg.GeocoderCacheSize,
		"rate_limit", cfg.GeocoderRateLimit,
		"timeout", cfg.GeocoderTimeout,
	)
	return cached, nil
}
