package geocoding

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/observability"
	"golang.org/x/time/rate"
)

// RateLimitedGeocoder spaces calls to the inner geocoder so that all
// goroutines sharing it stay under the provider's request quota.
type RateLimitedGeocoder struct {
	inner   domain.Geocoder
	limiter *rate.Limiter
	metrics *observability.Metrics
}

// NewRateLimitedGeocoder allows at most perSecond requests per second with a
// burst of one, matching a fixed delay between consecutive calls.
func NewRateLimitedGeocoder(inner domain.Geocoder, perSecond float64, metrics *observability.Metrics) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		metrics: metrics,
	}
}

func (r *RateLimitedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("wait for rate limiter: %w", err)
	}
	r.metrics.GeocodeThrottle.Observe(time.Since(start).Seconds())
	return r.inner.ReverseGeocode(ctx, lat, lon)
}
