package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/couchcryptid/address-etl-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	testLat = -1.4558
	testLon = -48.4902
)

func testClient(baseURL string, metrics *observability.Metrics) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		language:   defaultLanguage,
		metrics:    metrics,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_ReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/-48.490200,-1.455800.json", r.URL.Path, "mapbox expects lon,lat")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "address", r.URL.Query().Get("types"))
		assert.Equal(t, "pt", r.URL.Query().Get("language"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{
				{
					Center:    []float64{testLon, testLat},
					PlaceName: "Travessa Djalma Dutra 123, Belém - Pará, 66083-030, Brasil",
					Text:      "Travessa Djalma Dutra",
					Relevance: 0.98,
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL, metrics)
	result, err := c.ReverseGeocode(context.Background(), testLat, testLon)
	require.NoError(t, err)

	assert.Equal(t, "Travessa Djalma Dutra 123, Belém - Pará, 66083-030, Brasil", result.FormattedAddress)
	assert.Equal(t, "Travessa Djalma Dutra", result.PlaceName)
	assert.Equal(t, testLat, result.Lat)
	assert.Equal(t, testLon, result.Lon)
	assert.Equal(t, 0.98, result.Confidence)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.GeocodeRequests.WithLabelValues(provider, "success")), 0.0001)
}

func TestClient_ReverseGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL, metrics)
	result, err := c.ReverseGeocode(context.Background(), testLat, testLon)
	require.NoError(t, err)
	assert.Empty(t, result.FormattedAddress)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.GeocodeRequests.WithLabelValues(provider, "empty")), 0.0001)
}

func TestClient_ReverseGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL, metrics)
	c.token = "bad-token"

	_, err := c.ReverseGeocode(context.Background(), testLat, testLon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.GeocodeRequests.WithLabelValues(provider, "error")), 0.0001)
}

func TestClient_ReverseGeocode_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"features":`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, observability.NewMetricsForTesting())
	_, err := c.ReverseGeocode(context.Background(), testLat, testLon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_ReverseGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, observability.NewMetricsForTesting())
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := c.ReverseGeocode(context.Background(), testLat, testLon)
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(testToken, 3*time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, "pt", c.language)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
}
