package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker   = "localhost:9092"
	testMapboxToken = "pk.test-token"
	testGoogleKey   = "AIza-test-key"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-locations", cfg.KafkaSourceTopic)
	assert.Equal(t, "parsed-addresses", cfg.KafkaSinkTopic)
	assert.Equal(t, "address-etl", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, ProviderNone, cfg.GeocoderProvider)
	assert.False(t, cfg.GeocodingEnabled())
	assert.Empty(t, cfg.MapboxToken)
	assert.Empty(t, cfg.GoogleMapsAPIKey)
	assert.Equal(t, 5*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 1000, cfg.GeocoderCacheSize)
	assert.InDelta(t, 10.0, cfg.GeocoderRateLimit, 0.0001)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("GEOCODER_TIMEOUT", "10s")
	t.Setenv("GEOCODER_CACHE_SIZE", "500")
	t.Setenv("GEOCODER_RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, ProviderMapbox, cfg.GeocoderProvider)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 500, cfg.GeocoderCacheSize)
	assert.InDelta(t, 2.5, cfg.GeocoderRateLimit, 0.0001)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidGeocoderTimeout(t *testing.T) {
	t.Setenv("GEOCODER_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODER_TIMEOUT")
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("GEOCODER_RATE_LIMIT", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODER_RATE_LIMIT")
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("GEOCODER_CACHE_SIZE", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.GeocoderCacheSize)
}

func TestLoad_ProviderSelection(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		provider string
		errPart  string
	}{
		{
			name:     "google key wins over mapbox",
			env:      map[string]string{"MAPBOX_TOKEN": testMapboxToken, "GOOGLE_MAPS_API_KEY": testGoogleKey},
			provider: ProviderGoogle,
		},
		{
			name:     "placeholder google key counts as unset",
			env:      map[string]string{"GOOGLE_MAPS_API_KEY": "your_api_key_here"},
			provider: ProviderNone,
		},
		{
			name:     "explicit mapbox",
			env:      map[string]string{"GEOCODER_PROVIDER": "Mapbox", "MAPBOX_TOKEN": testMapboxToken, "GOOGLE_MAPS_API_KEY": testGoogleKey},
			provider: ProviderMapbox,
		},
		{
			name:     "explicit none disables geocoding",
			env:      map[string]string{"GEOCODER_PROVIDER": "none", "GOOGLE_MAPS_API_KEY": testGoogleKey},
			provider: ProviderNone,
		},
		{
			name:    "mapbox without token",
			env:     map[string]string{"GEOCODER_PROVIDER": "mapbox"},
			errPart: "MAPBOX_TOKEN",
		},
		{
			name:    "google with placeholder key",
			env:     map[string]string{"GEOCODER_PROVIDER": "google", "GOOGLE_MAPS_API_KEY": "your_api_key_here"},
			errPart: "GOOGLE_MAPS_API_KEY",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"GEOCODER_PROVIDER": "osm"},
			errPart: "GEOCODER_PROVIDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.errPart != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errPart)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, cfg.GeocoderProvider)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const fresh, preset = "ADDRESS_ETL_DOTENV_FRESH", "ADDRESS_ETL_DOTENV_PRESET"
	t.Cleanup(func() { os.Unsetenv(fresh) })
	t.Setenv(preset, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(fresh+"=from-file\n"+preset+"=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(fresh))
	assert.Equal(t, "from-env", os.Getenv(preset), "existing variables are not overridden")
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
