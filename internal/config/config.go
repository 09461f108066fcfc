package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Geocoder providers accepted by GEOCODER_PROVIDER.
const (
	ProviderNone   = "none"
	ProviderMapbox = "mapbox"
	ProviderGoogle = "google"
)

// googlePlaceholderKey is the value shipped in example .env files. It is
// treated as if no key were configured.
const googlePlaceholderKey = "your_api_key_here"

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Reverse geocoding configuration.
	GeocoderProvider  string
	MapboxToken       string
	GoogleMapsAPIKey  string
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int
	GeocoderRateLimit float64 // requests per second, 0 disables throttling
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	geocoderTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("GEOCODER_TIMEOUT", "5s"))
	if err != nil || geocoderTimeout <= 0 {
		return nil, errors.New("invalid GEOCODER_TIMEOUT")
	}

	rateLimit, err := parseRateLimit()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	googleKey := GoogleAPIKey()

	provider, err := resolveProvider(os.Getenv("GEOCODER_PROVIDER"), mapboxToken, googleKey)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-locations"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "parsed-addresses"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "address-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		GeocoderProvider:  provider,
		MapboxToken:       mapboxToken,
		GoogleMapsAPIKey:  googleKey,
		GeocoderTimeout:   geocoderTimeout,
		GeocoderCacheSize: parseCacheSize(),
		GeocoderRateLimit: rateLimit,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// GeocodingEnabled reports whether a real reverse geocoder is configured.
func (c *Config) GeocodingEnabled() bool {
	return c.GeocoderProvider != ProviderNone
}

// GoogleAPIKey returns GOOGLE_MAPS_API_KEY, or "" when it is unset or still
// holds the example placeholder.
func GoogleAPIKey() string {
	key := strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	if key == googlePlaceholderKey {
		return ""
	}
	return key
}

// resolveProvider validates an explicit provider choice, or picks one from
// the configured credentials. Google wins when both are present.
func resolveProvider(explicit, mapboxToken, googleKey string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "":
		switch {
		case googleKey != "":
			return ProviderGoogle, nil
		case mapboxToken != "":
			return ProviderMapbox, nil
		default:
			return ProviderNone, nil
		}
	case ProviderNone:
		return ProviderNone, nil
	case ProviderMapbox:
		if mapboxToken == "" {
			return "", errors.New("GEOCODER_PROVIDER is mapbox but MAPBOX_TOKEN is not set")
		}
		return ProviderMapbox, nil
	case ProviderGoogle:
		if googleKey == "" {
			return "", errors.New("GEOCODER_PROVIDER is google but GOOGLE_MAPS_API_KEY is not set")
		}
		return ProviderGoogle, nil
	default:
		return "", fmt.Errorf("invalid GEOCODER_PROVIDER %q: must be mapbox, google or none", explicit)
	}
}

func parseCacheSize() int {
	if s := os.Getenv("GEOCODER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parseRateLimit() (float64, error) {
	s := sharedcfg.EnvOrDefault("GEOCODER_RATE_LIMIT", "10")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, errors.New("invalid GEOCODER_RATE_LIMIT: must be a non-negative number")
	}
	return n, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment. Variables that are already set win. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
