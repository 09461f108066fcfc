package domain

import (
	"context"
	"time"
)

// RawLocationRecord represents the flat JSON structure published by the
// survey exporter. Coordinates stay as strings, exactly as they appear in the
// exported sheet, so that unparseable cells can be reported as sentinels.
type RawLocationRecord struct {
	ID        string `json:"id"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	// Address, when present, is a formatted address resolved upstream and is
	// decomposed as-is. Non-string JSON values are treated as sentinels.
	Address    any               `json:"address,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// AddressEvent is the enriched representation after geocoding and decomposition.
type AddressEvent struct {
	ID          string            `json:"id"`
	RecordID    string            `json:"record_id,omitempty"`
	Coordinates *Coordinates      `json:"coordinates,omitempty"`
	RawAddress  *string           `json:"raw_address"`
	Source      string            `json:"address_source"`
	Address     ParsedAddress     `json:"address"`
	Attributes  map[string]string `json:"attributes,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
