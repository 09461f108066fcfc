package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// ParseRawEvent deserializes a RawEvent's value into a RawLocationRecord.
func ParseRawEvent(raw RawEvent) (RawLocationRecord, error) {
	var rec RawLocationRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return RawLocationRecord{}, fmt.Errorf("parse raw event: %w", err)
	}
	if rec.ID == "" {
		rec.ID = string(raw.Key)
	}
	return rec, nil
}

// BuildAddressEvent resolves the record's raw address and decomposes it.
// An address carried by the record wins over geocoding; otherwise the
// coordinates are reverse geocoded (or replaced by a sentinel when unusable).
func BuildAddressEvent(ctx context.Context, rec RawLocationRecord, geocoder Geocoder, logger *slog.Logger) AddressEvent {
	event := AddressEvent{
		RecordID:   rec.ID,
		Attributes: rec.Attributes,
	}

	coords, coordSentinel := ParseCoordinates(rec.Latitude, rec.Longitude)
	if coordSentinel == "" {
		event.Coordinates = &coords
	}

	switch {
	case rec.Address != nil:
		event.Source = SourceInput
		if s, ok := rec.Address.(string); ok {
			event.RawAddress = &s
		}
		event.Address = DecomposeValue(rec.Address)
	case coordSentinel != "":
		event.Source = SourceInvalid
		event.RawAddress = &coordSentinel
		event.Address = Decompose(coordSentinel)
	default:
		res := ResolveAddress(ctx, coords, geocoder, logger)
		event.Source = res.Source
		event.RawAddress = &res.Address
		event.Address = Decompose(res.Address)
	}

	event.ID = generateID(rec.ID, event.Coordinates, event.RawAddress)
	event.ProcessedAt = clock.Now()
	return event
}

// SerializeAddressEvent marshals an AddressEvent into an OutputEvent keyed by
// the event ID.
func SerializeAddressEvent(event AddressEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize address event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			"address_source": event.Source,
			"processed_at":   event.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// FieldCoverage partitions the address fields into recovered and missing,
// both in column order.
func FieldCoverage(a ParsedAddress) (present, missing []Field) {
	for _, f := range Fields {
		if a.Get(f) != nil {
			present = append(present, f)
		} else {
			missing = append(missing, f)
		}
	}
	return present, missing
}

// generateID produces a deterministic ID from the record's key fields so that
// replaying the same record yields the same ID downstream.
func generateID(recordID string, coords *Coordinates, rawAddress *string) string {
	var lat, lon float64
	if coords != nil {
		lat, lon = coords.Lat, coords.Lon
	}
	var addr string
	if rawAddress != nil {
		addr = *rawAddress
	}
	input := fmt.Sprintf("%s|%.6f|%.6f|%s", recordID, lat, lon, addr)
	hash := sha256.Sum256([]byte(input))
	return "addr-" + hex.EncodeToString(hash[:8])
}
