package kafka

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/address-etl-service/internal/config"
	"github.com/couchcryptid/address-etl-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("loc-0001"),
		Value:     []byte(`{"id":"loc-0001","latitude":"-1.4558","longitude":"-48.4902"}`),
		Topic:     "raw-locations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("kobo")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("loc-0001"), raw.Key)
	assert.JSONEq(t, `{"id":"loc-0001","latitude":"-1.4558","longitude":"-48.4902"}`, string(raw.Value))
	assert.Equal(t, "raw-locations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "kobo", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestToMessage(t *testing.T) {
	processed := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	raw := "Rua Sem Número, Ananindeua"
	event, err := domain.SerializeAddressEvent(domain.AddressEvent{
		ID:          "addr-1",
		RawAddress:  &raw,
		Source:      domain.SourceReverse,
		Address:     domain.Decompose(raw),
		ProcessedAt: processed,
	})
	require.NoError(t, err)

	msg := toMessage(event)

	assert.Equal(t, []byte("addr-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"Município":"Ananindeua"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "address_source", msg.Headers[0].Key)
	assert.Equal(t, []byte("reverse"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(processed.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestToMessage_NoHeaders(t *testing.T) {
	msg := toMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("{}")})
	assert.Empty(t, msg.Headers)
}

func TestNewReaderWriter_UseConfig(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:       []string{"localhost:9092"},
		KafkaSourceTopic:   "raw-locations",
		KafkaSinkTopic:     "parsed-addresses",
		KafkaGroupID:       "address-etl",
		BatchFlushInterval: 250 * time.Millisecond,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewReader(cfg, logger)
	t.Cleanup(func() { _ = r.Close() })
	assert.Equal(t, "raw-locations", r.reader.Config().Topic)
	assert.Equal(t, "address-etl", r.reader.Config().GroupID)
	assert.Equal(t, 250*time.Millisecond, r.flushInterval)

	w := NewWriter(cfg, logger)
	t.Cleanup(func() { _ = w.Close() })
	assert.Equal(t, "parsed-addresses", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
}
