package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/wildfire-dashboard-service/internal/config"
	"github.com/couchcryptid/wildfire-dashboard-service/internal/dashboard"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces dashboard snapshots to a Kafka topic.
// It implements dashboard.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one snapshot and writes it keyed by session, so every
// session's snapshots land on the same partition in order.
func (w *Writer) Publish(ctx context.Context, snap *dashboard.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot %s/%d: %w", snap.Session, snap.Seq, err)
	}
	w.logger.Debug("snapshot published", "session", snap.Session, "seq", snap.Seq, "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message. The rendered
// map is dropped; consumers rebuild it from the county statistics.
func serializeToMessage(snap *dashboard.Snapshot) (kafkago.Message, error) {
	body := *snap
	body.Map = nil
	data, err := json.Marshal(body)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Session),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "trigger", Value: []byte(snap.Trigger)},
			{Key: "seq", Value: []byte(strconv.FormatUint(snap.Seq, 10))},
			{Key: "computed_at", Value: []byte(snap.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
