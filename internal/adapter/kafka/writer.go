package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/equipment-health-etl/internal/config"
	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/pipeline"
)

// Message levels carried in the "level" header.
const (
	LevelArea   = "area"
	LevelSystem = "system"
)

// Snapshot is the JSON payload of one published message.
type Snapshot struct {
	SnapshotID  string        `json:"snapshot_id"`
	Level       string        `json:"level"`
	Area        string        `json:"area"`
	System      string        `json:"system,omitempty"`
	Score       domain.Score  `json:"score"`
	Status      domain.Status `json:"status"`
	Count       int           `json:"count"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Writer publishes area and system rollups to a Kafka topic.
// It implements pipeline.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot writes one message per area and one per system in a single
// WriteMessages call. Messages sharing a snapshot ID belong to the same
// computation.
func (w *Writer) PublishSnapshot(ctx context.Context, res *pipeline.Result) error {
	msgs, err := buildMessages(uuid.NewString(), res)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d snapshot messages: %w", len(msgs), err)
	}
	w.logger.Debug("snapshot written", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// buildMessages keys area messages by area name and system messages by
// "area|system" so a compacted topic keeps the latest state per entity.
func buildMessages(snapshotID string, res *pipeline.Result) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(res.Aggregates.Areas)+len(res.Aggregates.Systems))
	for _, a := range res.Aggregates.Areas {
		msg, err := serializeToMessage(a.Area, Snapshot{
			SnapshotID:  snapshotID,
			Level:       LevelArea,
			Area:        a.Area,
			Score:       a.Score,
			Status:      a.Status,
			Count:       a.Systems,
			GeneratedAt: res.GeneratedAt,
		})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	for _, s := range res.Aggregates.Systems {
		msg, err := serializeToMessage(s.Area+"|"+s.System, Snapshot{
			SnapshotID:  snapshotID,
			Level:       LevelSystem,
			Area:        s.Area,
			System:      s.System,
			Score:       s.Score,
			Status:      s.Status,
			Count:       s.Records,
			GeneratedAt: res.GeneratedAt,
		})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func serializeToMessage(key string, snap Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s snapshot %q: %w", snap.Level, key, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "level", Value: []byte(snap.Level)},
			{Key: "status", Value: []byte(snap.Status)},
			{Key: "snapshot_id", Value: []byte(snap.SnapshotID)},
			{Key: "generated_at", Value: []byte(snap.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
