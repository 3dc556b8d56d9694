//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/equipment-health-etl/internal/adapter/kafka"
	"github.com/couchcryptid/equipment-health-etl/internal/config"
	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/ingest"
	"github.com/couchcryptid/equipment-health-etl/internal/observability"
	"github.com/couchcryptid/equipment-health-etl/internal/pipeline"
)

const testSinkTopic = "test-equipment-health"

const inspections = `AREA,SYSTEM,EQUIPMENT DESCRIPTION,DATE,CONDITION MONITORING SCORE,VIBRATION,OIL ANALYSIS,TEMPERATURE,OTHER INSPECTION
AreaX,SysA,EqA,01/01/2024,3,,,,
AreaX,SysA,EqA,02/01/2024,,1,,,
AreaX,SysB,EqB,02/01/2024,,,,good,
`

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("equipment-health-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishSnapshot runs ingest, scoring and publishing against a real
// broker and reads the area and system messages back.
func TestPublishSnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSinkTopic: testSinkTopic}

	ds, _, err := ingest.Read(strings.NewReader(inspections), "inspections.csv", ingest.Options{Logger: logger})
	require.NoError(t, err)

	writer := kafkaadapter.NewWriter(cfg, logger)
	defer writer.Close()

	engine := pipeline.NewEngine(domain.DefaultVocabulary(), logger, metrics)
	res, err := engine.Publish(ctx, writer, ds, domain.Filter{})
	require.NoError(t, err)
	require.Equal(t, pipeline.StateOK, res.State)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    testSinkTopic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	defer consumer.Close()

	got := make(map[string]kafkaadapter.Snapshot)
	snapshotIDs := make(map[string]bool)
	for range 3 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from sink topic")

		var snap kafkaadapter.Snapshot
		require.NoError(t, json.Unmarshal(msg.Value, &snap))
		got[string(msg.Key)] = snap
		snapshotIDs[snap.SnapshotID] = true
	}

	require.Contains(t, got, "AreaX")
	assert.Equal(t, domain.ScoreBad, got["AreaX"].Score)
	assert.Equal(t, domain.StatusRed, got["AreaX"].Status)

	require.Contains(t, got, "AreaX|SysA")
	assert.Equal(t, domain.ScoreBad, got["AreaX|SysA"].Score)

	require.Contains(t, got, "AreaX|SysB")
	assert.Equal(t, domain.StatusGreen, got["AreaX|SysB"].Status)

	assert.Len(t, snapshotIDs, 1, "one snapshot ID per publish")
}
