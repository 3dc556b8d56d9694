package observability

import (
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveIngest(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveIngest(42, map[string]int{"invalid_date": 3, "missing_key": 1})

	assert.InDelta(t, 42, testutil.ToFloat64(m.RecordsIngested), 0)
	assert.InDelta(t, 42, testutil.ToFloat64(m.DatasetRecords), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.RowsDropped.WithLabelValues("invalid_date")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RowsDropped.WithLabelValues("missing_key")), 0)
}

func TestNewUnregisteredMetrics_Independent(t *testing.T) {
	a := NewUnregisteredMetrics()
	b := NewUnregisteredMetrics()

	a.Recomputations.Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(a.Recomputations), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Recomputations), 0)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}
