package roadgraph

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	g, _ := newTestGraph(t, func(b Builder) Builder { return b.Metrics(m) })

	mustEdge(t, g, 0, 1)
	mustEdge(t, g, 1, 2)
	_, err := g.Edge(2, 2)
	require.ErrorIs(t, err, ErrSelfLoop)
	require.NoError(t, g.Flush())

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats.EdgeCount)
	assert.Equal(t, int64(1), stats.EdgeErrors)
	assert.Equal(t, int64(1), stats.FlushCount)
	assert.Zero(t, stats.FlushErrors)
	assert.Zero(t, stats.SnapshotCount)
}

func TestBasicMetricsCollector_Record(t *testing.T) {
	m := &BasicMetricsCollector{}
	boom := errors.New("boom")

	m.RecordEdge(2*time.Millisecond, nil)
	m.RecordEdge(4*time.Millisecond, nil)
	m.RecordSnapshot(100, time.Second, nil)
	m.RecordSnapshot(50, time.Second, boom)
	m.RecordValidate(3, time.Second, nil)
	m.RecordValidate(0, time.Second, boom)

	stats := m.GetStats()
	assert.Equal(t, int64(3*time.Millisecond), stats.EdgeAvgNanos)
	assert.Zero(t, stats.FlushAvgNanos)
	assert.Equal(t, int64(2), stats.SnapshotCount)
	assert.Equal(t, int64(1), stats.SnapshotErrors)
	assert.Equal(t, int64(100), stats.SnapshotBytes)
	assert.Equal(t, int64(2), stats.ValidateCount)
	assert.Equal(t, int64(1), stats.ValidateErrors)
	assert.Equal(t, int64(3), stats.ValidateProblems)
}

func TestNoopMetricsCollector(t *testing.T) {
	var m MetricsCollector = NoopMetricsCollector{}
	m.RecordEdge(time.Second, nil)
	m.RecordRestore(time.Second, errors.New("boom"))
}
