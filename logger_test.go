package roadgraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/roadgraph/resource"
	"github.com/hupe1980/roadgraph/storage"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	g, _ := newTestGraph(t, func(b Builder) Builder { return b.Logger(newBufferLogger(&buf)) })
	mustEdge(t, g, 0, 1)
	require.NoError(t, g.Flush())
	_, err := Validate(t.Context(), g, 1)
	require.NoError(t, err)

	// storage debug lines are interleaved
	var graphLines []map[string]any
	for _, l := range logLines(t, &buf) {
		switch l["msg"] {
		case "graph created", "flush completed", "validation passed":
			assert.Contains(t, l, "graph")
			graphLines = append(graphLines, l)
		}
	}
	require.Len(t, graphLines, 3)
	assert.Equal(t, "graph created", graphLines[0]["msg"])
	assert.Equal(t, "flush completed", graphLines[1]["msg"])
	assert.EqualValues(t, 2, graphLines[1]["nodes"])
	assert.Equal(t, "validation passed", graphLines[2]["msg"])
}

func TestLogger_Rejections(t *testing.T) {
	var buf bytes.Buffer
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16 * 128})
	dir := storage.NewRAMDirectory("", false, storage.WithResourceController(rc))
	t.Cleanup(func() { _ = dir.Close() })

	g, _ := newTestGraph(t, func(b Builder) Builder {
		return b.Dir(dir).SegmentSize(128).Logger(newBufferLogger(&buf))
	})

	var err error
	for i := 0; err == nil; i++ {
		_, err = g.Edge(i, i+1)
	}
	require.ErrorIs(t, err, ErrCapacity)

	var rejected map[string]any
	for _, l := range logLines(t, &buf) {
		if l["msg"] == "edge rejected" {
			rejected = l
		}
	}
	require.NotNil(t, rejected)
	assert.Equal(t, "WARN", rejected["level"])
	assert.Contains(t, rejected, "node")
	assert.Contains(t, rejected, "error")
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	l.LogCreate(t.Context(), 10, nil)
	l.LogSnapshot(t.Context(), "v1", 42, nil)
	l.LogRestore(t.Context(), "v1", 0, 0, errors.New("boom"))
	l.LogValidate(t.Context(), 3, nil)

	lines := logLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "snapshot saved", lines[0]["msg"])
	assert.EqualValues(t, 42, lines[0]["bytes"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
	assert.Equal(t, "WARN", lines[2]["level"])
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
	l.LogFlush(t.Context(), 1, 1, 0, nil)
}
