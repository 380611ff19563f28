package roadgraph

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    edgeCounter   prometheus.Counter
//	    flushDuration prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordEdge(duration time.Duration, err error) {
//	    p.edgeCounter.Inc()
//	}
type MetricsCollector interface {
	// RecordEdge is called after each edge creation.
	RecordEdge(duration time.Duration, err error)

	// RecordFlush is called after each flush.
	RecordFlush(duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot with the number of bytes uploaded.
	RecordSnapshot(bytes int64, duration time.Duration, err error)

	// RecordRestore is called after each restore.
	RecordRestore(duration time.Duration, err error)

	// RecordValidate is called after each validation run.
	RecordValidate(problems int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEdge(time.Duration, error)            {}
func (NoopMetricsCollector) RecordFlush(time.Duration, error)           {}
func (NoopMetricsCollector) RecordSnapshot(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordRestore(time.Duration, error)         {}
func (NoopMetricsCollector) RecordValidate(int, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EdgeCount        atomic.Int64
	EdgeErrors       atomic.Int64
	EdgeTotalNanos   atomic.Int64
	FlushCount       atomic.Int64
	FlushErrors      atomic.Int64
	FlushTotalNanos  atomic.Int64
	SnapshotCount    atomic.Int64
	SnapshotErrors   atomic.Int64
	SnapshotBytes    atomic.Int64
	RestoreCount     atomic.Int64
	RestoreErrors    atomic.Int64
	ValidateCount    atomic.Int64
	ValidateErrors   atomic.Int64
	ValidateProblems atomic.Int64
}

// RecordEdge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEdge(duration time.Duration, err error) {
	b.EdgeCount.Add(1)
	b.EdgeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EdgeErrors.Add(1)
	}
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(duration time.Duration, err error) {
	b.FlushCount.Add(1)
	b.FlushTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FlushErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(bytes int64, _ time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// RecordRestore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestore(_ time.Duration, err error) {
	b.RestoreCount.Add(1)
	if err != nil {
		b.RestoreErrors.Add(1)
	}
}

// RecordValidate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordValidate(problems int, _ time.Duration, err error) {
	b.ValidateCount.Add(1)
	b.ValidateProblems.Add(int64(problems))
	if err != nil {
		b.ValidateErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EdgeCount:        b.EdgeCount.Load(),
		EdgeErrors:       b.EdgeErrors.Load(),
		EdgeAvgNanos:     avg(b.EdgeTotalNanos.Load(), b.EdgeCount.Load()),
		FlushCount:       b.FlushCount.Load(),
		FlushErrors:      b.FlushErrors.Load(),
		FlushAvgNanos:    avg(b.FlushTotalNanos.Load(), b.FlushCount.Load()),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
		SnapshotBytes:    b.SnapshotBytes.Load(),
		RestoreCount:     b.RestoreCount.Load(),
		RestoreErrors:    b.RestoreErrors.Load(),
		ValidateCount:    b.ValidateCount.Load(),
		ValidateErrors:   b.ValidateErrors.Load(),
		ValidateProblems: b.ValidateProblems.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EdgeCount        int64
	EdgeErrors       int64
	EdgeAvgNanos     int64
	FlushCount       int64
	FlushErrors      int64
	FlushAvgNanos    int64
	SnapshotCount    int64
	SnapshotErrors   int64
	SnapshotBytes    int64
	RestoreCount     int64
	RestoreErrors    int64
	ValidateCount    int64
	ValidateErrors   int64
	ValidateProblems int64
}
