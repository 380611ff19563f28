package roadgraph

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with graph-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithGraph adds the graph location to the logger.
func (l *Logger) WithGraph(location string) *Logger {
	return &Logger{
		Logger: l.Logger.With("graph", location),
	}
}

// WithNode adds a node field to the logger.
func (l *Logger) WithNode(node int) *Logger {
	return &Logger{
		Logger: l.Logger.With("node", node),
	}
}

// WithEdge adds an edge field to the logger.
func (l *Logger) WithEdge(edge int) *Logger {
	return &Logger{
		Logger: l.Logger.With("edge", edge),
	}
}

// LogCreate logs graph creation.
func (l *Logger) LogCreate(ctx context.Context, expectedNodes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create failed",
			"expected_nodes", expectedNodes,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "graph created",
		"expected_nodes", expectedNodes,
	)
}

// LogLoad logs a LoadExisting call.
func (l *Logger) LogLoad(ctx context.Context, found bool, nodes, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed", "error", err)
		return
	}
	if !found {
		l.DebugContext(ctx, "nothing to load")
		return
	}
	l.InfoContext(ctx, "graph loaded",
		"nodes", nodes,
		"edges", edges,
	)
}

// LogFlush logs a flush.
func (l *Logger) LogFlush(ctx context.Context, nodes, edges int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flush failed",
			"nodes", nodes,
			"edges", edges,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "flush completed",
		"nodes", nodes,
		"edges", edges,
		"duration", duration,
	)
}

// LogSnapshot logs a snapshot upload.
func (l *Logger) LogSnapshot(ctx context.Context, prefix string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"prefix", prefix,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"prefix", prefix,
		"bytes", bytes,
	)
}

// LogRestore logs a snapshot restore.
func (l *Logger) LogRestore(ctx context.Context, prefix string, nodes, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"prefix", prefix,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot restored",
		"prefix", prefix,
		"nodes", nodes,
		"edges", edges,
	)
}

// LogValidate logs a validation run.
func (l *Logger) LogValidate(ctx context.Context, problems int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "validation failed", "error", err)
	case problems > 0:
		l.WarnContext(ctx, "validation found problems", "problems", problems)
	default:
		l.DebugContext(ctx, "validation passed")
	}
}
