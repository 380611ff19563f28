package storage

import (
	"log/slog"

	"github.com/hupe1980/roadgraph/internal/fs"
	"github.com/hupe1980/roadgraph/resource"
)

type options struct {
	fs          fs.FileSystem
	rc          *resource.Controller
	compression Compression
	logger      *slog.Logger
	segmentSize int
}

func defaultOptions() options {
	return options{
		fs:          fs.Default,
		compression: CompressionLZ4,
		logger:      slog.New(slog.DiscardHandler),
		segmentSize: DefaultSegmentSize,
	}
}

// Option configures a Directory.
type Option func(*options)

// WithFileSystem sets the file system used by durable data accesses.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithResourceController charges every allocated segment against rc and
// throttles flush and load IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithCompression selects the codec for RAMStore image files.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger sets the logger. nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithSegmentSize sets the default segment size in bytes.
func WithSegmentSize(size int) Option {
	return func(o *options) {
		o.segmentSize = NormalizeSegmentSize(size)
	}
}
