package roadgraph

import (
	"github.com/hupe1980/roadgraph/resource"
	"github.com/hupe1980/roadgraph/storage"
)

type snapshotOptions struct {
	compression   storage.Compression
	rc            *resource.Controller
	updateCurrent bool
}

func defaultSnapshotOptions() snapshotOptions {
	return snapshotOptions{
		compression:   storage.CompressionLZ4,
		updateCurrent: true,
	}
}

// SnapshotOption configures Snapshot, Restore and RestoreLatest.
type SnapshotOption func(*snapshotOptions)

// WithSnapshotCompression selects the codec for table blobs. Restore detects
// the codec from the blob itself.
func WithSnapshotCompression(c storage.Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

// WithSnapshotResourceController throttles snapshot uploads and downloads
// through rc's IO limit.
//
// Example:
//
//	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 64 << 20})
//	err := g.Snapshot(ctx, store, "v1", roadgraph.WithSnapshotResourceController(rc))
func WithSnapshotResourceController(rc *resource.Controller) SnapshotOption {
	return func(o *snapshotOptions) {
		o.rc = rc
	}
}

// WithoutCurrent leaves the CURRENT pointer untouched, so RestoreLatest keeps
// returning the previous snapshot.
func WithoutCurrent() SnapshotOption {
	return func(o *snapshotOptions) {
		o.updateCurrent = false
	}
}
