package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/roadgraph/internal/mmap"
)

// ramDataAccess keeps segments in anonymous mappings. With store set, Flush
// persists an image file and LoadExisting reads it back.
type ramDataAccess struct {
	segmented
	opts     options
	store    bool
	path     string
	mappings []*mmap.Mapping
}

func newRAMDataAccess(name, path string, segmentSize int, store bool, opts options) *ramDataAccess {
	return &ramDataAccess{
		segmented: segmented{name: name, seg: NewSegments(segmentSize)},
		opts:      opts,
		store:     store,
		path:      path,
	}
}

func (d *ramDataAccess) Type() DAType {
	if d.store {
		return RAMStore
	}
	return RAM
}

func (d *ramDataAccess) Create(bytes int64) error {
	if err := d.checkCreate(); err != nil {
		return err
	}
	d.created = true

	if _, err := d.EnsureCapacity(max(bytes, 1)); err != nil {
		d.releaseSegments()
		d.created = false
		return err
	}
	return nil
}

func (d *ramDataAccess) EnsureCapacity(bytes int64) (bool, error) {
	if err := d.checkGrow(); err != nil {
		return false, err
	}

	need := d.seg.Count(bytes)
	if need <= len(d.data) {
		return false, nil
	}
	for len(d.data) < need {
		if err := d.allocSegment(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *ramDataAccess) allocSegment() error {
	size := d.seg.Size()
	if err := d.opts.rc.AcquireMemory(int64(size)); err != nil {
		return fmt.Errorf("%w: %s segment %d: %w", ErrCapacity, d.name, len(d.data), err)
	}

	m, err := mmap.MapAnon(size)
	if err != nil {
		d.opts.rc.ReleaseMemory(int64(size))
		return fmt.Errorf("storage: allocate %s segment %d: %w", d.name, len(d.data), err)
	}

	d.mappings = append(d.mappings, m)
	d.data = append(d.data, m.Bytes())
	return nil
}

func (d *ramDataAccess) LoadExisting() (bool, error) {
	if err := d.checkCreate(); err != nil {
		return false, err
	}
	if !d.store {
		return false, nil
	}

	raw, err := readFile(d.opts.fs, d.opts.rc, d.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: load %s: %w", d.name, err)
	}

	img, err := Decode(raw)
	if err != nil {
		return false, fmt.Errorf("storage: load %s: %w", d.name, err)
	}

	if img.SegmentSize != d.seg.Size() {
		d.opts.logger.Debug("using stored segment size",
			slog.String("name", d.name),
			slog.Int("configured", d.seg.Size()),
			slog.Int("stored", img.SegmentSize),
		)
		d.seg = NewSegments(img.SegmentSize)
	}

	d.created = true
	if err := img.CopyTo(d); err != nil {
		d.releaseSegments()
		d.created = false
		return false, err
	}

	d.opts.logger.Debug("loaded data access",
		slog.String("name", d.name),
		slog.Int("segments", len(d.data)),
	)
	return true, nil
}

func (d *ramDataAccess) Flush() error {
	if d.closed {
		return fmt.Errorf("%w: %s", ErrClosed, d.name)
	}
	if !d.store || !d.created {
		return nil
	}

	raw, err := Encode(d, d.opts.compression)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(d.opts.fs, d.opts.rc, d.path, raw); err != nil {
		return fmt.Errorf("storage: flush %s: %w", d.name, err)
	}

	d.opts.logger.Debug("flushed data access",
		slog.String("name", d.name),
		slog.Int("segments", len(d.data)),
		slog.Int("bytes", len(raw)),
		slog.String("compression", d.opts.compression.String()),
	)
	return nil
}

func (d *ramDataAccess) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.releaseSegments()
}

func (d *ramDataAccess) releaseSegments() error {
	var errs []error
	for _, m := range d.mappings {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	d.opts.rc.ReleaseMemory(d.seg.Bytes(len(d.mappings)))
	d.mappings = nil
	d.data = nil
	return errors.Join(errs...)
}

func (d *ramDataAccess) String() string {
	return fmt.Sprintf("%s[%s segments=%d size=%d]", d.name, d.Type(), len(d.data), d.seg.Size())
}
