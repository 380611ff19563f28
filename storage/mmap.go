package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/roadgraph/internal/fs"
	"github.com/hupe1980/roadgraph/internal/mmap"
)

// MMAP file layout: a header region of one page followed by the segments.
//
//	magic "RGMM" | segmentSize u32 | headerSize u32 | header HeaderInts × int32
const (
	mmapMagic    = "RGMM"
	mmapPreamble = 12 + HeaderInts*4
)

// mmapDataAccess maps every segment of a file as its own shared mapping, so
// growth never remaps existing segments.
type mmapDataAccess struct {
	segmented
	opts       options
	path       string
	file       fs.File
	mappings   []*mmap.Mapping
	headerSize int64
	reserved   int64
}

func newMMapDataAccess(name, path string, segmentSize int, opts options) *mmapDataAccess {
	page := mmap.PageSize()
	return &mmapDataAccess{
		segmented:  segmented{name: name, seg: NewSegments(max(NormalizeSegmentSize(segmentSize), page))},
		opts:       opts,
		path:       path,
		headerSize: int64(page),
	}
}

func (d *mmapDataAccess) Type() DAType { return MMAP }

func (d *mmapDataAccess) Create(bytes int64) error {
	if err := d.checkCreate(); err != nil {
		return err
	}

	if err := d.opts.fs.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", d.name, err)
	}
	f, err := d.opts.fs.OpenFile(d.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", d.name, err)
	}
	d.file = f

	if err := f.Truncate(d.headerSize); err != nil {
		return d.fail(fmt.Errorf("storage: create %s: %w", d.name, err))
	}
	if err := d.writeHeader(); err != nil {
		return d.fail(err)
	}

	d.created = true
	if _, err := d.EnsureCapacity(max(bytes, 1)); err != nil {
		return d.fail(err)
	}
	return nil
}

func (d *mmapDataAccess) EnsureCapacity(bytes int64) (bool, error) {
	if err := d.checkGrow(); err != nil {
		return false, err
	}

	have, need := len(d.data), d.seg.Count(bytes)
	if need <= have {
		return false, nil
	}

	grow := d.seg.Bytes(need - have)
	if err := d.opts.rc.AcquireMemory(grow); err != nil {
		return false, fmt.Errorf("%w: %s segments %d..%d: %w", ErrCapacity, d.name, have, need-1, err)
	}

	if err := d.file.Truncate(d.headerSize + d.seg.Bytes(need)); err != nil {
		d.opts.rc.ReleaseMemory(grow)
		return false, fmt.Errorf("storage: grow %s: %w", d.name, err)
	}

	size := d.seg.Size()
	for i := have; i < need; i++ {
		m, err := mmap.MapFile(d.file, d.headerSize+d.seg.Bytes(i), size)
		if err != nil {
			for _, mm := range d.mappings[have:] {
				_ = mm.Close()
			}
			d.mappings = d.mappings[:have]
			d.data = d.data[:have]
			d.opts.rc.ReleaseMemory(grow)
			return false, fmt.Errorf("storage: map %s segment %d: %w", d.name, i, err)
		}
		d.mappings = append(d.mappings, m)
		d.data = append(d.data, m.Bytes())
	}
	d.reserved += grow
	return true, nil
}

func (d *mmapDataAccess) LoadExisting() (bool, error) {
	if err := d.checkCreate(); err != nil {
		return false, err
	}

	info, err := d.opts.fs.Stat(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: load %s: %w", d.name, err)
	}

	f, err := d.opts.fs.OpenFile(d.path, os.O_RDWR, 0)
	if err != nil {
		return false, fmt.Errorf("storage: load %s: %w", d.name, err)
	}
	d.file = f

	buf := make([]byte, mmapPreamble)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return false, d.fail(fmt.Errorf("%w: %s: read header: %w", ErrCorrupt, d.name, err))
	}
	if string(buf[:4]) != mmapMagic {
		return false, d.fail(fmt.Errorf("%w: %s: bad magic %q", ErrCorrupt, d.name, buf[:4]))
	}

	segSize := int(binary.LittleEndian.Uint32(buf[4:]))
	headerSize := int64(binary.LittleEndian.Uint32(buf[8:]))
	page := int64(mmap.PageSize())
	if NormalizeSegmentSize(segSize) != segSize || int64(segSize)%page != 0 {
		return false, d.fail(fmt.Errorf("%w: %s: segment size %d", ErrCorrupt, d.name, segSize))
	}
	if headerSize < mmapPreamble || headerSize%page != 0 || headerSize > info.Size() {
		return false, d.fail(fmt.Errorf("%w: %s: header size %d", ErrCorrupt, d.name, headerSize))
	}

	if segSize != d.seg.Size() {
		d.opts.logger.Debug("using stored segment size",
			slog.String("name", d.name),
			slog.Int("configured", d.seg.Size()),
			slog.Int("stored", segSize),
		)
	}
	d.seg = NewSegments(segSize)
	d.headerSize = headerSize
	for i := range HeaderInts {
		d.header[i] = int32(binary.LittleEndian.Uint32(buf[12+i*4:]))
	}

	d.created = true
	if _, err := d.EnsureCapacity(info.Size() - headerSize); err != nil {
		return false, d.fail(err)
	}

	d.opts.logger.Debug("mapped data access",
		slog.String("name", d.name),
		slog.Int("segments", len(d.data)),
	)
	return true, nil
}

func (d *mmapDataAccess) Flush() error {
	if d.closed {
		return fmt.Errorf("%w: %s", ErrClosed, d.name)
	}
	if !d.created {
		return nil
	}

	for i, m := range d.mappings {
		if err := m.Sync(); err != nil {
			return fmt.Errorf("storage: sync %s segment %d: %w", d.name, i, err)
		}
	}

	if err := d.writeHeader(); err != nil {
		return err
	}
	if err := d.file.Sync(); err != nil {
		return fmt.Errorf("storage: sync %s: %w", d.name, err)
	}
	return nil
}

func (d *mmapDataAccess) writeHeader() error {
	buf := make([]byte, 0, mmapPreamble)
	buf = append(buf, mmapMagic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(d.seg.Size()))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(d.headerSize))
	for _, v := range d.header {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	if _, err := d.file.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("storage: write %s header: %w", d.name, err)
	}
	return nil
}

func (d *mmapDataAccess) Close() error {
	if d.closed {
		return nil
	}
	return d.release()
}

// fail releases everything acquired so far and returns err.
func (d *mmapDataAccess) fail(err error) error {
	if rerr := d.release(); rerr != nil {
		d.opts.logger.Warn("release after failure",
			slog.String("name", d.name),
			slog.Any("error", rerr),
		)
	}
	return err
}

func (d *mmapDataAccess) release() error {
	d.closed = true

	var errs []error
	for _, m := range d.mappings {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	d.mappings = nil
	d.data = nil
	d.opts.rc.ReleaseMemory(d.reserved)
	d.reserved = 0

	if d.file != nil {
		if err := d.file.Close(); err != nil {
			errs = append(errs, err)
		}
		d.file = nil
	}
	return errors.Join(errs...)
}

func (d *mmapDataAccess) String() string {
	return fmt.Sprintf("%s[%s segments=%d size=%d]", d.name, d.Type(), len(d.data), d.seg.Size())
}
