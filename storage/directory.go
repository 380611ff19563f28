package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Directory creates and owns the data accesses of one graph.
type Directory interface {
	Location() string
	DefaultType() DAType
	Create(name string) (DataAccess, error)
	CreateWith(name string, typ DAType, segmentSize int) (DataAccess, error)
	Remove(name string) error
	Close() error
}

// LocalDirectory is a Directory rooted at a local path.
type LocalDirectory struct {
	location    string
	defaultType DAType
	opts        options

	mu     sync.Mutex
	das    map[string]DataAccess
	closed bool
}

// NewRAMDirectory returns a directory of RAM data accesses. With store set
// they persist to location on Flush.
func NewRAMDirectory(location string, store bool, opts ...Option) *LocalDirectory {
	typ := RAM
	if store {
		typ = RAMStore
	}
	return newLocalDirectory(location, typ, opts)
}

// NewMMapDirectory returns a directory of memory mapped data accesses.
func NewMMapDirectory(location string, opts ...Option) *LocalDirectory {
	return newLocalDirectory(location, MMAP, opts)
}

func newLocalDirectory(location string, typ DAType, opts []Option) *LocalDirectory {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &LocalDirectory{
		location:    location,
		defaultType: typ,
		opts:        o,
		das:         make(map[string]DataAccess),
	}
}

func (d *LocalDirectory) Location() string    { return d.location }
func (d *LocalDirectory) DefaultType() DAType { return d.defaultType }

// Create creates a data access of the default type and segment size.
func (d *LocalDirectory) Create(name string) (DataAccess, error) {
	return d.CreateWith(name, d.defaultType, d.opts.segmentSize)
}

// CreateWith creates a data access. It is not allocated until Create or
// LoadExisting is called on it.
func (d *LocalDirectory) CreateWith(name string, typ DAType, segmentSize int) (DataAccess, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: data access name %q", ErrInvalidConfig, name)
	}
	if typ.IsStoring() && d.location == "" {
		return nil, fmt.Errorf("%w: %s requires a location", ErrInvalidConfig, typ)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if _, ok := d.das[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}

	path := filepath.Join(d.location, name)

	var da DataAccess
	switch typ {
	case RAM:
		da = newRAMDataAccess(name, "", segmentSize, false, d.opts)
	case RAMStore:
		da = newRAMDataAccess(name, path, segmentSize, true, d.opts)
	case MMAP:
		da = newMMapDataAccess(name, path, segmentSize, d.opts)
	default:
		return nil, fmt.Errorf("%w: unknown type %s", ErrInvalidConfig, typ)
	}

	d.das[name] = da
	d.opts.logger.Debug("created data access",
		slog.String("name", name),
		slog.String("type", typ.String()),
		slog.Int("segment_size", da.SegmentSize()),
	)
	return da, nil
}

// Get returns the data access called name.
func (d *LocalDirectory) Get(name string) (DataAccess, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	da, ok := d.das[name]
	return da, ok
}

// Remove closes the data access called name and deletes its file.
func (d *LocalDirectory) Remove(name string) error {
	d.mu.Lock()
	da, ok := d.das[name]
	delete(d.das, name)
	d.mu.Unlock()

	var errs []error
	if ok {
		errs = append(errs, da.Close())
	}
	if d.location != "" {
		if err := d.opts.fs.Remove(filepath.Join(d.location, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every data access. It is idempotent.
func (d *LocalDirectory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for name, da := range d.das {
		if err := da.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	d.das = nil
	return errors.Join(errs...)
}

func (d *LocalDirectory) String() string {
	return fmt.Sprintf("%s(%s)", d.defaultType, d.location)
}
