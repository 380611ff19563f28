package mmap

import (
	"os"
	"sync/atomic"
)

// Mapping is a writable memory mapping. It owns the mapped bytes and is
// responsible for unmapping them.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	anon   bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// PageSize returns the granularity that file offsets must be aligned to.
func PageSize() int {
	return os.Getpagesize()
}

// Descriptor is implemented by open files that can be memory mapped.
type Descriptor interface {
	Fd() uintptr
}

// MapFile maps size bytes of f starting at offset as a shared, read-write view.
// The file must already be at least offset+size bytes long and offset must be
// a multiple of PageSize.
func MapFile(f Descriptor, offset int64, size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if offset < 0 || offset%int64(PageSize()) != 0 {
		return nil, ErrInvalidOffset
	}

	data, unmapFunc, err := osMapFile(f, offset, size)
	if err != nil {
		return nil, err
	}

	return &Mapping{data: data, unmap: unmapFunc}, nil
}

// MapAnon creates a private anonymous read-write mapping of size bytes.
// The memory is zeroed.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{data: data, unmap: unmapFunc, anon: true}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	data := m.data
	m.data = nil
	if m.unmap != nil && data != nil {
		return m.unmap(data)
	}
	return nil
}

// Bytes returns the mapped bytes, or nil after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Sync flushes dirty pages of a file mapping to the file.
// It is a no-op for anonymous mappings.
func (m *Mapping) Sync() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.anon || len(m.data) == 0 {
		return nil
	}
	return osSync(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return osAdvise(m.data, pattern)
}
