package storage

import (
	"encoding/binary"
	"fmt"
)

// DataAccess is a growable, segmented byte region.
type DataAccess interface {
	Name() string
	Type() DAType

	// Create allocates at least bytes of zeroed capacity.
	Create(bytes int64) error
	// LoadExisting opens previously flushed data. It reports false if there
	// is nothing to load.
	LoadExisting() (bool, error)
	// EnsureCapacity grows the store by whole segments until it holds bytes.
	// It reports whether the store grew.
	EnsureCapacity(bytes int64) (bool, error)

	Capacity() int64
	Segments() int
	SegmentSize() int

	GetInt(pos int64) int32
	SetInt(pos int64, v int32)
	GetShort(pos int64) int16
	SetShort(pos int64, v int16)
	GetByte(pos int64) byte
	SetByte(pos int64, v byte)
	GetBytes(pos int64, dst []byte)
	SetBytes(pos int64, src []byte)

	// GetHeader reads one of the HeaderInts ints persisted with the data.
	GetHeader(i int) int32
	SetHeader(i int, v int32)

	Flush() error
	Close() error
	IsClosed() bool
}

// segmented holds the segment table and accessors shared by all variants.
type segmented struct {
	name    string
	seg     Segments
	data    [][]byte
	header  [HeaderInts]int32
	created bool
	closed  bool
}

func (d *segmented) Name() string     { return d.name }
func (d *segmented) Segments() int    { return len(d.data) }
func (d *segmented) SegmentSize() int { return d.seg.Size() }
func (d *segmented) Capacity() int64  { return d.seg.Bytes(len(d.data)) }
func (d *segmented) IsClosed() bool   { return d.closed }

func (d *segmented) GetInt(pos int64) int32 {
	s, o := d.seg.Locate(pos)
	return int32(binary.LittleEndian.Uint32(d.data[s][o:]))
}

func (d *segmented) SetInt(pos int64, v int32) {
	s, o := d.seg.Locate(pos)
	binary.LittleEndian.PutUint32(d.data[s][o:], uint32(v))
}

func (d *segmented) GetShort(pos int64) int16 {
	s, o := d.seg.Locate(pos)
	return int16(binary.LittleEndian.Uint16(d.data[s][o:]))
}

func (d *segmented) SetShort(pos int64, v int16) {
	s, o := d.seg.Locate(pos)
	binary.LittleEndian.PutUint16(d.data[s][o:], uint16(v))
}

func (d *segmented) GetByte(pos int64) byte {
	s, o := d.seg.Locate(pos)
	return d.data[s][o]
}

func (d *segmented) SetByte(pos int64, v byte) {
	s, o := d.seg.Locate(pos)
	d.data[s][o] = v
}

// GetBytes fills dst starting at pos. The range may span segments.
func (d *segmented) GetBytes(pos int64, dst []byte) {
	for len(dst) > 0 {
		s, o := d.seg.Locate(pos)
		n := copy(dst, d.data[s][o:])
		dst = dst[n:]
		pos += int64(n)
	}
}

// SetBytes writes src starting at pos. The range may span segments.
func (d *segmented) SetBytes(pos int64, src []byte) {
	for len(src) > 0 {
		s, o := d.seg.Locate(pos)
		n := copy(d.data[s][o:], src)
		src = src[n:]
		pos += int64(n)
	}
}

func (d *segmented) GetHeader(i int) int32    { return d.header[i] }
func (d *segmented) SetHeader(i int, v int32) { d.header[i] = v }

func (d *segmented) checkCreate() error {
	if d.closed {
		return fmt.Errorf("%w: %s", ErrClosed, d.name)
	}
	if d.created {
		return fmt.Errorf("%w: %s", ErrAlreadyCreated, d.name)
	}
	return nil
}

func (d *segmented) checkGrow() error {
	if d.closed {
		return fmt.Errorf("%w: %s", ErrClosed, d.name)
	}
	if !d.created {
		return fmt.Errorf("%w: %s", ErrNotCreated, d.name)
	}
	return nil
}
