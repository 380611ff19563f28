package storage

import (
	"fmt"
	"math"
)

// Header slots owned by RecordTable. Callers store their own metadata from
// FirstFreeHeader on.
const (
	headerRecordSize  = 0
	headerRecordCount = 1
	// FirstFreeHeader is the first header slot available to users of a RecordTable.
	FirstFreeHeader = 2
)

// RecordTable is an append-only array of fixed-size records over a DataAccess.
type RecordTable struct {
	da         DataAccess
	recordSize int64
	count      int
}

// NewRecordTable creates a table of recordSize-byte records. recordSize must
// be a positive multiple of 4 so that int fields never straddle segments.
func NewRecordTable(da DataAccess, recordSize int) (*RecordTable, error) {
	if recordSize <= 0 || recordSize%4 != 0 {
		return nil, fmt.Errorf("%w: record size %d", ErrInvalidConfig, recordSize)
	}
	return &RecordTable{da: da, recordSize: int64(recordSize)}, nil
}

// Create allocates room for expected records.
func (t *RecordTable) Create(expected int) error {
	if err := t.da.Create(int64(max(expected, 1)) * t.recordSize); err != nil {
		return err
	}
	t.da.SetHeader(headerRecordSize, int32(t.recordSize))
	t.da.SetHeader(headerRecordCount, 0)
	return nil
}

// CreateFrom creates the table from a decoded image and validates it like
// LoadExisting.
func (t *RecordTable) CreateFrom(img *Image) error {
	if err := t.da.Create(img.Capacity()); err != nil {
		return err
	}
	if err := img.CopyTo(t.da); err != nil {
		return err
	}
	return t.readHeader()
}

// LoadExisting opens flushed records. It fails with ErrCorrupt if the
// stored record size differs.
func (t *RecordTable) LoadExisting() (bool, error) {
	ok, err := t.da.LoadExisting()
	if err != nil || !ok {
		return ok, err
	}
	if err := t.readHeader(); err != nil {
		return false, err
	}
	return true, nil
}

func (t *RecordTable) readHeader() error {
	if stored := int64(t.da.GetHeader(headerRecordSize)); stored != t.recordSize {
		return &RecordSizeError{Name: t.da.Name(), Stored: int(stored), Want: int(t.recordSize)}
	}
	count := int(t.da.GetHeader(headerRecordCount))
	if count < 0 || int64(count)*t.recordSize > t.da.Capacity() {
		return fmt.Errorf("%w: %s: record count %d exceeds capacity", ErrCorrupt, t.da.Name(), count)
	}
	t.count = count
	return nil
}

// Add appends n zeroed records and returns the index of the first.
func (t *RecordTable) Add(n int) (int, error) {
	first := t.count
	if n <= 0 {
		return first, nil
	}
	if err := t.EnsureIndex(first + n - 1); err != nil {
		return 0, err
	}
	return first, nil
}

// EnsureIndex grows the table so that index is a valid record.
func (t *RecordTable) EnsureIndex(index int) error {
	if index < t.count {
		return nil
	}
	if err := t.Reserve(index); err != nil {
		return err
	}
	t.count = index + 1
	return nil
}

// Reserve grows the capacity so that index fits, without changing Len.
func (t *RecordTable) Reserve(index int) error {
	if index >= math.MaxInt32 {
		return fmt.Errorf("%w: %s: record index %d", ErrCapacity, t.da.Name(), index)
	}
	_, err := t.da.EnsureCapacity(int64(index+1) * t.recordSize)
	return err
}

// Pointer returns the byte position of a record.
func (t *RecordTable) Pointer(index int) int64 {
	return int64(index) * t.recordSize
}

// Len returns the number of records.
func (t *RecordTable) Len() int { return t.count }

// RecordSize returns the record size in bytes.
func (t *RecordTable) RecordSize() int { return int(t.recordSize) }

// DataAccess returns the underlying store.
func (t *RecordTable) DataAccess() DataAccess { return t.da }

// Header returns the data access header with the current record size and
// count filled in. It does not modify the data access.
func (t *RecordTable) Header() [HeaderInts]int32 {
	var h [HeaderInts]int32
	for i := range h {
		h[i] = t.da.GetHeader(i)
	}
	h[headerRecordSize] = int32(t.recordSize)
	h[headerRecordCount] = int32(t.count)
	return h
}

// SyncHeader writes the record size and count into the data access header.
func (t *RecordTable) SyncHeader() {
	t.da.SetHeader(headerRecordSize, int32(t.recordSize))
	t.da.SetHeader(headerRecordCount, int32(t.count))
}

// Flush stores the table header and flushes the data access.
func (t *RecordTable) Flush() error {
	t.SyncHeader()
	return t.da.Flush()
}

// Close closes the data access.
func (t *RecordTable) Close() error {
	return t.da.Close()
}
