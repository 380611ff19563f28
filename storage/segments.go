package storage

import "math/bits"

const (
	// DefaultSegmentSize is used when no segment size is configured.
	DefaultSegmentSize = 1 << 20
	// MinSegmentSize is the smallest segment size in bytes.
	MinSegmentSize = 128
	// HeaderInts is the number of header ints persisted with every data access.
	HeaderInts = 32
)

// NormalizeSegmentSize maps a requested segment size to the size actually
// used: non-positive values select DefaultSegmentSize, everything else is
// raised to MinSegmentSize and rounded up to a power of two.
func NormalizeSegmentSize(size int) int {
	if size <= 0 {
		return DefaultSegmentSize
	}
	if size < MinSegmentSize {
		size = MinSegmentSize
	}
	return 1 << bits.Len(uint(size-1))
}

// Segments translates byte positions into segment coordinates.
type Segments struct {
	size  int
	power uint
	mask  int64
}

// NewSegments creates the addressing for segments of NormalizeSegmentSize(size) bytes.
func NewSegments(size int) Segments {
	size = NormalizeSegmentSize(size)
	power := uint(bits.TrailingZeros(uint(size)))
	return Segments{
		size:  size,
		power: power,
		mask:  int64(size) - 1,
	}
}

// Size returns the segment size in bytes.
func (s Segments) Size() int { return s.size }

// Power returns log2 of the segment size.
func (s Segments) Power() uint { return s.power }

// Locate returns the segment index and the offset inside that segment.
func (s Segments) Locate(pos int64) (segment, offset int) {
	return int(pos >> s.power), int(pos & s.mask)
}

// Count returns the number of segments needed to hold n bytes.
func (s Segments) Count(n int64) int {
	if n <= 0 {
		return 0
	}
	return int((n + s.mask) >> s.power)
}

// Bytes returns the capacity of n segments.
func (s Segments) Bytes(n int) int64 {
	return int64(n) << s.power
}
