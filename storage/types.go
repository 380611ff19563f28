package storage

import "fmt"

// DAType identifies a DataAccess implementation.
type DAType int

const (
	// RAM keeps segments in memory and discards them on close.
	RAM DAType = iota
	// RAMStore keeps segments in memory and persists them on Flush.
	RAMStore
	// MMAP maps segments from a file.
	MMAP
)

func (t DAType) String() string {
	switch t {
	case RAM:
		return "RAM"
	case RAMStore:
		return "RAM_STORE"
	case MMAP:
		return "MMAP"
	default:
		return fmt.Sprintf("DAType(%d)", int(t))
	}
}

// IsStoring reports whether the type survives a restart.
func (t DAType) IsStoring() bool {
	return t == RAMStore || t == MMAP
}

// Compression selects the block codec used for RAMStore image files.
type Compression uint8

const (
	// CompressionNone stores segments verbatim.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}
