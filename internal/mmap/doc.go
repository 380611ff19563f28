// Package mmap provides read-write memory mappings for the durable backing store.
//
// # Overview
//
// The graph tables are split into fixed-size segments. A durable table maps
// every segment as its own shared, writable view of the data file so that the
// table can grow by mapping new segments without remapping existing ones.
//
//	f, _ := os.OpenFile("edges", os.O_RDWR|os.O_CREATE, 0o644)
//	_ = f.Truncate(pageSize + segmentSize)
//	m, err := mmap.MapFile(f, int64(pageSize), segmentSize)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // writes go straight to the page cache
//	_ = m.Sync()      // msync(2)
//
// # Anonymous Mappings
//
// MapAnon returns private anonymous memory outside the Go heap. The transient
// backing store uses it for its segments so that large graphs do not add GC
// pressure.
//
// # Platform Support
//
// File mappings require a Unix system (mmap(2), msync(2), madvise(2)). On other
// platforms MapFile returns ErrUnsupported and MapAnon falls back to heap
// memory.
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close is idempotent; callers must
// ensure no goroutine touches Bytes() after Close returns.
package mmap
