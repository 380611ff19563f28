// Package storage implements the segmented backing stores underneath the
// graph tables.
//
// A [DataAccess] is a growable byte region split into fixed-size segments.
// Positions are translated into (segment, offset) pairs with a shift and a
// mask, so growing a store only ever allocates new segments and never moves
// existing data.
//
// # Variants
//
//   - [RAM]: transient, segments live in anonymous memory mappings
//   - [RAMStore]: like RAM, Flush writes a compressed, checksummed image file
//   - [MMAP]: durable, every segment is a shared read-write mapping of the
//     data file
//
// # Directories
//
// A [Directory] creates and owns the data accesses of one graph:
//
//	dir := storage.NewMMapDirectory("/var/lib/graph",
//	    storage.WithResourceController(rc),
//	)
//	defer dir.Close()
//
//	da, err := dir.Create("edges")
//
// # Records
//
// [RecordTable] turns a DataAccess into an array of fixed-size records with
// monotonic growth.
//
// # Bounds
//
// Positions passed to the Get/Set accessors must be below Capacity. Callers
// grow the store with EnsureCapacity first; out of range access panics like
// slice indexing does.
//
// # Concurrency
//
// A DataAccess is not safe for concurrent mutation. Concurrent reads are safe
// once writers are done.
package storage
