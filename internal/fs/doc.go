// Package fs provides the filesystem seam used by durable backing stores.
//
// The package defines two interfaces:
//
//   - [File]: an open data file (positional reads/writes, truncate, sync, and
//     the descriptor needed for memory mapping)
//   - [FileSystem]: directory-level operations (open, remove, rename, stat)
//
// # Implementations
//
//   - [LocalFS]: production implementation on top of package os
//   - [FaultyFS]: test utility that injects failures and tracks open handles
//
// Tests use FaultyFS to prove that a store which fails halfway through
// construction still closes every file it opened:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("edges", fs.Fault{FailOnTruncate: true})
//	// ... build a store on ffs, expect an error ...
//	// ffs.OpenHandles() == 0
//
// Filesystem calls carry no context.Context: local file operations are not
// interruptible at the syscall level.
package fs
