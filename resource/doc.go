// Package resource governs the memory and IO budget of graph storage.
//
// A Controller limits three things:
//
//   - Memory: bytes held by allocated segments (fail-fast, never blocks)
//   - Workers: concurrent jobs such as parallel validation or snapshot uploads
//   - IO: bytes per second written or read by flush, load and snapshot paths
//
// Memory is reserved per segment before the segment is allocated and
// released when the store is closed:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 256 << 20})
//	if err := rc.AcquireMemory(segmentSize); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(segmentSize)
//
// IO is throttled with a token bucket; large transfers are split into
// burst-sized waits so any size can be requested:
//
//	w := resource.NewRateLimitedWriter(ctx, file, rc)
//
// All methods are safe for concurrent use, and a nil *Controller is valid
// and imposes no limits.
package resource
