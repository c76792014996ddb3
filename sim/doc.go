// Package sim implements a paged memory manager for transformer KV
// caches, modeled on OS virtual-memory paging.
//
// # Reading Guide
//
// Start with these files to understand the core:
//   - blockpool.go: the physical block inventory and its free queue
//   - sequence.go: per-request logical memory and the block table
//   - store.go: the pre-allocated key/value buffers blocks index into
//
// The rest is harness: scenario.go runs declarative scripts against a
// pool, demos.go holds the built-in walkthroughs, metrics.go the
// observables.
//
// # Design
//
// Naive per-request contiguous KV allocation suffers external
// fragmentation: free capacity exists but is not contiguous, so new
// requests are rejected anyway. Here every logical chunk of a sequence
// is indirected through a fixed-size physical block, so a growth step
// needs any one free slot rather than a contiguous run. The BlockPool
// is the single source of truth for free/allocated status; each
// Sequence exclusively owns the blocks in its table until it releases
// them all on completion.
package sim
