package cache

import "context"

// Cache is a segmented, byte-budgeted key/value cache.
// All methods are safe for concurrent use by multiple goroutines.
//
// Keys and values are opaque byte slices. Keys are copied on entry; values
// are copied on write, and values returned by Get must be treated as
// read-only.
type Cache interface {
	// Get returns the value for k and whether it was present.
	Get(k []byte) ([]byte, bool)

	// Put inserts or replaces k→v. It returns false if the shared budget
	// cannot hold the entry (an existing k is then dropped).
	Put(k, v []byte) bool

	// PutIfAbsent inserts k→v only if k is not present.
	PutIfAbsent(k, v []byte) bool

	// Replace stores v only if the current value of k equals old.
	Replace(k, old, v []byte) bool

	// Remove deletes k and reports whether it was present.
	Remove(k []byte) bool

	// Clear drops every entry and returns its budget.
	Clear()

	// Size returns the total number of resident entries.
	Size() int64

	// Capacity is the configured byte budget.
	Capacity() int64

	// FreeCapacity is the unreserved part of the budget.
	FreeCapacity() int64

	// Stats sums the counters of all segments.
	Stats() TableStats

	// SegmentStats returns per-segment counters, indexed by segment.
	SegmentStats() []Stats

	// ResetStatistics zeroes the counters of every segment.
	ResetStatistics()

	// GetOrLoad returns the value for k, loading it via Options.Loader on
	// a miss. Concurrent loads of the same key are coalesced.
	GetOrLoad(ctx context.Context, k []byte) ([]byte, error)

	// Close marks the cache closed; later reads miss and writes fail.
	Close() error
}
