// Package cache provides a segmented, byte-budgeted key/value cache that
// mirrors the accounting of an off-heap hash table entry for entry.
//
// Design
//
//   - Segments: keys are routed to one of a power-of-two number of segments
//     by their xxhash. Each Segment has its own mutex covering its map, its
//     MRU↔LRU list and its counters. Segments never call each other.
//
//   - Budget: all segments share one atomic free-capacity counter. Every
//     entry is charged EntryOffData + len(key) + len(value). A put that does
//     not fit is rejected (and drops any existing entry for the same key);
//     no other entry is ever evicted to make room.
//
//   - Conditional writes: PutIfAbsent and Replace (compare-and-swap on the
//     stored bytes) go through the same admission path as Put. All three
//     failure causes surface as false; the cause is visible to Metrics and
//     the debug log only.
//
//   - Statistics: each segment counts hits, misses, adds, replaces and
//     removes. Stats and SegmentStats return snapshots; ResetStatistics
//     zeroes them without touching data.
//
//   - Recency: ordering inside a segment is delegated to a policy (package
//     policy); LRU is the default and reorders in O(1).
//
// Basic usage
//
//	c := cache.New(cache.Options{Capacity: 64 << 20})
//	c.Put([]byte("a"), []byte("1"))
//	if v, ok := c.Get([]byte("a")); ok {
//	    _ = v // read-only
//	}
//	c.Replace([]byte("a"), []byte("1"), []byte("2"))
//	c.Remove([]byte("a"))
//
// Exporting metrics
//
//	m := prom.New(nil, "segcache", "demo", nil)
//	c := cache.New(cache.Options{Capacity: 64 << 20, Metrics: m})
//
// The global budget is checked without a cross-segment lock, so under
// concurrent writes to different segments it can be overshot briefly.
package cache
