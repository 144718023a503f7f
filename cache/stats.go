package cache

// Stats is a point-in-time copy of one segment's counters, or their sum
// across segments.
type Stats struct {
	HitCount        int64
	MissCount       int64
	PutAddCount     int64
	PutReplaceCount int64
	RemoveCount     int64
	// EvictedEntries is kept for parity with the off-heap engine's counter
	// set. Segments never evict, so it stays zero.
	EvictedEntries int64

	// Size is the number of resident entries.
	Size int64
	// UsedBytes is the budget charged to resident entries.
	UsedBytes int64
}

// Add returns the element-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		HitCount:        s.HitCount + o.HitCount,
		MissCount:       s.MissCount + o.MissCount,
		PutAddCount:     s.PutAddCount + o.PutAddCount,
		PutReplaceCount: s.PutReplaceCount + o.PutReplaceCount,
		RemoveCount:     s.RemoveCount + o.RemoveCount,
		EvictedEntries:  s.EvictedEntries + o.EvictedEntries,
		Size:            s.Size + o.Size,
		UsedBytes:       s.UsedBytes + o.UsedBytes,
	}
}

// HitRate returns hits/(hits+misses), or 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.HitCount + s.MissCount
	if total == 0 {
		return 0
	}
	return float64(s.HitCount) / float64(total)
}

// TableStats aggregates all segments of a Table together with the budget.
type TableStats struct {
	Stats
	Segments     int
	Capacity     int64
	FreeCapacity int64
}
