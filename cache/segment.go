package cache

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/segcache/policy"
)

// Segment is one partition of a Table: a map from key to entry, an intrusive
// recency list (head=MRU, tail=LRU) and six operation counters, all guarded
// by a single mutex.
//
// A segment debits and credits a free-capacity counter that it shares with
// its siblings. Admission reads that counter once per put; the check and the
// later debit are not atomic across segments, so the global budget is only
// approximately enforced under concurrent load. Each add/sub is atomic.
//
// A segment never evicts another entry to make room. When the budget is too
// small the put is rejected.
type Segment struct {
	// ---- guarded by mu ----
	mu   sync.Mutex
	m    map[Key]*node
	head *node // MRU
	tail *node // LRU
	len  int   // linked nodes
	used int64 // Σ sizeOf over resident entries

	hitCount        int64
	missCount       int64
	putAddCount     int64
	putReplaceCount int64
	removeCount     int64
	evictedEntries  int64

	initialCapacity int
	free            *atomic.Int64
	pol             policy.ShardPolicy[Key, []byte]
	metrics         Metrics
}

// NewSegment creates an empty segment presized for initialCapacity entries.
// freeCapacity is owned by the caller and shared by every sibling segment.
// Only opt.Policy and opt.Metrics are consulted.
func NewSegment(initialCapacity int, freeCapacity *atomic.Int64, opt Options) *Segment {
	if freeCapacity == nil {
		panic("cache: NewSegment requires a free-capacity counter")
	}
	opt = opt.withDefaults()
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	s := &Segment{
		m:               make(map[Key]*node, initialCapacity),
		initialCapacity: initialCapacity,
		free:            freeCapacity,
		metrics:         opt.Metrics,
	}
	s.pol = opt.Policy.New(segmentHooks{s: s})
	return s
}

// Get returns the stored value for key and promotes it to MRU.
// The returned slice is shared with the segment and must not be modified;
// values are only ever replaced wholesale, never written in place.
// A miss returns (nil, false).
func (s *Segment) Get(key Key) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[key]
	if !ok {
		s.missCount++
		s.metrics.Miss()
		return nil, false
	}
	s.pol.OnGet(n)
	s.hitCount++
	s.metrics.Hit()
	return n.val, true
}

// peek returns the stored value without counting, reporting or promoting.
func (s *Segment) peek(key Key) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.m[key]; ok {
		return n.val, true
	}
	return nil, false
}

// Put stores value under key and reports whether it did.
//
//   - If the shared free capacity is smaller than the entry size, any
//     existing entry for key is removed and Put fails.
//   - If ifAbsent is set and key exists, Put fails.
//   - If expectedOld is non-nil, Put fails unless key exists and its value
//     is byte-equal to expectedOld.
//
// The three failure causes are not distinguished to the caller.
// value is copied; a nil value is stored as an empty one.
func (s *Segment) Put(key Key, value []byte, ifAbsent bool, expectedOld []byte) bool {
	return s.put(key, value, ifAbsent, expectedOld).OK()
}

func (s *Segment) put(key Key, value []byte, ifAbsent bool, expectedOld []byte) PutOutcome {
	sz := SizeOf(key, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Single check; no victims are chosen.
	if s.free.Load() < sz {
		s.removeLocked(key)
		s.metrics.Put(PutRejectedCapacity)
		return PutRejectedCapacity
	}

	n, exists := s.m[key]
	if ifAbsent && exists {
		s.metrics.Put(PutRejectedPresent)
		return PutRejectedPresent
	}
	if expectedOld != nil && (!exists || !bytes.Equal(expectedOld, n.val)) {
		s.metrics.Put(PutRejectedMismatch)
		return PutRejectedMismatch
	}

	v := append(make([]byte, 0, len(value)), value...)
	outcome := PutAdded
	if exists {
		old := n.size()
		s.free.Add(old)
		s.used -= old
		n.val = v
		s.pol.OnUpdate(n)
		s.putReplaceCount++
		outcome = PutReplaced
		s.metrics.Resident(0, sz-old)
	} else {
		n = &node{key: key, val: v}
		s.m[key] = n
		s.pol.OnAdd(n)
		s.putAddCount++
		s.metrics.Resident(1, sz)
	}
	s.free.Add(-sz)
	s.used += sz
	s.metrics.Put(outcome)
	return outcome
}

// Remove deletes key and releases its size. It returns false if key was
// absent, in which case nothing changes.
func (s *Segment) Remove(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(key)
}

// Clear releases every resident entry's size and empties the segment.
// Operation counters are left alone.
func (s *Segment) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var released int64
	for _, n := range s.m {
		released += n.size()
	}
	s.free.Add(released)
	s.metrics.Resident(-len(s.m), -released)

	s.m = make(map[Key]*node, s.initialCapacity)
	s.head, s.tail, s.len = nil, nil, 0
	s.used = 0
}

// Size returns the number of resident entries.
func (s *Segment) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.m))
}

// UsedBytes returns the budget charged to resident entries.
func (s *Segment) UsedBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

// Keys returns resident keys in recency order, most recent first.
func (s *Segment) Keys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]Key, 0, s.len)
	for n := s.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Stats returns a snapshot of the counters.
func (s *Segment) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		HitCount:        s.hitCount,
		MissCount:       s.missCount,
		PutAddCount:     s.putAddCount,
		PutReplaceCount: s.putReplaceCount,
		RemoveCount:     s.removeCount,
		EvictedEntries:  s.evictedEntries,
		Size:            int64(len(s.m)),
		UsedBytes:       s.used,
	}
}

// ResetStatistics zeroes the six counters. Entries and capacity are untouched.
func (s *Segment) ResetStatistics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hitCount = 0
	s.missCount = 0
	s.putAddCount = 0
	s.putReplaceCount = 0
	s.removeCount = 0
	s.evictedEntries = 0
}

// -------------------- internals (mu held) --------------------

func (s *Segment) removeLocked(key Key) bool {
	n, ok := s.m[key]
	if !ok {
		return false
	}
	sz := n.size()
	s.pol.OnRemove(n)
	delete(s.m, key)
	s.removeCount++
	s.free.Add(sz)
	s.used -= sz
	s.metrics.Remove()
	s.metrics.Resident(-1, -sz)
	return true
}

// pushFront links n at MRU.
func (s *Segment) pushFront(n *node) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.len++
}

// unlink detaches n from the list.
func (s *Segment) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
	s.len--
}

// moveToFront promotes a linked node to MRU.
func (s *Segment) moveToFront(n *node) {
	if n == s.head {
		return
	}
	s.unlink(n)
	s.pushFront(n)
}

// -------------------- policy hooks --------------------

// segmentHooks adapts the segment's list operations to policy.Hooks.
type segmentHooks struct{ s *Segment }

func (h segmentHooks) MoveToFront(x policy.Node[Key, []byte]) { h.s.moveToFront(x.(*node)) }
func (h segmentHooks) PushFront(x policy.Node[Key, []byte])   { h.s.pushFront(x.(*node)) }
func (h segmentHooks) Remove(x policy.Node[Key, []byte])      { h.s.unlink(x.(*node)) }
