package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/IvanBrykalov/segcache/internal/singleflight"
	"github.com/IvanBrykalov/segcache/internal/util"
)

// table owns the segments and the free-capacity counter they share.
type table struct {
	segments []*Segment
	capacity int64
	free     util.PaddedAtomicInt64
	closed   atomic.Bool

	opt Options
	log *slog.Logger

	sf singleflight.Group[string, []byte]
}

// New constructs a Cache. It panics if opt.Capacity <= 0.
func New(opt Options) Cache {
	c, err := NewE(opt)
	if err != nil {
		panic(err)
	}
	return c
}

// NewE is New returning an error instead of panicking.
func NewE(opt Options) (Cache, error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0, got %d", ErrInvalidOptions, opt.Capacity)
	}
	if opt.SegmentInitialCapacity < 0 {
		return nil, fmt.Errorf("%w: negative segment initial capacity %d", ErrInvalidOptions, opt.SegmentInitialCapacity)
	}
	opt = opt.withDefaults()
	opt.Segments = util.SegmentCount(opt.Segments)

	t := &table{
		segments: make([]*Segment, opt.Segments),
		capacity: opt.Capacity,
		opt:      opt,
		log:      opt.Logger.With(slog.String("component", "segcache")),
	}
	t.free.Store(opt.Capacity)
	for i := range t.segments {
		t.segments[i] = NewSegment(opt.SegmentInitialCapacity, &t.free.Int64, opt)
	}
	t.log.Debug("cache created",
		slog.Int64("capacity", opt.Capacity),
		slog.Int("segments", opt.Segments))
	return t, nil
}

// ---- Cache implementation ----

func (t *table) Get(k []byte) ([]byte, bool) {
	if t.closed.Load() {
		return nil, false
	}
	key := NewKey(k)
	return t.segmentFor(key).Get(key)
}

func (t *table) Put(k, v []byte) bool {
	return t.put(k, v, false, nil)
}

func (t *table) PutIfAbsent(k, v []byte) bool {
	return t.put(k, v, true, nil)
}

func (t *table) Replace(k, old, v []byte) bool {
	if old == nil {
		// A nil expectation would turn the CAS into a blind put.
		t.log.Debug("replace without expected value", slog.String("key", fmt.Sprintf("%q", k)))
		return false
	}
	return t.put(k, v, false, old)
}

func (t *table) Remove(k []byte) bool {
	if t.closed.Load() {
		return false
	}
	key := NewKey(k)
	return t.segmentFor(key).Remove(key)
}

func (t *table) Clear() {
	for _, s := range t.segments {
		s.Clear()
	}
	t.log.Info("cache cleared", slog.Int64("free_capacity", t.free.Load()))
}

func (t *table) Size() int64 {
	var n int64
	for _, s := range t.segments {
		n += s.Size()
	}
	return n
}

func (t *table) Capacity() int64 { return t.capacity }

func (t *table) FreeCapacity() int64 { return t.free.Load() }

func (t *table) Stats() TableStats {
	var sum Stats
	for _, s := range t.segments {
		sum = sum.Add(s.Stats())
	}
	return TableStats{
		Stats:        sum,
		Segments:     len(t.segments),
		Capacity:     t.capacity,
		FreeCapacity: t.free.Load(),
	}
}

func (t *table) SegmentStats() []Stats {
	out := make([]Stats, len(t.segments))
	for i, s := range t.segments {
		out[i] = s.Stats()
	}
	return out
}

func (t *table) ResetStatistics() {
	for _, s := range t.segments {
		s.ResetStatistics()
	}
}

func (t *table) GetOrLoad(ctx context.Context, k []byte) ([]byte, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if v, ok := t.Get(k); ok {
		return v, nil
	}
	if t.opt.Loader == nil {
		return nil, ErrNoLoader
	}

	v, err, shared := t.sf.Do(ctx, string(k), func() ([]byte, error) {
		// Another flight may have admitted the key meanwhile. The miss was
		// already counted above.
		key := NewKey(k)
		if v, ok := t.segmentFor(key).peek(key); ok {
			return v, nil
		}
		v, err := t.opt.Loader(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", k, err)
		}
		if !t.PutIfAbsent(k, v) {
			// Either budget rejection or a concurrent writer won; the
			// loaded value is still returned to the caller.
			t.log.Debug("loaded value not admitted", slog.String("key", fmt.Sprintf("%q", k)))
		}
		return v, nil
	})
	if shared {
		t.log.Debug("load coalesced", slog.String("key", fmt.Sprintf("%q", k)))
	}
	return v, err
}

func (t *table) Close() error {
	if t.closed.CompareAndSwap(false, true) {
		t.log.Info("cache closed", slog.Int64("entries", t.Size()))
	}
	return nil
}

// ---- helpers ----

func (t *table) put(k, v []byte, ifAbsent bool, old []byte) bool {
	if t.closed.Load() {
		return false
	}
	key := NewKey(k)
	idx := util.ShardIndex(key.Hash(), len(t.segments))
	outcome := t.segments[idx].put(key, v, ifAbsent, old)
	if !outcome.OK() {
		t.log.Debug("put rejected",
			slog.String("key", key.String()),
			slog.String("reason", outcome.String()),
			slog.Int("segment", idx),
			slog.Int64("size", SizeOf(key, v)))
	}
	return outcome.OK()
}

// segmentFor routes key to its segment.
func (t *table) segmentFor(key Key) *Segment {
	return t.segments[util.ShardIndex(key.Hash(), len(t.segments))]
}
