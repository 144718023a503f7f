package cache

import (
	"context"
	"log/slog"

	"github.com/IvanBrykalov/segcache/policy"
	"github.com/IvanBrykalov/segcache/policy/lru"
)

// PutOutcome classifies the result of a put. Callers of Put only see a bool;
// the outcome is reported to Metrics and the debug log.
type PutOutcome int

const (
	// PutAdded: a new entry was admitted.
	PutAdded PutOutcome = iota
	// PutReplaced: an existing entry's value was replaced.
	PutReplaced
	// PutRejectedCapacity: the shared free capacity was below the entry size.
	// Any existing entry under the same key has been removed.
	PutRejectedCapacity
	// PutRejectedPresent: ifAbsent was requested and the key exists.
	PutRejectedPresent
	// PutRejectedMismatch: the expected old value did not match.
	PutRejectedMismatch
)

// OK reports whether the put stored the value.
func (o PutOutcome) OK() bool { return o == PutAdded || o == PutReplaced }

func (o PutOutcome) String() string {
	switch o {
	case PutAdded:
		return "added"
	case PutReplaced:
		return "replaced"
	case PutRejectedCapacity:
		return "rejected_capacity"
	case PutRejectedPresent:
		return "rejected_present"
	case PutRejectedMismatch:
		return "rejected_mismatch"
	default:
		return "unknown"
	}
}

// Metrics exposes cache-level observability hooks.
// Segments call them under their own lock; keep implementations cheap.
type Metrics interface {
	Hit()
	Miss()
	Put(outcome PutOutcome)
	Remove()
	// Resident reports a change in resident entries and budget bytes.
	Resident(entries int, bytes int64)
}

// Options configures a Table (and the segments it creates).
// Zero values are safe except Capacity; defaults are applied in New():
//   - Segments <= 0          => auto (≈ 2*GOMAXPROCS, power of two)
//   - SegmentInitialCapacity => 16 entries per segment map
//   - nil Policy             => LRU recency ordering
//   - nil Metrics            => NoopMetrics
//   - nil Logger             => discard
type Options struct {
	// Capacity is the total byte budget shared by all segments.
	Capacity int64

	// Segments is the number of segments, rounded up to a power of two.
	Segments int

	// SegmentInitialCapacity presizes each segment's map.
	SegmentInitialCapacity int

	// Policy orders entries by recency inside a segment.
	Policy policy.Policy[Key, []byte]

	// Loader fetches a value on miss. Used by GetOrLoad.
	Loader func(ctx context.Context, key []byte) ([]byte, error)

	Metrics Metrics
	Logger  *slog.Logger
}

const defaultSegmentInitialCapacity = 16

func (o Options) withDefaults() Options {
	if o.SegmentInitialCapacity <= 0 {
		o.SegmentInitialCapacity = defaultSegmentInitialCapacity
	}
	if o.Policy == nil {
		o.Policy = lru.New[Key, []byte]()
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
