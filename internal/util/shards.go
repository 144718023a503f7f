package util

import "runtime"

// MaxSegments bounds the automatic segment count.
const MaxSegments = 256

// ReasonableShardCount picks a default segment count from CPU parallelism:
// nextPow2(2*GOMAXPROCS), clamped to [1..MaxSegments].
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(p * 2)))
	if n > MaxSegments {
		n = MaxSegments
	}
	return n
}

// SegmentCount normalises a requested segment count: non-positive means
// auto, anything else is rounded up to a power of two.
func SegmentCount(requested int) int {
	if requested <= 0 {
		return ReasonableShardCount()
	}
	return int(NextPow2(uint64(requested)))
}

// ShardIndex maps a 64-bit hash to a segment index.
// Power-of-two counts take the mask path; other counts fall back to modulo.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}
