package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
)

// benchmarkMix exercises a read/write mix against a warm cache.
func benchmarkMix(b *testing.B, readsPct int) {
	c := New(Options{Capacity: 64 << 20})
	b.Cleanup(func() { _ = c.Close() })

	keys := make([][]byte, 1<<16)
	for i := range keys {
		keys[i] = []byte("k:" + strconv.Itoa(i))
	}
	val := []byte("value-bytes")
	for i := 0; i < len(keys)/2; i++ {
		c.Put(keys[i], val)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := len(keys) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := keys[i&keyMask]
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, val)
			}
			i++
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// BenchmarkSegment_Get isolates the single-segment hit path.
func BenchmarkSegment_Get(b *testing.B) {
	free := new(atomic.Int64)
	free.Store(1 << 30)
	s := NewSegment(1024, free, Options{})
	keys := make([]Key, 1024)
	for i := range keys {
		keys[i] = StringKey("k" + strconv.Itoa(i))
		s.Put(keys[i], []byte("v"), false, nil)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get(keys[i&1023])
	}
}
