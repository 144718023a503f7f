// Package util contains internal helpers (hashing, sharding, padding).
//
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "github.com/cespare/xxhash/v2"

// Hash64 returns the 64-bit xxhash of b.
// It is stable across processes, so segment routing is reproducible
// between runs that compare results.
func Hash64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashString is Hash64 for string-backed keys without a []byte conversion.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}
