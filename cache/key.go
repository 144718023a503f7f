package cache

import (
	"fmt"

	"github.com/IvanBrykalov/segcache/internal/util"
)

// Key is an immutable, comparable key with a precomputed hash.
// Two keys are equal iff their bytes are equal, so Key can be used directly
// as a map key.
type Key struct {
	b    string
	hash uint64
}

// NewKey copies b into a Key. Later changes to b do not affect the key.
func NewKey(b []byte) Key {
	return Key{b: string(b), hash: util.Hash64(b)}
}

// StringKey builds a Key from a string without an extra copy.
func StringKey(s string) Key {
	return Key{b: s, hash: util.HashString(s)}
}

// Size is the encoded key length in bytes.
func (k Key) Size() int { return len(k.b) }

// Hash returns the key's 64-bit hash (xxhash of the key bytes).
func (k Key) Hash() uint64 { return k.hash }

// Bytes returns a copy of the key bytes.
func (k Key) Bytes() []byte { return []byte(k.b) }

// String implements fmt.Stringer; non-printable bytes are quoted.
func (k Key) String() string { return fmt.Sprintf("%q", k.b) }
