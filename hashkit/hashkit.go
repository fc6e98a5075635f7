// Package hashkit provides ready-made hash functions for keying an
// rhtable.Table, built on the same hashers the rest of the retrieval
// pack reaches for rather than anything home-rolled.
//
// templexxx/u64 keeps two named, swappable hash funcs side by side
// (hashFunc0 backed by xxh3, hashFunc1 backed by xxhash) instead of
// hardcoding one choice into its set type; this package mirrors that
// split.
package hashkit

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// String hashes s with xxhash, a solid general-purpose default for
// string keys.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bytes hashes b with xxhash.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Fast hashes b with xxh3, which outperforms xxhash on short inputs at
// the cost of being a newer, less battle-tested algorithm. Offered as
// an alternative rather than a replacement, same as templexxx/u64 keeps
// both hashFunc0 and hashFunc1 rather than picking one.
func Fast(b []byte) uint64 {
	return xxh3.Hash(b)
}

// Uint64 hashes a 64-bit integer via xxh3 over its 8 little-endian
// bytes, so callers need not build a byte slice for Bytes/Fast.
func Uint64(x uint64) uint64 {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(x >> (8 * i))
	}
	return xxh3.Hash(buf[:])
}

// Any is a convenience default hash for an arbitrary comparable key
// type: it formats the key with fmt.Sprintf and hashes the result with
// xxhash. It is correct for any comparable K (equal keys format
// identically) but is not fast; callers with a performance-sensitive
// key type should pass a tailored hash function (e.g. String, Bytes, or
// Uint64) via rhtable.WithHash instead.
func Any[K comparable](k K) uint64 {
	return String(fmt.Sprintf("%#v", k))
}
