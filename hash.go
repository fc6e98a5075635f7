package rhtable

// HashFunc computes a 64-bit hash for a key. finalize below mixes it
// before it is used to pick a slot, but that mixing only carries bits
// upward, so the low bits of the hash should still vary between keys
// (inputs whose low bits are constant, such as aligned pointer
// addresses, keep constant low bits after finalize).
type HashFunc[K comparable] func(key K) uint64

// emptySentinel is the finalized-hash value that marks a slot empty.
// Reserving zero removes the need for a parallel occupancy bitmap: a
// slot is occupied iff its stored hash is nonzero.
const emptySentinel = 0

// finalizerMultiplier is a fixed odd 64-bit constant with good avalanche
// behavior (same constant family as Abseil/fxhash-style multiplicative
// mixers).
const finalizerMultiplier = 0xc4ceb9fe1a85ec53

// finalize post-processes a user-supplied hash so that it (a) never
// equals emptySentinel and (b) spreads low-entropy inputs into the
// higher bits.
//
// Setting the top bit guarantees non-zero output unconditionally and
// for free. A multiply only propagates bits upward: the low bits that
// indexing consumes via mask depend only on the input's low bits, a
// known and accepted weakness. A fuller xorshift-style mixer could
// replace this without changing any caller.
func finalize(h uint64) uint64 {
	return (h * finalizerMultiplier) | (1 << 63)
}
