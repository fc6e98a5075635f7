package rhtable

// slot is a packed (hash, key, value) triple. A slot is empty iff
// hash == emptySentinel. When empty, key and value hold K's and V's
// zero values and must not be interpreted as live data by any caller.
// Go gives us no raw/uninitialized storage for generic types, so the
// zero value plays that role here.
type slot[K comparable, V any] struct {
	hash  uint64
	key   K
	value V
}

func (s *slot[K, V]) empty() bool {
	return s.hash == emptySentinel
}

func (s *slot[K, V]) clear() {
	var zeroK K
	var zeroV V
	s.hash = emptySentinel
	s.key = zeroK
	s.value = zeroV
}

// probeDistance returns how far slot i is from the ideal slot implied
// by hash h, for a table with the given mask. This is the quantity
// Robin-Hood ordering is defined over.
func probeDistance(i, h, mask uint64) uint64 {
	return (i - (h & mask)) & mask
}
