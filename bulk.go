package rhtable

import (
	"fmt"
	"strings"
)

// Each calls f for every live entry in physical slot order. If f
// structurally mutates t (inserts a new key, removes one, or clears the
// table), Each returns ErrContainerChanged as soon as it notices.
// Value-only updates to an existing key are safe and do not trigger
// this.
func (t *Table[K, V]) Each(f func(key K, value V) error) error {
	c := newCursor(t)
	for {
		idx, ok, err := c.advance()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		s := &c.slots[idx]
		if err := f(s.key, s.value); err != nil {
			return err
		}
	}
}

// unsafeEach runs f over every live entry without generation checking.
// It exists for internal traversals (Map, Filter, String, Hash, Equal)
// whose callbacks are value-deriving, not table-mutating; callers that
// do mutate t from within f get undefined iteration behavior, same
// caveat as the async bulk ops' "don't mutate the source mid-flight"
// contract.
func (t *Table[K, V]) unsafeEach(f func(key K, value V)) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.empty() {
			f(s.key, s.value)
		}
	}
}

// Find returns the value of the first entry (in physical slot order)
// for which p returns true.
func (t *Table[K, V]) Find(p func(key K, value V) bool) (V, bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.empty() && p(s.key, s.value) {
			return s.value, true
		}
	}
	var zero V
	return zero, false
}

// FindItem is Find but also returns the matching key.
func (t *Table[K, V]) FindItem(p func(key K, value V) bool) (K, V, bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.empty() && p(s.key, s.value) {
			return s.key, s.value, true
		}
	}
	var zeroK K
	var zeroV V
	return zeroK, zeroV, false
}

// Filter returns a new table containing only the entries for which p
// returns true. It starts small and grows as needed rather than
// presizing to t.Len(), since the result is typically much smaller
// than the source.
func (t *Table[K, V]) Filter(p func(key K, value V) bool) *Table[K, V] {
	result := WithCapacity[K, V](0, WithStrategy[K, V](t.strategy), WithHash[K, V](t.hash))
	t.unsafeEach(func(k K, v V) {
		if p(k, v) {
			result.Set(k, v)
		}
	})
	return result
}

// FilterNone returns a new table keeping only the entries whose value
// pointer is non-nil, dereferencing each into the result. Go has no
// language-level Option type, so a nil *V plays the "no value" role
// here.
func FilterNone[K comparable, V any](t *Table[K, *V]) *Table[K, V] {
	result := WithCapacity[K, V](0, WithStrategy[K, V](t.strategy), WithHash[K, V](t.hash))
	t.unsafeEach(func(k K, v *V) {
		if v != nil {
			result.Set(k, *v)
		}
	})
	return result
}

// Map returns a new table with the same keys as t but with each value
// replaced by f(key, value). It allocates a destination of the same
// raw size as t and reinserts every entry through the full Robin-Hood
// insertion path (Set), not the simplified grow path, the same path
// MapItems below uses.
func Map[K comparable, V any, V2 any](t *Table[K, V], f func(key K, value V) V2) *Table[K, V2] {
	result := &Table[K, V2]{
		slots:    make([]slot[K, V2], len(t.slots)),
		mask:     t.mask,
		strategy: t.strategy,
		hash:     t.hash,
	}
	t.unsafeEach(func(k K, v V) {
		result.Set(k, f(k, v))
	})
	return result
}

// MapItems returns a new table built by applying f to every (key,
// value) pair of t, collecting the results. Because f may map distinct
// source keys to the same destination key, the destination size is not
// knowable in advance; insertion uses the full Robin-Hood path, and
// later-produced pairs win on key collision, same as repeated Set.
func MapItems[K comparable, V any, K2 comparable, V2 any](
	t *Table[K, V],
	f func(key K, value V) (K2, V2),
	opts ...Option[K2, V2],
) *Table[K2, V2] {
	result := WithCapacity[K2, V2](t.Len(), opts...)
	t.unsafeEach(func(k K, v V) {
		k2, v2 := f(k, v)
		result.Set(k2, v2)
	})
	return result
}

// Equal reports whether a and b contain the same set of (key, value)
// pairs, independent of insertion or physical slot order.
//
// It checks len(a) == len(b) first and then scans only a's occupied
// slots against b.MaybeGet, an intentionally asymmetric scan. That's
// sound given the size check: a table never holds duplicate keys, so if
// b had any entry absent from a the sizes would already differ and
// there's no need to also scan b. A secondary index or weak-keyed
// variant would need to revisit this.
func Equal[K comparable, V comparable](a, b *Table[K, V]) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.unsafeEach(func(k K, v V) {
		if !equal {
			return
		}
		bv, ok := b.MaybeGet(k)
		if !ok || bv != v {
			equal = false
		}
	})
	return equal
}

// Hash computes an order-independent hash of t's contents: each slot
// contributes valueHash(value) rotated by bits derived from the key's
// hash before being summed in, so swapping values between two keys
// changes the overall result even though the multiset of values is
// unchanged.
func Hash[K comparable, V comparable](t *Table[K, V], valueHash func(V) uint64) uint64 {
	var acc uint64
	t.unsafeEach(func(k K, v V) {
		kh := finalize(t.hash(k))
		rot := uint(kh & 63)
		vh := valueHash(v)
		acc += (vh << rot) | (vh >> (64 - rot))
	})
	return acc
}

// String renders t's contents for debugging, in physical slot order.
func (t *Table[K, V]) String() string {
	var b strings.Builder
	b.WriteString("Table{")
	first := true
	t.unsafeEach(func(k K, v V) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", k, v)
	})
	b.WriteString("}")
	return b.String()
}
