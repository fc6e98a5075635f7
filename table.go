package rhtable

import (
	"fmt"
	"iter"

	"github.com/robinhoodtable/rhtable/hashkit"
)

// debug gates verbose tracing of Set/Remove/grow probe sequences.
const debug = false

// generationSkip is added to a Table's generation counter on any
// structural mutation. It's large enough that an iterator cursor
// derived from the old generation rockets past slots.len() on its next
// evaluation, which is what lets invalidation be a single O(1) addition
// rather than a per-step check (see iter.go).
const generationSkip = 1 << 32

// Table is an open-addressing hash table using Robin-Hood probing with
// backward-shift deletion. It is single-owner: concurrent mutation from
// multiple goroutines is not supported, and "concurrent modification"
// below means re-entrant mutation from within a callback passed to an
// iteration or bulk operation.
type Table[K comparable, V any] struct {
	slots      []slot[K, V]
	count      int
	mask       uint64
	generation uint64
	hash       HashFunc[K]
	strategy   SizingStrategy
}

// WithCapacity creates a Table sized to hold at least n entries without
// growing. n may be zero, in which case the table starts with a single
// slot (see SizingStrategy.RawOfReal) and grows on first insert.
func WithCapacity[K comparable, V any](n int, opts ...Option[K, V]) *Table[K, V] {
	if n < 0 {
		n = 0
	}
	t := &Table[K, V]{
		strategy: defaultStrategy,
		hash:     hashkit.Any[K],
	}
	for _, opt := range opts {
		opt(t)
	}
	raw := t.strategy.RawOfReal(uint64(n))
	t.slots = make([]slot[K, V], raw)
	t.mask = raw - 1
	return t
}

// FromItems creates a Table from a range-over-func sequence of
// key/value pairs and populates it. The sequence carries no length, so
// the table is not pre-sized: it starts as WithCapacity(0) and grows as
// pairs arrive. Later pairs overwrite earlier ones for the same key,
// same as repeated Set calls.
func FromItems[K comparable, V any](items iter.Seq2[K, V], opts ...Option[K, V]) *Table[K, V] {
	t := WithCapacity[K, V](0, opts...)
	for k, v := range items {
		t.Set(k, v)
	}
	return t
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int { return t.count }

// IsEmpty reports whether the table has no live entries.
func (t *Table[K, V]) IsEmpty() bool { return t.count == 0 }

// Capacity returns the real capacity: the maximum number of live
// entries the table can hold at its current raw size before growing.
// For the 1-slot table WithCapacity(0) creates, this is the strategy's
// RealOfRaw(1) (1 for Aggressive, 0 for the others), although the
// first insert always grows that table to MinRawCapacity.
func (t *Table[K, V]) Capacity() int {
	return int(t.strategy.RealOfRaw(uint64(len(t.slots))))
}

// EnsureCapacity grows the table, if needed, so that it can hold at
// least n entries without further growth. It returns ErrInvalidArgument
// for a negative n.
func (t *Table[K, V]) EnsureCapacity(n int) error {
	if n < 0 {
		return ErrInvalidArgument
	}
	wantRaw := t.strategy.RawOfReal(uint64(n))
	if wantRaw > uint64(len(t.slots)) {
		t.growTo(wantRaw)
	}
	return nil
}

func (t *Table[K, V]) idealSlot(h uint64) uint64 {
	return h & t.mask
}

func (t *Table[K, V]) bumpGeneration() {
	t.generation += generationSkip
}

// Get returns the value stored for key, or ErrKeyNotFound if absent.
func (t *Table[K, V]) Get(key K) (V, error) {
	if idx, ok := t.find(key); ok {
		return t.slots[idx].value, nil
	}
	var zero V
	return zero, errKeyNotFound(key)
}

// MaybeGet returns the value stored for key and whether it was present.
func (t *Table[K, V]) MaybeGet(key K) (V, bool) {
	if idx, ok := t.find(key); ok {
		return t.slots[idx].value, true
	}
	var zero V
	return zero, false
}

// GetItem returns the (key, value) pair stored for key. The returned
// key is always == key by Go's == but may differ in representation for
// types where that matters (it never does for comparable types without
// pointers, but the accessor exists for symmetry with Get/MaybeGet).
func (t *Table[K, V]) GetItem(key K) (K, V, error) {
	if idx, ok := t.find(key); ok {
		s := &t.slots[idx]
		return s.key, s.value, nil
	}
	var zeroK K
	var zeroV V
	return zeroK, zeroV, errKeyNotFound(key)
}

// ContainsKey reports whether key is present.
func (t *Table[K, V]) ContainsKey(key K) bool {
	_, ok := t.find(key)
	return ok
}

// find implements the Robin-Hood lookup algorithm: walk forward from
// the ideal slot, early-exiting as soon as the current
// entry's probe distance is shorter than the distance already walked,
// since by the ordering invariant the sought key would have displaced
// such an entry were it present.
func (t *Table[K, V]) find(key K) (uint64, bool) {
	if len(t.slots) == 0 {
		return 0, false
	}
	h := finalize(t.hash(key))
	i := t.idealSlot(h)
	var dist uint64
	for {
		s := &t.slots[i]
		if s.empty() {
			return 0, false
		}
		if s.hash == h && s.key == key {
			return i, true
		}
		entryDist := probeDistance(i, s.hash, t.mask)
		if entryDist < dist {
			return 0, false
		}
		i = (i + 1) & t.mask
		dist++
	}
}

// Set inserts key/value, or replaces the value if key is already
// present. Inserting a new key invalidates live iterators; replacing
// the value of an existing key does not.
func (t *Table[K, V]) Set(key K, value V) {
	t.growIfFull()
	t.setHelper(key, value, false)
}

// Add inserts key/value, failing with ErrDuplicateKey if key already
// exists.
func (t *Table[K, V]) Add(key K, value V) error {
	t.growIfFull()
	inserted := t.setHelper(key, value, true)
	if !inserted {
		return errDuplicateKey(key)
	}
	return nil
}

// MaybeSet inserts key/value only if key is not already present. It
// returns true if the entry was inserted, false if key already existed
// (in which case the existing value is left untouched).
func (t *Table[K, V]) MaybeSet(key K, value V) bool {
	t.growIfFull()
	return t.setHelper(key, value, true)
}

// GetOrAdd returns the value for key if present; otherwise it calls
// factory, inserts the result, and returns it.
func (t *Table[K, V]) GetOrAdd(key K, factory func() V) V {
	if idx, ok := t.find(key); ok {
		return t.slots[idx].value
	}
	v := factory()
	t.growIfFull()
	t.setHelper(key, v, true)
	return v
}

func (t *Table[K, V]) growIfFull() {
	// The degenerate zero-size table (a single slot, per
	// SizingStrategy.RawOfReal(0) == 1) jumps straight to
	// MinRawCapacity on the first insert rather than doubling. The
	// explicit length check matters for Aggressive, whose
	// RealOfRaw(1) == 1 would otherwise let an entry live in the
	// 1-slot array.
	if uint64(len(t.slots)) < MinRawCapacity {
		t.growTo(MinRawCapacity)
		return
	}
	if uint64(t.count) >= t.strategy.RealOfRaw(uint64(len(t.slots))) {
		t.growTo(uint64(len(t.slots)) * 2)
	}
}

// setHelper runs the full Robin-Hood insertion algorithm.
// When failOnDuplicate is true and key is already present, it returns
// false without modifying the table (used by Add/MaybeSet/GetOrAdd);
// otherwise an existing key's value is replaced in place. Returns true
// iff a new entry was inserted.
func (t *Table[K, V]) setHelper(key K, value V, failOnDuplicate bool) bool {
	h := finalize(t.hash(key))
	i := t.idealSlot(h)
	var dist uint64

	current := slot[K, V]{hash: h, key: key, value: value}

	for {
		s := &t.slots[i]
		if s.empty() {
			if debug {
				fmt.Println("set: placing in empty slot:", i, "dist:", dist)
			}
			*s = current
			t.count++
			t.bumpGeneration()
			return true
		}
		if s.hash == current.hash && s.key == current.key {
			if failOnDuplicate {
				return false
			}
			if debug {
				fmt.Println("set: updating existing key at slot:", i)
			}
			s.value = current.value
			return false
		}
		entryDist := probeDistance(i, s.hash, t.mask)
		if entryDist < dist {
			// The entry at i is "richer" than we are: swap and carry
			// on with its former contents, now searching for a home
			// for them starting one slot further on.
			if debug {
				fmt.Println("set: displacing richer entry at slot:", i, "entryDist:", entryDist, "dist:", dist)
			}
			current, *s = *s, current
			dist = entryDist
		}
		i = (i + 1) & t.mask
		dist++
	}
}

// Remove deletes key, failing with ErrKeyNotFound if absent.
func (t *Table[K, V]) Remove(key K) error {
	if !t.MaybeRemove(key) {
		return errKeyNotFound(key)
	}
	return nil
}

// MaybeRemove deletes key if present and reports whether it was.
func (t *Table[K, V]) MaybeRemove(key K) bool {
	idx, ok := t.find(key)
	if !ok {
		return false
	}
	t.removeAt(idx)
	t.count--
	t.bumpGeneration()
	return true
}

// removeAt implements backward-shift deletion: slide each
// subsequent displaced entry back one slot until we hit either an empty
// slot or an entry already at its ideal position, restoring Robin-Hood
// ordering without rehashing anything.
func (t *Table[K, V]) removeAt(i uint64) {
	for {
		next := (i + 1) & t.mask
		ns := &t.slots[next]
		if ns.empty() || (ns.hash&t.mask) == next {
			break
		}
		if debug {
			fmt.Println("remove: shifting slot", next, "back to", i)
		}
		t.slots[i] = *ns
		i = next
	}
	t.slots[i].clear()
}

// Clear removes all entries, invalidating live iterators.
func (t *Table[K, V]) Clear() {
	for i := range t.slots {
		t.slots[i].clear()
	}
	t.count = 0
	t.bumpGeneration()
}

// growTo reallocates the slot array to newRaw slots (a power of two
// no smaller than the current size) and reinserts every live entry.
//
// Reinsertion uses growSetHelper, a simplified placement that skips the
// rich/poor comparison: the destination starts empty, so placement
// reduces to "first empty slot at or after the ideal slot." To keep
// relative order deterministic, the source array is walked starting
// from an anchor, the first slot whose probe distance is zero, so
// that no entry is reinserted ahead of another entry sharing its ideal
// slot that should logically precede it.
func (t *Table[K, V]) growTo(newRaw uint64) {
	invariant(newRaw&(newRaw-1) == 0, "new raw capacity %d is not a power of two", newRaw)

	if debug {
		fmt.Println("grow: raw capacity", len(t.slots), "->", newRaw)
	}

	oldSlots := t.slots
	oldCount := t.count

	newSlots := make([]slot[K, V], newRaw)
	newMask := newRaw - 1

	anchor := findAnchor(oldSlots, t.mask)
	n := uint64(len(oldSlots))
	moved := 0
	for step := uint64(0); n > 0 && step < n; step++ {
		idx := (anchor + step) % n
		s := &oldSlots[idx]
		if s.empty() {
			continue
		}
		growSetHelper(newSlots, newMask, s.hash, s.key, s.value)
		moved++
	}

	t.slots = newSlots
	t.mask = newMask
	invariant(moved == oldCount, "size changed during grow: before=%d after=%d", oldCount, moved)
	t.bumpGeneration()
}

// findAnchor returns the index of the first slot (scanning from 0)
// whose probe distance is zero, or 0 if no such slot exists (a fully
// displaced ring, which can only happen in a completely empty table).
func findAnchor[K comparable, V any](slots []slot[K, V], mask uint64) uint64 {
	for i := range slots {
		s := &slots[i]
		if !s.empty() && probeDistance(uint64(i), s.hash, mask) == 0 {
			return uint64(i)
		}
	}
	return 0
}

// growSetHelper places an already-finalized (hash, key, value) into a
// freshly allocated destination array, used by growTo and Clone. It
// never displaces an existing entry: both callers feed it the source's
// live entries in anchor order (see growTo), so placing each at the
// first empty slot at or after its ideal slot keeps Robin-Hood order.
func growSetHelper[K comparable, V any](slots []slot[K, V], mask, h uint64, key K, value V) {
	i := h & mask
	for {
		s := &slots[i]
		if s.empty() {
			*s = slot[K, V]{hash: h, key: key, value: value}
			return
		}
		i = (i + 1) & mask
	}
}

// Clone returns an independent copy of t. reserve is an additional hint
// for expected future growth; the clone's real capacity is at least
// max(t.Len()+reserve, t.Capacity()). Mutating the clone never affects
// the original and vice versa. The clone starts at a fresh generation;
// iterators created against the original remain valid against the
// original only.
func (t *Table[K, V]) Clone(reserve int) *Table[K, V] {
	wantReal := t.count + reserve
	raw := t.strategy.RawOfReal(uint64(max(wantReal, 0)))
	if raw < uint64(len(t.slots)) {
		raw = uint64(len(t.slots))
	}

	clone := &Table[K, V]{
		strategy: t.strategy,
		hash:     t.hash,
	}
	if raw == uint64(len(t.slots)) {
		clone.slots = make([]slot[K, V], len(t.slots))
		copy(clone.slots, t.slots)
		clone.mask = t.mask
		clone.count = t.count
		return clone
	}

	clone.slots = make([]slot[K, V], raw)
	clone.mask = raw - 1
	anchor := findAnchor(t.slots, t.mask)
	n := uint64(len(t.slots))
	for step := uint64(0); n > 0 && step < n; step++ {
		idx := (anchor + step) % n
		s := &t.slots[idx]
		if s.empty() {
			continue
		}
		growSetHelper(clone.slots, clone.mask, s.hash, s.key, s.value)
	}
	clone.count = t.count
	return clone
}
