package rhtable

// cursor is the shared skip-empty driver behind Keys, Values and Items.
// It snapshots the slot-array reference at creation time and keeps only
// a non-owning pointer back to the table, used solely to read its live
// generation counter.
//
// Invalidation works without a per-step branch: indexMinusGeneration is
// stored so that cursor = indexMinusGeneration + table.generation.
// Advancing it is an ordinary increment; any structural mutation of the
// table bumps table.generation by generationSkip, which rockets the
// computed cursor past len(slots) on the very next advance. The cost of
// detecting that therefore lands entirely on the (already-required)
// bounds check at the end of iteration, not on every step.
type cursor[K comparable, V any] struct {
	slots                []slot[K, V]
	table                *Table[K, V]
	indexMinusGeneration uint64
}

func newCursor[K comparable, V any](t *Table[K, V]) cursor[K, V] {
	return cursor[K, V]{
		slots:                t.slots,
		table:                t,
		indexMinusGeneration: 0 - t.generation,
	}
}

// advance returns the index of the next occupied slot, or ok == false
// at the end of iteration, or a non-nil err (ErrContainerChanged) if
// the table was structurally mutated since the cursor was created.
func (c *cursor[K, V]) advance() (idx uint64, ok bool, err error) {
	for {
		pos := c.indexMinusGeneration + c.table.generation
		if pos >= uint64(len(c.slots)) {
			if pos >= generationSkip {
				return 0, false, ErrContainerChanged
			}
			return 0, false, nil
		}
		c.indexMinusGeneration++
		if !c.slots[pos].empty() {
			return pos, true, nil
		}
	}
}

// KeyIter iterates the live keys of a Table in physical slot order.
type KeyIter[K comparable, V any] struct{ c cursor[K, V] }

// Keys returns an iterator over t's keys. The iteration order is the
// table's current physical slot order; it is unspecified across
// resizes but deterministic within one table instance between
// mutations.
func (t *Table[K, V]) Keys() *KeyIter[K, V] {
	return &KeyIter[K, V]{c: newCursor(t)}
}

// Next advances the iterator. ok is false at end of iteration; err is
// ErrContainerChanged if t was mutated since this iterator (or its
// underlying Keys/Values/Items call) was created.
func (it *KeyIter[K, V]) Next() (key K, ok bool, err error) {
	idx, ok, err := it.c.advance()
	if !ok || err != nil {
		var zero K
		return zero, ok, err
	}
	return it.c.slots[idx].key, true, nil
}

// ValueIter iterates the live values of a Table in physical slot order.
type ValueIter[K comparable, V any] struct{ c cursor[K, V] }

// Values returns an iterator over t's values.
func (t *Table[K, V]) Values() *ValueIter[K, V] {
	return &ValueIter[K, V]{c: newCursor(t)}
}

// Next advances the iterator, same contract as KeyIter.Next.
func (it *ValueIter[K, V]) Next() (value V, ok bool, err error) {
	idx, ok, err := it.c.advance()
	if !ok || err != nil {
		var zero V
		return zero, ok, err
	}
	return it.c.slots[idx].value, true, nil
}

// ItemIter iterates the live (key, value) pairs of a Table in physical
// slot order.
type ItemIter[K comparable, V any] struct{ c cursor[K, V] }

// Items returns an iterator over t's (key, value) pairs.
func (t *Table[K, V]) Items() *ItemIter[K, V] {
	return &ItemIter[K, V]{c: newCursor(t)}
}

// Next advances the iterator, same contract as KeyIter.Next.
func (it *ItemIter[K, V]) Next() (key K, value V, ok bool, err error) {
	idx, ok, err := it.c.advance()
	if !ok || err != nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, ok, err
	}
	s := &it.c.slots[idx]
	return s.key, s.value, true, nil
}
