package rhtable

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelFill concurrently computes produce(i) for i in [0, n) and
// returns the results in index order. AsyncMap and AsyncFilter treat it
// as a black-box scheduler: the only guarantee they rely on is that
// result ordering is by index, not that any particular parallelism
// happens.
//
// It's backed by golang.org/x/sync/errgroup with a worker count capped
// at GOMAXPROCS (and at n): [0, n) is split into contiguous chunks of
// ceil(n/workers) indices, one goroutine per chunk. A false second
// return value from produce
// means "no result for this index," and that slot's ok flag mirrors it
// back to the caller.
func parallelFill[T any](n int, produce func(i int) (T, bool)) ([]T, []bool) {
	results := make([]T, n)
	oks := make([]bool, n)
	if n == 0 {
		return results, oks
	}

	workers := min(runtime.GOMAXPROCS(0), n)
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			continue
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				v, ok := produce(i)
				results[i] = v
				oks[i] = ok
			}
			return nil
		})
	}
	_ = g.Wait() // produce never returns an error in this package's use

	return results, oks
}

// AsyncMap is the concurrent counterpart to Map: it applies f to every
// slot of t (skipping empty ones) using parallelFill, then assembles a
// new table of the same raw size and live count. The source table must
// not be mutated between the call and its return; parallelFill is the
// only suspension point in this package, and resuming into a mutated
// source table is caller-introduced undefined behavior, not something
// the generation mechanism catches here.
func AsyncMap[K comparable, V any, V2 any](t *Table[K, V], f func(key K, value V) V2) *Table[K, V2] {
	type produced struct {
		hash  uint64
		key   K
		value V2
	}

	n := len(t.slots)
	results, _ := parallelFill(n, func(i int) (produced, bool) {
		s := &t.slots[i]
		if s.empty() {
			return produced{}, false
		}
		return produced{hash: s.hash, key: s.key, value: f(s.key, s.value)}, true
	})

	newSlots := make([]slot[K, V2], n)
	for i, p := range results {
		if t.slots[i].empty() {
			continue
		}
		newSlots[i] = slot[K, V2]{hash: p.hash, key: p.key, value: p.value}
	}

	return &Table[K, V2]{
		slots:    newSlots,
		mask:     t.mask,
		count:    t.count,
		strategy: t.strategy,
		hash:     t.hash,
	}
}

// AsyncFilter is the concurrent counterpart to Filter: it evaluates p
// over every entry in parallel via parallelFill, counts the matches,
// allocates a destination sized exactly for them, and fills it
// sequentially (insertion order still matters for Robin-Hood placement,
// so the fill itself is not parallelized). If every entry matches, it
// short-circuits and returns t.Clone(0) instead of doing the work twice.
func AsyncFilter[K comparable, V any](t *Table[K, V], p func(key K, value V) bool) *Table[K, V] {
	n := len(t.slots)
	matches, _ := parallelFill(n, func(i int) (bool, bool) {
		s := &t.slots[i]
		if s.empty() {
			return false, true
		}
		return p(s.key, s.value), true
	})

	matchCount := 0
	for i, m := range matches {
		if m && !t.slots[i].empty() {
			matchCount++
		}
	}
	if matchCount == t.count {
		return t.Clone(0)
	}

	result := WithCapacity[K, V](matchCount, WithStrategy[K, V](t.strategy), WithHash[K, V](t.hash))
	for i, m := range matches {
		if m && !t.slots[i].empty() {
			s := &t.slots[i]
			result.Set(s.key, s.value)
		}
	}
	return result
}
