package rhtable

import (
	"errors"
	"testing"
)

func TestIterator_Keys(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	want := map[int]bool{}
	for k := 0; k < 20; k++ {
		tbl.Set(k, k)
		want[k] = true
	}

	got := map[int]bool{}
	it := tbl.Keys()
	for {
		k, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Keys().Next() err = %v, want nil", err)
		}
		if !ok {
			break
		}
		got[k] = true
	}

	if len(got) != len(want) {
		t.Fatalf("iterated %d keys, want %d", len(got), len(want))
	}
	for k := range want {
		if !got[k] {
			t.Errorf("key %d not seen during iteration", k)
		}
	}
}

func TestIterator_Values(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	for k := 0; k < 20; k++ {
		tbl.Set(k, k*k)
	}

	seenCount := 0
	it := tbl.Values()
	for {
		v, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Values().Next() err = %v, want nil", err)
		}
		if !ok {
			break
		}
		if v < 0 {
			t.Errorf("unexpected negative value %d", v)
		}
		seenCount++
	}
	if seenCount != 20 {
		t.Fatalf("iterated %d values, want 20", seenCount)
	}
}

// Create an iterator, then insert a brand new key; the iterator's next
// advance past the table end must report ErrContainerChanged.
func TestIterator_InvalidatedByNewKey(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	tbl.Set(1, 1)
	tbl.Set(2, 2)

	it := tbl.Items()
	tbl.Set(3, 3) // a brand new key: structural mutation

	sawErr := false
	for {
		_, _, ok, err := it.Next()
		if err != nil {
			if !errors.Is(err, ErrContainerChanged) {
				t.Fatalf("Next() err = %v, want ErrContainerChanged", err)
			}
			sawErr = true
			break
		}
		if !ok {
			break
		}
	}
	if !sawErr {
		t.Errorf("iterator completed without ErrContainerChanged after a structural mutation")
	}
}

// Create an iterator, then set an existing key to a new value; the
// iterator must continue to completion without error.
func TestIterator_ValueOnlyUpdateDoesNotInvalidate(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	tbl.Set(1, 1)
	tbl.Set(2, 2)
	tbl.Set(3, 3)

	it := tbl.Items()
	tbl.Set(2, 99) // existing key, value-only update

	count := 0
	for {
		_, _, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next() err = %v, want nil (value-only update must not invalidate)", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Errorf("iterated %d items, want 3", count)
	}
}

func TestIterator_InvalidatedByRemove(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	tbl.Set(1, 1)
	tbl.Set(2, 2)

	it := tbl.Keys()
	tbl.Remove(1)

	for {
		_, ok, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrContainerChanged) {
				return
			}
			t.Fatalf("Next() err = %v, want ErrContainerChanged", err)
		}
		if !ok {
			t.Fatalf("iterator completed without ErrContainerChanged after Remove")
		}
	}
}

func TestIterator_InvalidatedByClear(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	for k := 0; k < 5; k++ {
		tbl.Set(k, k)
	}

	it := tbl.Values()
	tbl.Clear()

	for {
		_, ok, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrContainerChanged) {
				return
			}
			t.Fatalf("Next() err = %v, want ErrContainerChanged", err)
		}
		if !ok {
			t.Fatalf("iterator completed without ErrContainerChanged after Clear")
		}
	}
}

func TestIterator_InvalidatedByGrow(t *testing.T) {
	tbl := WithCapacity[int, int](0, WithStrategy[int, int](Conservative))
	realCap := tbl.Capacity()
	for k := 0; k < realCap; k++ {
		tbl.Set(k, k)
	}

	it := tbl.Keys()
	tbl.Set(realCap, realCap) // forces growTo

	for {
		_, ok, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrContainerChanged) {
				return
			}
			t.Fatalf("Next() err = %v, want ErrContainerChanged", err)
		}
		if !ok {
			t.Fatalf("iterator completed without ErrContainerChanged after forced grow")
		}
	}
}

// Each must surface ErrContainerChanged the same way an explicit
// iterator does when the callback mutates the table structurally.
func TestEach_DetectsStructuralMutation(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	tbl.Set(1, 1)
	tbl.Set(2, 2)

	err := tbl.Each(func(k, v int) error {
		if k == 1 {
			tbl.Set(3, 3)
		}
		return nil
	})
	if !errors.Is(err, ErrContainerChanged) {
		t.Fatalf("Each() err = %v, want ErrContainerChanged", err)
	}
}

func TestEach_ValueUpdateDoesNotInterrupt(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	tbl.Set(1, 1)
	tbl.Set(2, 2)
	tbl.Set(3, 3)

	visited := 0
	err := tbl.Each(func(k, v int) error {
		visited++
		tbl.Set(k, v*10)
		return nil
	})
	if err != nil {
		t.Fatalf("Each() err = %v, want nil", err)
	}
	if visited != 3 {
		t.Errorf("Each() visited %d entries, want 3", visited)
	}
}

func TestEach_PropagatesCallbackError(t *testing.T) {
	tbl := WithCapacity[int, int](0)
	tbl.Set(1, 1)

	sentinel := errors.New("boom")
	err := tbl.Each(func(k, v int) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Each() err = %v, want sentinel", err)
	}
}
