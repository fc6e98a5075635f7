package rhtable

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Table operations. Callers should compare
// against these with errors.Is rather than matching on error text, since
// key-related errors wrap one of these with extra context via %w
// (ErrContainerChanged and ErrInvalidArgument are returned as-is).
var (
	// ErrKeyNotFound is returned by Get and Remove when the key is absent.
	ErrKeyNotFound = errors.New("rhtable: key not found")

	// ErrDuplicateKey is returned by Add when the key already exists.
	ErrDuplicateKey = errors.New("rhtable: duplicate key")

	// ErrContainerChanged is returned by an iterator or by Each when
	// it observes that the table was structurally
	// mutated (a new key inserted, a key removed, or Clear/grow run)
	// since the operation began. Value-only updates to an existing key
	// do not trigger this.
	ErrContainerChanged = errors.New("rhtable: container changed during iteration")

	// ErrInvalidArgument is returned by EnsureCapacity for a negative
	// requested capacity.
	ErrInvalidArgument = errors.New("rhtable: invalid argument")
)

func errKeyNotFound(key any) error {
	return fmt.Errorf("get key %v: %w", key, ErrKeyNotFound)
}

func errDuplicateKey(key any) error {
	return fmt.Errorf("add key %v: %w", key, ErrDuplicateKey)
}

// invariant panics if cond is false. It guards internal consistency
// checks (power-of-two raw capacity, size preserved across growth) that
// should be impossible to trigger from outside the package; a failure
// here means this package has a bug, not that the caller passed
// something bad.
func invariant(cond bool, msg string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("rhtable: invariant violated: "+msg, args...))
	}
}
