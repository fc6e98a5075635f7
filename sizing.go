package rhtable

// MinRawCapacity is the smallest nonzero physical slot-array length a
// table may have. A zero-size table is special-cased to a single slot
// (see SizingStrategy.RawOfReal) purely to keep the lookup/insert loops
// from needing an empty-array branch; the first insertion immediately
// grows it to MinRawCapacity.
const MinRawCapacity = 8

// SizingStrategy maps between raw capacity (physical slot count, always
// a power of two) and real capacity (the maximum number of live entries
// permitted before the table must grow). Strategies are stateless
// policy objects; swapping one in changes the table's load factor
// without touching any hot-path code.
type SizingStrategy interface {
	// RealOfRaw returns the maximum live-entry count a table with the
	// given raw (physical) capacity may hold before growth is forced.
	RealOfRaw(raw uint64) uint64

	// RawOfReal returns the smallest power-of-two raw capacity whose
	// real capacity is >= real, never less than MinRawCapacity (except
	// for real == 0, which maps to a 1-slot table).
	RawOfReal(real uint64) uint64

	// Name identifies the strategy ("aggressive", "moderate" or
	// "conservative").
	Name() string
}

func nextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// aggressiveStrategy targets a 90.9% (10/11) load factor.
type aggressiveStrategy struct{}

func (aggressiveStrategy) Name() string { return "aggressive" }

func (aggressiveStrategy) RealOfRaw(raw uint64) uint64 {
	return (raw*10 + 9) / 11
}

func (s aggressiveStrategy) RawOfReal(real uint64) uint64 {
	if real == 0 {
		return 1
	}
	// Smallest power of two raw such that RealOfRaw(raw) >= real.
	raw := nextPow2(MinRawCapacity)
	for s.RealOfRaw(raw) < real {
		raw <<= 1
	}
	return raw
}

// moderateStrategy targets an 80% (4/5) load factor.
type moderateStrategy struct{}

func (moderateStrategy) Name() string { return "moderate" }

func (moderateStrategy) RealOfRaw(raw uint64) uint64 {
	return raw * 4 / 5
}

func (s moderateStrategy) RawOfReal(real uint64) uint64 {
	if real == 0 {
		return 1
	}
	raw := nextPow2(MinRawCapacity)
	for s.RealOfRaw(raw) < real {
		raw <<= 1
	}
	return raw
}

// conservativeStrategy targets a 50% (1/2) load factor.
type conservativeStrategy struct{}

func (conservativeStrategy) Name() string { return "conservative" }

func (conservativeStrategy) RealOfRaw(raw uint64) uint64 {
	return raw / 2
}

func (s conservativeStrategy) RawOfReal(real uint64) uint64 {
	if real == 0 {
		return 1
	}
	raw := nextPow2(MinRawCapacity)
	for s.RealOfRaw(raw) < real {
		raw <<= 1
	}
	return raw
}

// Sizing strategy singletons, ready to pass to WithStrategy.
var (
	// Aggressive is the default: it packs the table to 90.9% load
	// before growing. Best memory efficiency, longest worst-case probe
	// chains.
	Aggressive SizingStrategy = aggressiveStrategy{}

	// Moderate grows at an 80% load factor.
	Moderate SizingStrategy = moderateStrategy{}

	// Conservative grows at 50% load, trading memory for shorter probe
	// chains and fewer resizes under heavy churn.
	Conservative SizingStrategy = conservativeStrategy{}
)

// defaultStrategy is used by WithCapacity when no WithStrategy option
// is given.
var defaultStrategy SizingStrategy = aggressiveStrategy{}
