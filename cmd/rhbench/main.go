// Command rhbench is a throwaway driver for poking at rhtable.Table's
// load factor across a sweep of sizes and sizing strategies. It is a
// development aid, not a CLI surface over the library's data.
package main

import (
	"fmt"

	"github.com/robinhoodtable/rhtable"
)

var sweepSizes = []int{1_000, 10_000, 100_000, 1_000_000}

func main() {
	strategies := []struct {
		name     string
		strategy rhtable.SizingStrategy
	}{
		{"aggressive", rhtable.Aggressive},
		{"moderate", rhtable.Moderate},
		{"conservative", rhtable.Conservative},
	}

	for _, s := range strategies {
		fmt.Printf("strategy: %s\n", s.name)
		for _, n := range sweepSizes {
			seen, realCap := sweep(n, s.strategy)
			fmt.Printf("  n=%-10d capacity=%-10d load factor=%.3f iterated=%d\n",
				n, realCap, float64(n)/float64(realCap), seen)
		}
	}
}

// sweep fills a table with n sequential int keys under strategy, then
// walks it with Items to sanity-check that iteration visits exactly the
// live set, returning the count seen and the table's resulting real
// capacity.
func sweep(n int, strategy rhtable.SizingStrategy) (seen, capacity int) {
	t := rhtable.WithCapacity[int, int](n, rhtable.WithStrategy[int, int](strategy))
	for i := 0; i < n; i++ {
		t.Set(i, i*2)
	}

	it := t.Items()
	for {
		_, _, ok, err := it.Next()
		if err != nil {
			panic(err)
		}
		if !ok {
			break
		}
		seen++
	}

	return seen, t.Capacity()
}
