package design

import (
	"iter"
)

// Product yields the Cartesian product of bins: every list made by picking
// one item from each bin, in bin order. Nothing is yielded if there are no
// bins or if any bin is empty. Each yielded slice is new.
func Product[T any](bins [][]T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if len(bins) == 0 {
			return
		}
		for _, bin := range bins {
			if len(bin) == 0 {
				return
			}
		}

		// odometer of indexes into each bin, last bin changes fastest
		indexes := make([]int, len(bins))
		for {
			combination := make([]T, len(bins))
			for i, bin := range bins {
				combination[i] = bin[indexes[i]]
			}
			if !yield(combination) {
				return
			}

			i := len(bins) - 1
			for ; i >= 0; i-- {
				indexes[i]++
				if indexes[i] < len(bins[i]) {
					break
				}
				indexes[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}
