// Package design is for the combinations of records that are tried together
// when simulating an assembly. Each combination is a "bin".
package design

import (
	"iter"
)

// Combinatorial is a design with a single bin of every record. Records that
// can't combine are sorted out by the assembly
type Combinatorial[T any] struct {
	Records []T
}

// Bins yields the one bin of the design
func (c Combinatorial[T]) Bins() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if len(c.Records) > 0 {
			yield(c.Records)
		}
	}
}

// CombinatorialBins is a design where each set holds interchangeable records,
// eg a set of promoters and a set of terminators. Its bins are every
// combination of one record from each set
type CombinatorialBins[T any] struct {
	Sets [][]T
}

// Append adds another set of interchangeable records to the design
func (c *CombinatorialBins[T]) Append(set []T) {
	c.Sets = append(c.Sets, set)
}

// Bins yields every combination of one record from each set
func (c CombinatorialBins[T]) Bins() iter.Seq[[]T] {
	return Product(c.Sets)
}

// Library is a design of explicit bins
type Library[T any] [][]T

// Bins yields each of the library's bins in order
func (l Library[T]) Bins() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for _, bin := range l {
			if !yield(bin) {
				return
			}
		}
	}
}
