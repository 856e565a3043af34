package subclone

import (
	"iter"

	"github.com/Imperial-iGEM/synbio/internal/design"
)

// combinations returns every ordered list of fragments that goes around a cycle.
// Each hop of the cycle may be made by more than one fragment
func (g *graph) combinations(cycle []string) iter.Seq[[]*Fragment] {
	bins := make([][]*Fragment, len(cycle))
	for i, overhang := range cycle {
		next := cycle[(i+1)%len(cycle)]
		bins[i] = g.edges[hop{from: overhang, to: next}]
	}
	return design.Product(bins)
}
