package subclone

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

// graphOf makes a graph from edges, each a pair of overhangs
func graphOf(edges ...[2]string) *graph {
	g := &graph{
		nodeSet:    make(map[string]bool),
		edges:      make(map[hop][]*Fragment),
		successors: make(map[string][]string),
		seen:       newSeenSeqs(),
	}
	for _, e := range edges {
		f := &Fragment{ID: e[0] + e[1], Seq: e[0] + e[1], Left: e[0], Right: e[1], source: e[0] + e[1]}
		g.addNode(f.Left)
		g.addNode(f.Right)
		g.addEdge(f)
	}
	return g
}

func Test_graph_cycles(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  [][]string
	}{
		{
			"empty",
			nil,
			nil,
		},
		{
			"acyclic",
			[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}},
			nil,
		},
		{
			"self loop",
			[][2]string{{"a", "a"}},
			[][]string{{"a"}},
		},
		{
			"parallel edges are one cycle",
			[][2]string{{"a", "b"}, {"a", "b"}, {"b", "a"}},
			[][]string{{"a", "b"}},
		},
		{
			"four cycle",
			[][2]string{{"c", "d"}, {"a", "b"}, {"d", "a"}, {"b", "c"}},
			[][]string{{"a", "b", "c", "d"}},
		},
		{
			"overlapping cycles",
			[][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}, {"c", "a"}, {"c", "c"}},
			[][]string{{"a", "b"}, {"a", "b", "c"}, {"c"}},
		},
		{
			"complete graph of three",
			[][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}, {"c", "b"}, {"a", "c"}, {"c", "a"}},
			[][]string{{"a", "b"}, {"a", "b", "c"}, {"a", "c"}, {"a", "c", "b"}, {"b", "c"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][]string
			for cycle := range graphOf(tt.edges...).cycles() {
				got = append(got, cycle)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func Test_graph_cycles_restartable(t *testing.T) {
	g := graphOf([2]string{"a", "b"}, [2]string{"b", "a"}, [2]string{"b", "c"}, [2]string{"c", "a"})
	cycles := g.cycles()

	first := slices.Collect(cycles)
	second := slices.Collect(cycles)
	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func Test_graph_cycles_stop(t *testing.T) {
	g := graphOf([2]string{"a", "b"}, [2]string{"b", "a"}, [2]string{"b", "c"}, [2]string{"c", "a"}, [2]string{"c", "c"})

	count := 0
	for range g.cycles() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func Test_graph_combinations(t *testing.T) {
	g := graphOf([2]string{"a", "b"}, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"}, [2]string{"c", "a"})

	var got [][]string
	for fragments := range g.combinations([]string{"a", "b", "c"}) {
		var hops []string
		for _, f := range fragments {
			hops = append(hops, f.Left+f.Right)
		}
		got = append(got, hops)
	}

	// 2 * 1 * 2 ways around the cycle
	assert.Len(t, got, 4)
	for _, hops := range got {
		assert.Equal(t, []string{"ab", "bc", "ca"}, hops)
	}
}
