package subclone

import (
	"iter"
	"slices"
	"sort"
)

// cycles returns every simple cycle in the graph as a sequence of overhangs,
// using Johnson's algorithm. The first overhang of a cycle is not repeated at its end.
//
// Parallel edges don't produce separate cycles: they're expanded later by
// combinations. Each call to the returned iterator restarts the search.
func (g *graph) cycles() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		labels := slices.Clone(g.nodes)
		sort.Strings(labels)

		index := make(map[string]int, len(labels))
		for i, label := range labels {
			index[label] = i
		}

		adj := make([][]int, len(labels))
		for i, label := range labels {
			for _, next := range g.successors[label] {
				adj[i] = append(adj[i], index[next])
			}
			sort.Ints(adj[i])
		}

		j := &johnson{
			adj:      adj,
			blocked:  make([]bool, len(labels)),
			blockMap: make([]map[int]bool, len(labels)),
			allowed:  make([]bool, len(labels)),
			yield: func(cycle []int) bool {
				named := make([]string, len(cycle))
				for i, v := range cycle {
					named[i] = labels[v]
				}
				return yield(named)
			},
		}
		j.run()
	}
}

// johnson holds the state of a search for elementary circuits
// (Johnson, "Finding all the elementary circuits of a directed graph", 1975)
type johnson struct {
	adj      [][]int
	blocked  []bool
	blockMap []map[int]bool

	// allowed are the nodes in the strongly connected component being searched
	allowed []bool

	start   int
	stack   []int
	yield   func([]int) bool
	stopped bool
}

// run searches for circuits through each node, least first, in the subgraph
// of nodes greater than or equal to it
func (j *johnson) run() {
	n := len(j.adj)
	for s := 0; s < n && !j.stopped; s++ {
		component := j.componentOf(s)
		if len(component) == 1 && !slices.Contains(j.adj[s], s) {
			continue
		}

		for v := range j.allowed {
			j.allowed[v] = false
		}
		for _, v := range component {
			j.allowed[v] = true
			j.blocked[v] = false
			j.blockMap[v] = make(map[int]bool)
		}

		j.start = s
		j.circuit(s)
	}
}

func (j *johnson) circuit(v int) bool {
	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true

	for _, w := range j.adj[v] {
		if j.stopped {
			break
		}
		if !j.allowed[w] {
			continue
		}

		if w == j.start {
			found = true
			if !j.yield(slices.Clone(j.stack)) {
				j.stopped = true
			}
		} else if !j.blocked[w] && j.circuit(w) {
			found = true
		}
	}

	if found {
		j.unblock(v)
	} else {
		for _, w := range j.adj[v] {
			if j.allowed[w] {
				j.blockMap[w][v] = true
			}
		}
	}

	j.stack = j.stack[:len(j.stack)-1]
	return found
}

func (j *johnson) unblock(u int) {
	j.blocked[u] = false
	for w := range j.blockMap[u] {
		delete(j.blockMap[u], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

// componentOf returns the strongly connected component containing s in the
// subgraph of nodes >= s (Tarjan's algorithm)
func (j *johnson) componentOf(s int) []int {
	n := len(j.adj)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var (
		counter   int
		stack     []int
		component []int
	)

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range j.adj[v] {
			if w < s {
				continue
			}
			if index[w] == -1 {
				strongConnect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] == index[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if slices.Contains(scc, s) {
				component = scc
			}
		}
	}

	strongConnect(s)
	return component
}
