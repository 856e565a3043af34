package subclone

import (
	"strings"
)

// hop is a directed pair of overhangs
type hop struct {
	from, to string
}

// graph is a directed multigraph of a bin's digested records. Nodes are
// overhangs and each fragment is an edge from its left to its right overhang
type graph struct {
	// nodes in the order they were added
	nodes []string

	// nodeSet is for idempotent node adds
	nodeSet map[string]bool

	// edges are the fragments between each pair of overhangs (parallel edges)
	edges map[hop][]*Fragment

	// successors of each node, without repeats, in the order they were added
	successors map[string][]string

	// seen are the sequences that assemblies can't be a part of
	seen *seenSeqs
}

// newGraph digests each record of a bin and adds its fragments to a new graph
func newGraph(records []*Record, d *digester) *graph {
	g := &graph{
		nodeSet:    make(map[string]bool),
		edges:      make(map[hop][]*Fragment),
		successors: make(map[string][]string),
		seen:       newSeenSeqs(),
	}

	for _, r := range records {
		g.seen.add(r.Seq)

		for _, f := range d.digest(r) {
			g.addNode(f.Left)
			g.addNode(f.Right)
			g.addEdge(f)
		}
	}

	return g
}

func (g *graph) addNode(overhang string) {
	if g.nodeSet[overhang] {
		return
	}
	g.nodeSet[overhang] = true
	g.nodes = append(g.nodes, overhang)
}

func (g *graph) addEdge(f *Fragment) {
	h := hop{from: f.Left, to: f.Right}
	if _, ok := g.edges[h]; !ok {
		g.successors[f.Left] = append(g.successors[f.Left], f.Right)
	}
	g.edges[h] = append(g.edges[h], f)
}

// edgeCount is the number of fragments in the graph
func (g *graph) edgeCount() int {
	count := 0
	for _, fragments := range g.edges {
		count += len(fragments)
	}
	return count
}

// seenSeqs are the doubled sequences, and their reverse complements,
// of a bin's inputs and of the plasmids assembled from it
type seenSeqs struct {
	seqs []string
	set  map[string]bool
}

func newSeenSeqs() *seenSeqs {
	return &seenSeqs{set: make(map[string]bool)}
}

// add stores a circular sequence
func (s *seenSeqs) add(seq string) {
	doubled := strings.ToUpper(seq + seq)
	for _, d := range []string{doubled, revComp(doubled)} {
		if s.set[d] {
			continue
		}
		s.set[d] = true
		s.seqs = append(s.seqs, d)
	}
}

// contains returns whether seq is within any of the seen sequences
func (s *seenSeqs) contains(seq string) bool {
	seq = strings.ToUpper(seq)
	for _, seen := range s.seqs {
		if strings.Contains(seen, seq) {
			return true
		}
	}
	return false
}
