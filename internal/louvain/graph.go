// Package louvain implements the modularity-optimisation primitives the
// community detector drives: a weighted in-memory graph, one-level node
// reassignment, modularity scoring, and contraction into a coarser
// super-graph. It is deliberately independent of the on-disk CSR
// format — CSR is unweighted and exists to be read cheaply from a
// memory map, while this package's Graph carries the weights and
// self-loop bookkeeping the algorithm needs at every level above the
// first.
package louvain

import "github.com/fawaz-dabbaghieh/gfaidx/internal/csr"

// Edge is a weighted adjacency-list entry.
type Edge struct {
	To     int32
	Weight float64
}

// Graph is a weighted undirected multigraph with explicit per-node
// self-loop weight. Degree k[i] follows the standard Louvain
// convention: the sum of incident edge weights plus twice the
// self-loop weight.
type Graph struct {
	N        int32
	adj      [][]Edge
	selfLoop []float64
	k        []float64
	m2       float64 // sum of k[i] == twice the total edge weight
}

// FromCSR builds a Graph from an unweighted CSR adjacency. Every
// distinct CSR neighbour entry becomes a unit-weight edge; a CSR
// self-loop (stored once per the format's asymmetric convention)
// becomes a self-loop of raw weight 1, whose degree contribution is
// doubled here to match the convention the modularity formula expects.
func FromCSR(g *csr.Graph) *Graph {
	n := g.N()
	out := &Graph{
		N:        int32(n),
		adj:      make([][]Edge, n),
		selfLoop: make([]float64, n),
		k:        make([]float64, n),
	}

	for i := uint32(0); i < n; i++ {
		g.Each(i, func(nb uint32) {
			if nb == i {
				out.selfLoop[i] += 1
				return
			}
			out.adj[i] = append(out.adj[i], Edge{To: int32(nb), Weight: 1})
		})
	}

	for i := range out.adj {
		var deg float64
		for _, e := range out.adj[i] {
			deg += e.Weight
		}
		deg += 2 * out.selfLoop[i]
		out.k[i] = deg
		out.m2 += deg
	}

	return out
}

// Degree returns node i's weighted degree k[i].
func (g *Graph) Degree(i int32) float64 {
	return g.k[i]
}

// Neighbors returns node i's adjacency list (excluding self-loops,
// tracked separately).
func (g *Graph) Neighbors(i int32) []Edge {
	return g.adj[i]
}

// SelfLoop returns node i's raw self-loop weight.
func (g *Graph) SelfLoop(i int32) float64 {
	return g.selfLoop[i]
}

// TotalWeight returns m2, the sum of all node degrees — twice the
// total edge weight.
func (g *Graph) TotalWeight() float64 {
	return g.m2
}
