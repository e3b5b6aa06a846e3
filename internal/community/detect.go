// Package community drives the louvain package's modularity
// optimisation to a stable partition of a CSR graph, then extends that
// partition with singleton nodes absent from every edge and, on
// request, recursively refines oversized communities.
package community

import (
	"github.com/fawaz-dabbaghieh/gfaidx/internal/csr"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/louvain"
)

// MaxLevels bounds the driver loop against non-terminating updates.
const MaxLevels = 50

// Result is the outcome of a single Detect call.
type Result struct {
	// Partition maps community index to the member node ids, expressed
	// in the ids of the graph Detect was called with.
	Partition [][]uint32

	// Levels is the number of contraction levels performed.
	Levels int

	// Modularity is the final level's modularity score.
	Modularity float64
}

// Detect runs the Louvain driver loop over g: repeated one-level
// refinement and contraction until a level brings no further
// improvement or MaxLevels is reached. The returned partition is
// expressed in g's own node ids, regardless of how many contraction
// levels occurred internally.
func Detect(g *csr.Graph) *Result {
	n := g.N()
	if n == 0 {
		return &Result{}
	}

	compose := make([]int32, n)
	for i := range compose {
		compose[i] = int32(i)
	}

	current := louvain.FromCSR(g)
	var finalMod float64
	levels := 0

	for levels < MaxLevels {
		state := louvain.NewState(current)
		improved := state.OneLevel()
		finalMod = state.Modularity()

		renumbered, k := louvain.Renumber(state.Assignment())
		for i := range compose {
			compose[i] = renumbered[compose[i]]
		}

		if !improved || k >= current.N {
			break
		}

		current = louvain.Contract(current, renumbered, k)
		levels++
	}

	members := make(map[int32][]uint32)
	for orig, c := range compose {
		members[c] = append(members[c], uint32(orig))
	}

	partition := make([][]uint32, 0, len(members))
	for c := int32(0); c < int32(len(members)); c++ {
		partition = append(partition, members[c])
	}

	return &Result{Partition: partition, Levels: levels, Modularity: finalMod}
}
