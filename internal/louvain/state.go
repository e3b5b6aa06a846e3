package louvain

// modularityEps is the fixed small positive real below which a
// candidate community's gain is not considered an improvement — it
// guards against floating-point noise causing nodes to oscillate
// between communities of equal true gain.
const modularityEps = 1e-6

// State holds one level's working partition: each node's current
// community id and each community's total weighted degree.
type State struct {
	g    *Graph
	comm []int32
	tot  []float64
}

// NewState starts every node of g in its own community.
func NewState(g *Graph) *State {
	s := &State{
		g:    g,
		comm: make([]int32, g.N),
		tot:  make([]float64, g.N),
	}
	for i := range s.comm {
		s.comm[i] = int32(i)
		s.tot[i] = g.k[i]
	}
	return s
}

// OneLevel repeatedly sweeps every node, moving each to the
// neighbouring community (its own included) that yields the greatest
// modularity gain, until a full sweep produces no move. It returns
// whether any node ever moved.
func (s *State) OneLevel() bool {
	if s.g.m2 <= 0 {
		return false
	}

	improved := false
	weights := make(map[int32]float64)

	for {
		moved := false
		for i := int32(0); i < s.g.N; i++ {
			ci := s.comm[i]
			ki := s.g.k[i]

			s.tot[ci] -= ki

			for k := range weights {
				delete(weights, k)
			}
			for _, e := range s.g.adj[i] {
				weights[s.comm[e.To]] += e.Weight
			}

			bestC := ci
			bestGain := weights[ci] - ki*s.tot[ci]/s.g.m2
			for c, w := range weights {
				if c == ci {
					continue
				}
				gain := w - ki*s.tot[c]/s.g.m2
				if gain > bestGain+modularityEps {
					bestGain = gain
					bestC = c
				}
			}

			s.comm[i] = bestC
			s.tot[bestC] += ki
			if bestC != ci {
				moved = true
				improved = true
			}
		}
		if !moved {
			break
		}
	}

	return improved
}

// Modularity computes the current partition's modularity from
// scratch: Q = (internal edge weight)/m2 - Σ_c (Tot[c]/m2)^2.
func (s *State) Modularity() float64 {
	if s.g.m2 <= 0 {
		return 0
	}

	var internal float64
	for i := int32(0); i < s.g.N; i++ {
		ci := s.comm[i]
		internal += 2 * s.g.SelfLoop(i)
		for _, e := range s.g.adj[i] {
			if s.comm[e.To] == ci {
				internal += e.Weight
			}
		}
	}

	sumSq := make(map[int32]float64)
	for i := int32(0); i < s.g.N; i++ {
		sumSq[s.comm[i]] += s.g.k[i]
	}

	var q float64
	for _, tot := range sumSq {
		frac := tot / s.g.m2
		q -= frac * frac
	}
	q += internal / s.g.m2

	return q
}

// Assignment returns a copy of the current node-to-community mapping.
func (s *State) Assignment() []int32 {
	out := make([]int32, len(s.comm))
	copy(out, s.comm)
	return out
}

// Renumber maps an arbitrary community-id assignment onto consecutive
// ids [0, k), in first-seen order, and returns k.
func Renumber(assignment []int32) ([]int32, int32) {
	seen := make(map[int32]int32)
	out := make([]int32, len(assignment))
	var next int32
	for i, c := range assignment {
		id, ok := seen[c]
		if !ok {
			id = next
			seen[c] = id
			next++
		}
		out[i] = id
	}
	return out, next
}

// Contract builds the coarse graph whose nodes are the communities
// named by a renumbered assignment (values in [0, k)): one super-node
// per community, with inter-community edge weights summed and
// intra-community edges (plus any prior self-loops) folded into the
// super-node's own self-loop weight.
func Contract(g *Graph, assignment []int32, k int32) *Graph {
	type key struct{ a, b int32 }
	pairWeight := make(map[key]float64)
	selfLoopAccum := make([]float64, k)

	for i := int32(0); i < g.N; i++ {
		s := assignment[i]
		selfLoopAccum[s] += g.selfLoop[i]
		for _, e := range g.adj[i] {
			t := assignment[e.To]
			a, b := s, t
			if a > b {
				a, b = b, a
			}
			pairWeight[key{a, b}] += e.Weight
		}
	}

	out := &Graph{
		N:        k,
		adj:      make([][]Edge, k),
		selfLoop: make([]float64, k),
		k:        make([]float64, k),
	}

	for pk, w := range pairWeight {
		if pk.a == pk.b {
			// Every edge between two distinct original nodes mapped
			// into the same super-node was visited twice (once from
			// each endpoint's adjacency list).
			out.selfLoop[pk.a] += w / 2
			continue
		}
		half := w / 2
		out.adj[pk.a] = append(out.adj[pk.a], Edge{To: pk.b, Weight: half})
		out.adj[pk.b] = append(out.adj[pk.b], Edge{To: pk.a, Weight: half})
	}
	for s, raw := range selfLoopAccum {
		out.selfLoop[s] += raw
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
