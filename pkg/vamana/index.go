// Package vamana builds disk-resident-style approximate nearest neighbor
// graphs as described in the DiskANN paper (NeurIPS '19).
//
// The graph is a directed proximity structure: one vertex per input vector,
// each with at most R outgoing edges, shaped by the robust-prune rule so a
// greedy best-first walk from the medoid converges to approximate nearest
// neighbors in few hops.
package vamana

import (
	"fmt"
	"math/rand"
	"sort"
)

// Vertex is one node of the proximity graph.
type Vertex struct {
	id        uint32
	rowID     uint64
	neighbors []uint32
}

// VertexInfo is the exported view of a vertex: the terminal artifact handed
// to downstream persistence.
type VertexInfo struct {
	ID        uint32
	RowID     uint64
	Neighbors []uint32
}

// Graph is the adjacency structure produced by the Builder. Vertices live
// in an arena indexed by internal id; all cross-references are internal ids
// resolved by position, so there are no owning pointers between vertices.
type Graph struct {
	vertices  []Vertex
	store     *VectorStore
	medoid    int
	maxDegree int
}

// newRandomGraph builds n vertices and connects each to a uniformly random
// set of at least r distinct non-self neighbors, then symmetrizes by
// appending the reverse edge for every sampled pair. Neighbor counts may
// exceed r (and reverse edges may duplicate sampled ones) until the first
// refinement pass prunes them down.
func newRandomGraph(store *VectorStore, rowIDs []uint64, r int, rng *rand.Rand) *Graph {
	n := store.Len()
	g := &Graph{vertices: make([]Vertex, n), store: store, medoid: -1, maxDegree: r}
	for i := range g.vertices {
		g.vertices[i] = Vertex{id: uint32(i), rowID: rowIDs[i]}
	}
	for i := 0; i < n; i++ {
		set := make(map[uint32]bool, r)
		for _, nb := range g.vertices[i].neighbors {
			set[nb] = true
		}
		for len(set) < r {
			c := rng.Intn(n)
			if c != i {
				set[uint32(c)] = true
			}
		}
		// Stored sorted so a fixed seed yields an identical graph.
		sampled := make([]uint32, 0, len(set))
		for nb := range set {
			sampled = append(sampled, nb)
		}
		sort.Slice(sampled, func(a, b int) bool { return sampled[a] < sampled[b] })
		g.vertices[i].neighbors = sampled
		for _, nb := range sampled {
			g.vertices[nb].neighbors = append(g.vertices[nb].neighbors, uint32(i))
		}
	}
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// Dim returns the vector dimension.
func (g *Graph) Dim() int { return g.store.Dim() }

// MaxDegree returns the out-degree cap the graph was built with.
func (g *Graph) MaxDegree() int { return g.maxDegree }

// Medoid returns the entry-point vertex id, or -1 before selection.
func (g *Graph) Medoid() int { return g.medoid }

// RowID returns the row identifier carried by vertex i.
func (g *Graph) RowID(i int) uint64 { return g.vertices[i].rowID }

// Vector returns the vector of vertex i as a read-only view.
func (g *Graph) Vector(i int) []float32 { return g.store.Get(i) }

// Neighbors returns a read-only view of vertex i's outgoing edges. The
// returned slice must not be modified.
func (g *Graph) Neighbors(i int) []uint32 { return g.vertices[i].neighbors }

// setNeighbors replaces vertex i's neighbor list. The list must contain at
// most MaxDegree distinct ids in [0, Len()) excluding i itself. A violation
// indicates a bug in the construction code, not a caller error, and aborts
// with ErrInternal rather than returning it.
func (g *Graph) setNeighbors(i int, list []uint32) {
	if len(list) > g.maxDegree {
		panic(fmt.Errorf("%w: %d neighbors for vertex %d exceed cap %d",
			ErrInternal, len(list), i, g.maxDegree))
	}
	seen := make(map[uint32]bool, len(list))
	for _, nb := range list {
		if int(nb) >= len(g.vertices) {
			panic(fmt.Errorf("%w: neighbor %d out of range for vertex %d", ErrInternal, nb, i))
		}
		if int(nb) == i {
			panic(fmt.Errorf("%w: vertex %d listed as its own neighbor", ErrInternal, i))
		}
		if seen[nb] {
			panic(fmt.Errorf("%w: duplicate neighbor %d for vertex %d", ErrInternal, nb, i))
		}
		seen[nb] = true
	}
	g.vertices[i].neighbors = list
}

// Vertices returns a copy of every vertex with its row id and neighbor list.
func (g *Graph) Vertices() []VertexInfo {
	out := make([]VertexInfo, len(g.vertices))
	for i, v := range g.vertices {
		nbs := make([]uint32, len(v.neighbors))
		copy(nbs, v.neighbors)
		out[i] = VertexInfo{ID: v.id, RowID: v.rowID, Neighbors: nbs}
	}
	return out
}

// edgeCount returns the total number of outgoing edges.
func (g *Graph) edgeCount() int {
	total := 0
	for i := range g.vertices {
		total += len(g.vertices[i].neighbors)
	}
	return total
}
