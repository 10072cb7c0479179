package vamana

import (
	"container/heap"
	"sort"
)

// candidateList is a bounded set of (id, distance) pairs ordered by
// ascending distance with ties broken by ascending id. When the list grows
// past its limit the farthest candidate is dropped.
type candidateList struct {
	items  []candidate
	limit  int
	member map[int]bool
}

func newCandidateList(limit int) *candidateList {
	return &candidateList{limit: limit, member: make(map[int]bool, limit)}
}

// insert adds c, keeping the list sorted and capped at limit.
func (cl *candidateList) insert(c candidate) {
	if cl.member[c.id] {
		return
	}
	pos := sort.Search(len(cl.items), func(i int) bool { return !cl.items[i].less(c) })
	cl.items = append(cl.items, candidate{})
	copy(cl.items[pos+1:], cl.items[pos:])
	cl.items[pos] = c
	cl.member[c.id] = true
	if len(cl.items) > cl.limit {
		last := cl.items[len(cl.items)-1]
		cl.items = cl.items[:len(cl.items)-1]
		delete(cl.member, last.id)
	}
}

// contains reports whether id is still held by the list.
func (cl *candidateList) contains(id int) bool { return cl.member[id] }

// closest returns the k nearest ids, ascending by distance.
func (cl *candidateList) closest(k int) []int {
	if k > len(cl.items) {
		k = len(cl.items)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = cl.items[i].id
	}
	return out
}

// greedySearch walks the graph from start toward query, retaining at most
// searchSize candidates (Algorithm 1 in the paper). It returns the k
// nearest candidate ids in ascending distance order together with the set
// of expanded vertices, which robustPrune consumes.
func greedySearch(g *Graph, start int, query []float32, k, searchSize int) ([]int, map[int]bool) {
	visited := make(map[int]bool)
	cands := newCandidateList(searchSize)
	frontier := &minHeap{}

	d := SquaredL2(query, g.store.Get(start))
	cands.insert(candidate{id: start, dist: d})
	heap.Push(frontier, candidate{id: start, dist: d})

	for frontier.Len() > 0 {
		p := heap.Pop(frontier).(candidate)
		// In paper: p = argmin_{L \ V} d(p, q). Skip vertices already
		// expanded or evicted by the search-size cap.
		if visited[p.id] || !cands.contains(p.id) {
			continue
		}
		visited[p.id] = true
		for _, nb := range g.Neighbors(p.id) {
			n := int(nb)
			if visited[n] {
				continue
			}
			dn := SquaredL2(query, g.store.Get(n))
			cands.insert(candidate{id: n, dist: dn})
			heap.Push(frontier, candidate{id: n, dist: dn})
		}
	}

	return cands.closest(k), visited
}
