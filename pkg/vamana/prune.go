package vamana

import "sort"

// robustPrune selects up to r diverse neighbors for vertex id from the
// candidate pool (Algorithm 2 in the paper). pool is typically the visited
// set of a greedy search; the call consumes it.
//
// The rule walks candidates nearest-first and discards every v for which
// the freshly selected p satisfies alpha*d(p, v) <= d(id, v): p is a good
// enough proxy for v. alpha = 1 yields a strictly monotone neighborhood;
// alpha > 1 admits longer-range edges.
func robustPrune(g *Graph, id int, pool map[int]bool, alpha float32, r int) []uint32 {
	delete(pool, id)
	for _, nb := range g.Neighbors(id) {
		if int(nb) != id {
			pool[int(nb)] = true
		}
	}

	vec := g.store.Get(id)
	ordered := make([]candidate, 0, len(pool))
	distTo := make(map[int]float32, len(pool))
	for v := range pool {
		d := SquaredL2(vec, g.store.Get(v))
		ordered = append(ordered, candidate{id: v, dist: d})
		distTo[v] = d
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].less(ordered[j]) })

	out := make([]uint32, 0, r)
	selected := make(map[int]bool, r)
	for _, p := range ordered {
		if len(out) >= r {
			break
		}
		if !pool[p.id] {
			continue
		}
		out = append(out, uint32(p.id))
		selected[p.id] = true
		delete(pool, p.id)

		pv := g.store.Get(p.id)
		for v := range pool {
			if alpha*SquaredL2(pv, g.store.Get(v)) <= distTo[v] {
				delete(pool, v)
			}
		}
	}

	// The diversification rule can exhaust the pool before r picks are made
	// (all-zero pairwise distances, for instance). Backfill with the nearest
	// discarded candidates so the out-degree saturates at min(r, pool size).
	if len(out) < r {
		for _, p := range ordered {
			if len(out) >= r {
				break
			}
			if selected[p.id] {
				continue
			}
			out = append(out, uint32(p.id))
			selected[p.id] = true
		}
	}

	return out
}
