package vamana

// candidate pairs an internal vertex id with its distance to the current
// query or pivot.
type candidate struct {
	id   int
	dist float32
}

// less orders candidates by ascending distance, ties by ascending id. The
// ordering is total, which keeps heap pops and sorts reproducible.
func (c candidate) less(o candidate) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	return c.id < o.id
}

// minHeap is a container/heap min-queue of candidates.
type minHeap []candidate

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, j int) bool { return h[i].less(h[j]) }

func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x interface{}) {
	*h = append(*h, x.(candidate))
}

func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
