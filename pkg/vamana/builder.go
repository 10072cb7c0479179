package vamana

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/therealutkarshpriyadarshi/vamana/pkg/dataset"
	"github.com/therealutkarshpriyadarshi/vamana/pkg/observability"
)

// Params holds the construction parameters. R, L and Alpha are required;
// there are no algorithmic defaults for them.
type Params struct {
	R       int     // out-degree cap per vertex (typical: 32-64)
	L       int     // search-list size during construction (typical: 75-200)
	Alpha   float32 // distance-relaxation factor for the second pass (>= 1.0)
	Seed    int64   // RNG seed; all non-determinism flows from this value
	Workers int     // back-neighbor prune workers; 0 means number of CPUs
}

// Validate checks the parameter ranges that do not depend on the dataset.
func (p Params) Validate() error {
	if p.R <= 0 {
		return fmt.Errorf("%w: R must be positive, got %d", ErrConfig, p.R)
	}
	if p.L <= 0 {
		return fmt.Errorf("%w: L must be positive, got %d", ErrConfig, p.L)
	}
	if p.Alpha < 1.0 {
		return fmt.Errorf("%w: alpha must be >= 1.0, got %g", ErrConfig, p.Alpha)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrConfig, p.Workers)
	}
	return nil
}

// Builder constructs a Vamana graph over one vector column of a dataset.
// Construction runs random init, medoid selection and two refinement
// passes; the Builder is the sole writer of graph state throughout.
type Builder struct {
	ds       dataset.Dataset
	column   string
	params   Params
	log      *observability.Logger
	metrics  *observability.Metrics
	progress *rate.Limiter
}

// NewBuilder creates a builder for the given dataset column.
func NewBuilder(ds dataset.Dataset, column string, params Params) *Builder {
	return &Builder{
		ds:       ds,
		column:   column,
		params:   params,
		log:      observability.GetGlobalLogger(),
		progress: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetLogger overrides the logger used for build progress.
func (b *Builder) SetLogger(l *observability.Logger) {
	if l != nil {
		b.log = l
	}
}

// SetMetrics attaches build metrics.
func (b *Builder) SetMetrics(m *observability.Metrics) { b.metrics = m }

// Build runs the full construction and returns the finished graph. All
// failures propagate; no partial graph is returned. The context is checked
// between vertices, so a cancelled build leaves no half-applied step.
func (b *Builder) Build(ctx context.Context) (*Graph, error) {
	if err := b.params.Validate(); err != nil {
		return nil, err
	}
	if b.column == "" {
		return nil, fmt.Errorf("%w: vector column not named", ErrConfig)
	}

	start := time.Now()
	total, err := b.ds.CountRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting rows: %w", ErrDataset, err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrConfig)
	}
	if uint64(b.params.R) >= total {
		return nil, fmt.Errorf("%w: R=%d must be smaller than the row count %d",
			ErrConfig, b.params.R, total)
	}

	store, rowIDs, err := LoadVectors(ctx, b.ds, b.column)
	if err != nil {
		return nil, err
	}
	if uint64(store.Len()) != total {
		return nil, fmt.Errorf("%w: scan produced %d rows, count reported %d",
			ErrDataset, store.Len(), total)
	}
	if b.metrics != nil {
		b.metrics.VectorsLoaded.Add(float64(store.Len()))
	}
	b.log.Info("vectors loaded", map[string]interface{}{
		"rows": store.Len(),
		"dim":  store.Dim(),
	})

	rng := rand.New(rand.NewSource(b.params.Seed))
	g := newRandomGraph(store, rowIDs, b.params.R, rng)

	medoidStart := time.Now()
	g.medoid = findMedoid(store)
	if b.metrics != nil {
		b.metrics.MedoidDuration.Observe(time.Since(medoidStart).Seconds())
	}
	b.log.Info("medoid selected", map[string]interface{}{
		"vertex": g.medoid,
		"took":   time.Since(medoidStart),
	})

	// First pass tightens the random graph, second pass relaxes with the
	// user-supplied alpha for longer-range edges.
	if err := b.pass(ctx, g, 1, 1.0, rng); err != nil {
		return nil, err
	}
	if err := b.pass(ctx, g, 2, b.params.Alpha, rng); err != nil {
		return nil, err
	}

	if b.metrics != nil {
		b.metrics.BuildsTotal.Inc()
		b.metrics.BuildDuration.Observe(time.Since(start).Seconds())
		b.metrics.ObserveGraph(g.edgeCount(), g.Len())
	}
	b.log.Info("graph built", map[string]interface{}{
		"vertices": g.Len(),
		"edges":    g.edgeCount(),
		"took":     time.Since(start),
	})
	return g, nil
}

// findMedoid returns the vertex whose vector is closest to the arithmetic
// centroid, ties broken by lowest id. The running sum is kept in float64 to
// limit accumulation error at large N; the centroid itself is float32.
func findMedoid(store *VectorStore) int {
	dim := store.Dim()
	sums := make([]float64, dim)
	for i := 0; i < store.Len(); i++ {
		for d, v := range store.Get(i) {
			sums[d] += float64(v)
		}
	}
	centroid := make([]float32, dim)
	for d := range sums {
		centroid[d] = float32(sums[d] / float64(store.Len()))
	}

	const chunk = 256
	best := 0
	bestDist := float32(math.Inf(1))
	for base := 0; base < store.Len(); base += chunk {
		end := base + chunk
		if end > store.Len() {
			end = store.Len()
		}
		dists := SquaredL2Batch(centroid, store.Raw()[base*dim:end*dim], dim)
		for k, d := range dists {
			if d < bestDist {
				bestDist = d
				best = base + k
			}
		}
	}
	return best
}

// pass runs one refinement sweep over every vertex in a freshly shuffled
// order. The write-back of a vertex's new neighbors and of its
// back-neighbors' updates completes before the next vertex starts.
func (b *Builder) pass(ctx context.Context, g *Graph, passNo int, alpha float32, rng *rand.Rand) error {
	order := rng.Perm(g.Len())
	label := fmt.Sprintf("%d", passNo)
	start := time.Now()

	for step, i := range order {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pass %d interrupted at vertex %d of %d: %w",
				passNo, step, len(order), err)
		}

		_, visited := greedySearch(g, g.medoid, g.store.Get(i), 1, b.params.L)
		g.setNeighbors(i, robustPrune(g, i, visited, alpha, b.params.R))
		b.updateBackNeighbors(g, i, alpha)

		if b.metrics != nil {
			b.metrics.VerticesProcessed.WithLabelValues(label).Inc()
		}
		if b.progress.Allow() {
			b.log.Debug("pass progress", map[string]interface{}{
				"pass":  passNo,
				"done":  step + 1,
				"total": len(order),
			})
		}
	}

	if b.metrics != nil {
		b.metrics.PassDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}
	b.log.Info("pass complete", map[string]interface{}{
		"pass":  passNo,
		"alpha": alpha,
		"took":  time.Since(start),
	})
	return nil
}

// updateBackNeighbors offers i as a new neighbor to every vertex in i's
// freshly pruned list. When j has room, i is appended; otherwise j is
// re-pruned over its neighbors plus i. Prune work fans out over a bounded
// worker pool; every worker sees the graph as of the start of this step
// and returns a proposed list, which the single writer applies in
// ascending-j order.
func (b *Builder) updateBackNeighbors(g *Graph, i int, alpha float32) {
	neighbors := g.Neighbors(i)
	if len(neighbors) == 0 {
		return
	}

	type proposal struct {
		j    int
		list []uint32
	}
	proposals := make([]*proposal, len(neighbors))

	workers := b.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(neighbors) {
		workers = len(neighbors)
	}

	jobs := make(chan int, len(neighbors))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				j := int(neighbors[k])
				current := g.Neighbors(j)
				if containsID(current, uint32(i)) {
					continue
				}
				if len(current)+1 <= b.params.R {
					list := make([]uint32, 0, len(current)+1)
					list = append(list, current...)
					list = append(list, uint32(i))
					proposals[k] = &proposal{j: j, list: list}
					continue
				}
				pool := make(map[int]bool, len(current)+1)
				for _, nb := range current {
					pool[int(nb)] = true
				}
				pool[i] = true
				proposals[k] = &proposal{j: j, list: robustPrune(g, j, pool, alpha, b.params.R)}
			}
		}()
	}
	for k := range neighbors {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	applied := make([]*proposal, 0, len(proposals))
	for _, p := range proposals {
		if p != nil {
			applied = append(applied, p)
		}
	}
	sort.Slice(applied, func(a, c int) bool { return applied[a].j < applied[c].j })
	for _, p := range applied {
		g.setNeighbors(p.j, p.list)
	}
}

func containsID(list []uint32, id uint32) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
