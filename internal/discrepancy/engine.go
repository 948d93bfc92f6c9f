package discrepancy

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/golang/geo/r2"

	"honeycomb/internal/parallel"
	"honeycomb/internal/tiling"
)

// Floor is the smallest raw score a non-empty tile can have.
const Floor = 0.05

// Params are the user-tunable shaping parameters.
type Params struct {
	// EaseIn is the exponent applied to the raw score, >= 1.
	EaseIn float64 `json:"easeIn"`
	// LowCountWeight scales the penalty added to tiles holding few points
	// compared with the busiest tile, in [0,1].
	LowCountWeight float64 `json:"lowCountWeight"`
}

// DefaultParams returns EaseIn 1 and no low-count penalty.
func DefaultParams() Params {
	return Params{EaseIn: 1}
}

// Validate reports whether p keeps every score inside [0,1].
func (p Params) Validate() error {
	if !(p.EaseIn >= 1) || math.IsInf(p.EaseIn, 1) {
		return fmt.Errorf("%w: ease-in must be a finite number >= 1, got %v", ErrInvalidParams, p.EaseIn)
	}
	if !(p.LowCountWeight >= 0 && p.LowCountWeight <= 1) {
		return fmt.Errorf("%w: low-count weight must be in [0,1], got %v", ErrInvalidParams, p.LowCountWeight)
	}
	return nil
}

// Result is the outcome of one Analyze call. All slices are indexed by tile
// and have length grid.CellCount(); the caller owns them.
type Result struct {
	// Values is the score of every tile, in [0,1].
	Values []float64
	// Counts is the number of points in every tile.
	Counts []int
	// Offsets is the exclusive prefix sum of Counts.
	Offsets []int
	// MaxCount is the largest entry of Counts.
	MaxCount int
	// TileBounds is the bounding box of the points in every tile; empty
	// (r2.EmptyRect) for tiles without points.
	TileBounds []r2.Rect
}

// Occupied returns the number of tiles holding at least one point.
func (r *Result) Occupied() int {
	n := 0
	for _, c := range r.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Top returns the indices of the n highest scoring occupied tiles, highest
// first. Ties keep index order.
func (r *Result) Top(n int) []int {
	idx := make([]int, 0, len(r.Values))
	for i, c := range r.Counts {
		if c > 0 {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(r.Values[b], r.Values[a])
	})
	if n >= 0 && n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

// Engine computes discrepancy arrays. It owns a worker pool for the per-tile
// scan and is safe for concurrent use; an Engine holds no state between
// calls besides reusable scratch memory.
type Engine struct {
	pool *parallel.WorkerPool
	// chunk is the number of tiles per work item; 0 lets the pool choose.
	chunk int
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	workers int
	chunk   int
}

// WithWorkers sets the number of scan workers. 0 or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *engineOptions) { o.workers = n }
}

// WithChunk sets the number of tiles handed to a worker at a time.
func WithChunk(n int) Option {
	return func(o *engineOptions) { o.chunk = n }
}

// NewEngine starts an Engine. Call Close to stop its workers.
func NewEngine(opts ...Option) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		pool:  parallel.NewWorkerPool(o.workers),
		chunk: o.chunk,
	}
}

// Workers returns the number of scan workers.
func (e *Engine) Workers() int { return e.pool.Workers() }

// Close stops the engine's workers. A closed Engine still works, running
// the scan on the calling goroutine.
func (e *Engine) Close() { e.pool.Close() }

// Compute returns only the score array of Analyze.
func (e *Engine) Compute(g *tiling.Grid, points []r2.Point, p Params) ([]float64, error) {
	res, err := e.Analyze(g, points, p)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// Analyze scores every tile of g for the given points. Every point is mapped
// with g, so a grid computed for other bounds than the points' still yields
// valid (clamped) tiles.
func (e *Engine) Analyze(g *tiling.Grid, points []r2.Point, p Params) (*Result, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i, pt := range points {
		if !finite(pt.X) || !finite(pt.Y) {
			return nil, fmt.Errorf("%w: point %d is %v", ErrNonFinitePoint, i, pt)
		}
	}

	log := Logger()
	m := g.CellCount()
	res := &Result{
		Values:     make([]float64, m),
		Counts:     make([]int, m),
		Offsets:    make([]int, m),
		TileBounds: make([]r2.Rect, m),
	}
	for i := range res.TileBounds {
		res.TileBounds[i] = r2.EmptyRect()
	}
	if len(points) == 0 {
		return res, nil
	}

	s := getScratch(len(points), m)
	defer putScratch(s)

	// count
	start := time.Now()
	for i, pt := range points {
		c := g.MapPoint(pt)
		s.cells[i] = c
		res.Counts[c]++
	}
	countDur := time.Since(start)

	// layout
	start = time.Now()
	sum := 0
	for i, c := range res.Counts {
		res.Offsets[i] = sum
		sum += c
		res.MaxCount = max(res.MaxCount, c)
	}
	layoutDur := time.Since(start)

	// scatter
	start = time.Now()
	copy(s.cursor, res.Offsets)
	for i, pt := range points {
		c := s.cells[i]
		s.sorted[s.cursor[c]] = pt
		s.cursor[c]++
		res.TileBounds[c] = res.TileBounds[c].AddPoint(pt)
	}
	scatterDur := time.Since(start)

	// scan
	start = time.Now()
	maxK := float64(res.MaxCount)
	e.pool.For(m, e.chunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			k := res.Counts[i]
			if k == 0 {
				continue
			}
			off := res.Offsets[i]
			raw := scanTile(s.sorted[off:off+k], s.norm[off:off+k], res.TileBounds[i])
			res.Values[i] = shape(raw, k, maxK, p)
		}
	})
	scanDur := time.Since(start)

	log.Debug("discrepancy computed",
		"grid", g.String(),
		"points", len(points),
		"tiles", m,
		"maxCount", res.MaxCount,
		"count", countDur,
		"layout", layoutDur,
		"scatter", scatterDur,
		"scan", scanDur,
	)
	return res, nil
}

// scanTile returns the largest gap, over all points c of the tile, between
// the share of points in the closed quadrant below and left of c and that
// quadrant's area, with coordinates normalized into box b. norm receives the
// normalized points and must have the same length as pts.
func scanTile(pts, norm []r2.Point, b r2.Rect) float64 {
	for j, pt := range pts {
		norm[j] = r2.Point{
			X: tiling.Normalize(pt.X, b.X.Lo, b.X.Hi),
			Y: tiling.Normalize(pt.Y, b.Y.Lo, b.Y.Hi),
		}
	}
	k := float64(len(norm))
	var worst float64
	for _, c := range norm {
		area := c.X * c.Y
		inside := 0
		for _, q := range norm {
			if q.X <= c.X && q.Y <= c.Y {
				inside++
			}
		}
		worst = max(worst, math.Abs(float64(inside)/k-area))
	}
	return worst
}

// shape applies the floor, ease-in and low-count penalty to a raw score of
// a tile holding k points, maxK being the busiest tile's count.
func shape(raw float64, k int, maxK float64, p Params) float64 {
	v := math.Pow(max(raw, Floor), p.EaseIn)
	share := float64(k) / maxK
	return min(v+p.LowCountWeight*(1-share*share), 1)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

var defaultEngine = sync.OnceValue(func() *Engine { return NewEngine() })

// Analyze runs Engine.Analyze on a shared engine sized to GOMAXPROCS.
func Analyze(g *tiling.Grid, points []r2.Point, p Params) (*Result, error) {
	return defaultEngine().Analyze(g, points, p)
}

// Compute runs Engine.Compute on a shared engine sized to GOMAXPROCS.
func Compute(g *tiling.Grid, points []r2.Point, p Params) ([]float64, error) {
	return defaultEngine().Compute(g, points, p)
}
