package discrepancy

import (
	"sync"

	"github.com/golang/geo/r2"
)

// scratch holds the per-call buffers that do not escape into a Result.
type scratch struct {
	// cells is the tile index of every input point, filled by the count pass
	// and reused by the scatter pass.
	cells []int
	// sorted holds the points grouped by tile.
	sorted []r2.Point
	// norm holds the points of sorted normalized into their tile's local box.
	norm []r2.Point
	// cursor is the running write offset of every tile during scatter.
	cursor []int
}

var scratchPool = sync.Pool{
	New: func() any { return new(scratch) },
}

func getScratch(points, tiles int) *scratch {
	s := scratchPool.Get().(*scratch)
	s.cells = grow(s.cells, points)
	s.sorted = grow(s.sorted, points)
	s.norm = grow(s.norm, points)
	s.cursor = grow(s.cursor, tiles)
	return s
}

func putScratch(s *scratch) {
	// Very large buffers are dropped rather than pinned in the pool.
	if cap(s.sorted) > 1<<22 || cap(s.cursor) > 1<<22 {
		return
	}
	scratchPool.Put(s)
}

// grow returns s resliced to n, reallocating only if its capacity is short.
func grow[E any](s []E, n int) []E {
	if cap(s) < n {
		return make([]E, n)
	}
	return s[:n]
}
