// Package tiling partitions a 2-D bounding box into a regular grid of square
// or flat-topped hexagonal tiles and maps data points to tile indices.
//
// What:
//
//   - ComputeGrid turns a Shape, a cell size and a bounding box into an
//     immutable Grid (columns, rows, expanded grid bounds, per-shape layout).
//   - Grid.MapPoint maps a point to its row-major tile index
//     (col + Columns*row). The grid is an explicit argument, so a point can
//     never be mapped against a grid that was not computed first.
//   - Grid.CellCenter / CellVertices / CellBounds reconstruct tile geometry for
//     callers that draw outlines or need the region of a tile.
//
// Boundary policy:
//
//   - MapInterval is unclamped. Every call site clamps to [0, max] so points
//     on the upper edge of the grid land in the last column/row.
//   - Grid bounds are expanded outward to whole tiles, never shrunk.
//   - An axis with zero extent is widened to MinExtent before the grid is
//     sized, which yields a single column (or row) instead of a division by
//     zero.
//
// Hexagons:
//
//   - Half size s = cellSize/2, horizontal spacing 1.5·s, vertical spacing √3·s.
//   - Points are first bucketed into an auxiliary rectangle grid (width s,
//     height √3·s/2). Three rectangle columns cover two hexagon columns; the
//     two rectangles that straddle a slanted edge are resolved with a
//     half-plane test.
//
// Errors:
//
//   - ErrInvalidCellSize: cell size ≤ 0 or not finite.
//   - ErrInvalidBounds: min > max on an axis, or non-finite corners.
//
// Both wrap ErrInvalidParameter.
package tiling
