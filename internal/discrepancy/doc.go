// Package discrepancy scores how unevenly the points inside each tile of a
// tiling.Grid are distributed.
//
// Analyze runs in four passes:
//
//  1. count: map every point to its tile and count points per tile;
//  2. layout: exclusive prefix sum of the counts gives each tile's offset
//     into a flat buffer;
//  3. scatter: copy every point into its tile's slice of the buffer and grow
//     the tile's local point bounding box;
//  4. scan: for each tile, in parallel, normalize its points into their local
//     box and take the largest gap between the share of points in the
//     closed lower-left quadrant of a point and that quadrant's area.
//
// Passes 1 to 3 are sequential. Pass 4 reads only the tile's own slice and
// writes only the tile's own result slot.
//
// The raw score is floored at Floor, raised to Params.EaseIn and blended with
// a low-count penalty Params.LowCountWeight·(1-(k/maxK)²), then capped at 1.
// Empty tiles score 0.
//
// Complexity is O(N + M + Σk²) for N points, M tiles and k points in a tile.
// The scan is quadratic per tile, so cell sizes should keep k in the tens to
// low hundreds.
package discrepancy
