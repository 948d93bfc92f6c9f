package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"honeycomb/internal/config"
	"honeycomb/internal/discrepancy"
	"honeycomb/internal/geom"
	"honeycomb/internal/tiling"
)

// maxCellsInResponse caps the number of tiles whose geometry a grid
// response may list.
const maxCellsInResponse = 1 << 16

// Point is an [x, y] pair.
type Point [2]float64

// Box is an axis-aligned box given by its min and max corners.
type Box struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// GridRequest describes a grid. Bounds default to the bounding box of Points.
type GridRequest struct {
	Shape    string  `json:"shape" binding:"required"`
	CellSize float64 `json:"cellSize" binding:"required,gt=0"`
	Bounds   *Box    `json:"bounds"`
	Points   []Point `json:"points"`
	// Cells asks for the centre and vertices of every tile.
	Cells bool `json:"cells"`
}

// DiscrepancyRequest is a GridRequest plus the discrepancy parameters.
// Missing parameters take their defaults.
type DiscrepancyRequest struct {
	GridRequest
	EaseIn         *float64 `json:"easeIn"`
	LowCountWeight *float64 `json:"lowCountWeight"`
}

// GridResponse describes a computed grid.
type GridResponse struct {
	Shape     string     `json:"shape"`
	CellSize  float64    `json:"cellSize"`
	Columns   int        `json:"columns"`
	Rows      int        `json:"rows"`
	CellCount int        `json:"cellCount"`
	Input     Box        `json:"input"`
	Bounds    Box        `json:"bounds"`
	Hex       *HexLayout `json:"hex,omitempty"`
	Cells     []Cell     `json:"cells,omitempty"`
}

// HexLayout is the derived hexagon geometry of a hex grid.
type HexLayout struct {
	Size              float64 `json:"size"`
	HorizontalSpacing float64 `json:"horizontalSpacing"`
	VerticalSpacing   float64 `json:"verticalSpacing"`
}

// Cell is the geometry of one tile.
type Cell struct {
	Index    int     `json:"index"`
	Column   int     `json:"column"`
	Row      int     `json:"row"`
	Center   Point   `json:"center"`
	Vertices []Point `json:"vertices"`
}

// MapResponse is a grid plus the tile index of every request point.
type MapResponse struct {
	Grid    GridResponse `json:"grid"`
	Indices []int        `json:"indices"`
}

// DiscrepancyResponse is a grid plus its discrepancy array.
type DiscrepancyResponse struct {
	Grid     GridResponse       `json:"grid"`
	Params   discrepancy.Params `json:"params"`
	Values   []float64          `json:"values"`
	Counts   []int              `json:"counts"`
	MaxCount int                `json:"maxCount"`
	Occupied int                `json:"occupied"`
}

// Handler serves the tiling and discrepancy endpoints.
type Handler struct {
	engine *discrepancy.Engine
	// maxCells caps the tiles of any grid a request may ask for.
	maxCells int
}

// NewHandler creates a handler scoring with engine. Grids with more than
// maxCells tiles are rejected; 0 or less uses config.DefaultMaxCells.
func NewHandler(engine *discrepancy.Engine, maxCells int) *Handler {
	if maxCells <= 0 {
		maxCells = config.DefaultMaxCells
	}
	return &Handler{engine: engine, maxCells: maxCells}
}

// Grid handles POST /api/v1/grid.
func (h *Handler) Grid(c *gin.Context) {
	var req GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g, _, ok := h.buildGrid(c, &req)
	if !ok {
		return
	}
	Success(c, gridResponse(g, req.Cells))
}

// Map handles POST /api/v1/map.
func (h *Handler) Map(c *gin.Context) {
	var req GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g, pts, ok := h.buildGrid(c, &req)
	if !ok {
		return
	}
	idx := make([]int, len(pts))
	for i, p := range pts {
		idx[i] = g.MapPoint(p)
	}
	Success(c, MapResponse{Grid: gridResponse(g, req.Cells), Indices: idx})
}

// Discrepancy handles POST /api/v1/discrepancy.
func (h *Handler) Discrepancy(c *gin.Context) {
	var req DiscrepancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	params := discrepancy.DefaultParams()
	if req.EaseIn != nil {
		params.EaseIn = *req.EaseIn
	}
	if req.LowCountWeight != nil {
		params.LowCountWeight = *req.LowCountWeight
	}
	if err := params.Validate(); err != nil {
		_ = c.Error(err)
		BadRequest(c, err.Error())
		return
	}

	g, pts, ok := h.buildGrid(c, &req.GridRequest)
	if !ok {
		return
	}
	res, err := h.engine.Analyze(g, pts, params)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, discrepancy.ErrNonFinitePoint) || errors.Is(err, discrepancy.ErrInvalidParams) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, DiscrepancyResponse{
		Grid:     gridResponse(g, req.Cells),
		Params:   params,
		Values:   res.Values,
		Counts:   res.Counts,
		MaxCount: res.MaxCount,
		Occupied: res.Occupied(),
	})
}

// buildGrid computes the grid of req and writes a 400 response on failure.
func (h *Handler) buildGrid(c *gin.Context, req *GridRequest) (*tiling.Grid, []r2.Point, bool) {
	kind, err := tiling.ParseKind(req.Shape)
	if err != nil {
		_ = c.Error(err)
		BadRequest(c, err.Error())
		return nil, nil, false
	}
	shape, err := tiling.ShapeOf(kind)
	if err != nil {
		_ = c.Error(err)
		BadRequest(c, err.Error())
		return nil, nil, false
	}

	pts := make([]r2.Point, len(req.Points))
	for i, p := range req.Points {
		pts[i] = r2.Point{X: p[0], Y: p[1]}
	}
	var bounds r2.Rect
	switch {
	case req.Bounds != nil:
		bounds = r2.Rect{
			X: r1.Interval{Lo: req.Bounds.Min[0], Hi: req.Bounds.Max[0]},
			Y: r1.Interval{Lo: req.Bounds.Min[1], Hi: req.Bounds.Max[1]},
		}
	case len(pts) > 0:
		bounds = geom.BoundsOf(pts)
	default:
		BadRequest(c, "either bounds or points are required")
		return nil, nil, false
	}

	g, err := tiling.ComputeGrid(shape, req.CellSize, bounds)
	if err != nil {
		_ = c.Error(err)
		BadRequest(c, err.Error())
		return nil, nil, false
	}
	if g.CellCount() > h.maxCells {
		BadRequest(c, fmt.Sprintf("grid has %d cells, at most %d are allowed", g.CellCount(), h.maxCells))
		return nil, nil, false
	}
	if req.Cells && g.CellCount() > maxCellsInResponse {
		BadRequest(c, fmt.Sprintf("grid has %d cells, at most %d can be listed", g.CellCount(), maxCellsInResponse))
		return nil, nil, false
	}
	return g, pts, true
}

func gridResponse(g *tiling.Grid, cells bool) GridResponse {
	r := GridResponse{
		Shape:     g.Kind().String(),
		CellSize:  g.CellSize,
		Columns:   g.Columns,
		Rows:      g.Rows,
		CellCount: g.CellCount(),
		Input:     box(g.Input),
		Bounds:    box(g.Bounds),
	}
	if g.Kind() == tiling.KindHex {
		r.Hex = &HexLayout{
			Size:              g.Hex.Size,
			HorizontalSpacing: g.Hex.HorizontalSpacing,
			VerticalSpacing:   g.Hex.VerticalSpacing,
		}
	}
	if cells {
		r.Cells = make([]Cell, g.CellCount())
		for i := range r.Cells {
			col, row := g.Coordinate(i)
			c := g.CellCenter(i)
			vs := g.CellVertices(i)
			cell := Cell{Index: i, Column: col, Row: row, Center: Point{c.X, c.Y}, Vertices: make([]Point, len(vs))}
			for j, v := range vs {
				cell.Vertices[j] = Point{v.X, v.Y}
			}
			r.Cells[i] = cell
		}
	}
	return r
}

func box(r r2.Rect) Box {
	return Box{Min: Point{r.X.Lo, r.Y.Lo}, Max: Point{r.X.Hi, r.Y.Hi}}
}
