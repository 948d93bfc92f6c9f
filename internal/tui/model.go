package tui

import (
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/geo/r2"

	"honeycomb/internal/discrepancy"
	"honeycomb/internal/geom"
	"honeycomb/internal/tiling"
)

// Options are the initial settings of a Model.
type Options struct {
	// Engine scores tiles; nil uses the shared default engine.
	Engine *discrepancy.Engine
	// Shape is the tile shape selected when tiling is switched on.
	Shape tiling.Kind
	// TileFraction is the tile size as a fraction of the larger side of the
	// dataset's bounding box.
	TileFraction float64
	Params       discrepancy.Params
	Load         geom.LoadOptions
	// Logger receives debug records; nil discards them.
	Logger *slog.Logger
}

type analyzeFunc func(*tiling.Grid, []r2.Point, discrepancy.Params) (*discrepancy.Result, error)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	ds       *geom.Dataset
	loadOpts geom.LoadOptions

	// Tiling settings
	tiled        bool
	kind         tiling.Kind
	tileFraction float64
	params       discrepancy.Params
	analyze      analyzeFunc

	// gen numbers recompute requests; only a result carrying the latest
	// one is shown.
	gen       uint64
	computing bool
	initCmd   tea.Cmd
	// grid and result always belong to the same request.
	grid   *tiling.Grid
	result *discrepancy.Result

	pal *palette
	log *slog.Logger

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showPoints   bool
	showShading  bool
	showOutlines bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverPoint  r2.Point

	// tile table
	showTiles bool
	tbl       table.Model
}

func New(opts Options) Model {
	m := Model{
		showSidebar:  false,
		helpVisible:  true,
		zoom:         1.0,
		status:       "honeycomb ready",
		showPoints:   true,
		showShading:  true,
		showOutlines: false,
		tiled:        true,
		kind:         opts.Shape,
		tileFraction: opts.TileFraction,
		params:       opts.Params,
		loadOpts:     opts.Load,
		analyze:      discrepancy.Analyze,
		pal:          newPalette(rampStops...),
		log:          opts.Logger,
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	if opts.Engine != nil {
		m.analyze = opts.Engine.Analyze
	}
	if !(m.tileFraction > 0 && m.tileFraction <= 1) {
		m.tileFraction = defaultTileFraction
	}
	if m.params.Validate() != nil {
		m.params = discrepancy.DefaultParams()
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, MULTIPOINT, LINESTRING, POLYGON...). Press Enter to load; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// tile table setup (rows are filled from the latest result)
	m.tbl = table.New(table.WithColumns(tileColumns()), table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's points at launch; Init starts scoring them.
func NewWithPath(path string, opts Options) Model {
	m := New(opts)
	m.initCmd = m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return m.initCmd }
