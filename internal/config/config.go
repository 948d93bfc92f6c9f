package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/golang/geo/r2"

	"honeycomb/internal/discrepancy"
	"honeycomb/internal/tiling"
)

// DefaultMaxCells is the default per-request tile cap of the API.
const DefaultMaxCells = 1 << 20

// Config is the application configuration, read from the environment.
type Config struct {
	// Port is the listen address of the HTTP API.
	Port string
	// Shape is the initial tile shape.
	Shape tiling.Kind
	// TileFraction is the tile size as a fraction of the larger side of the
	// dataset's bounding box.
	TileFraction float64
	// Params are the initial discrepancy parameters.
	Params discrepancy.Params
	// Workers is the number of discrepancy scan workers; 0 uses GOMAXPROCS.
	Workers int
	// XColumn and YColumn force the CSV columns used as x and y.
	XColumn, YColumn string
	// MaxBodyBytes caps the size of an API request body.
	MaxBodyBytes int64
	// MaxCells caps the tiles of a grid computed for one API request.
	MaxCells int
	// DebugLog is the file debug logs are written to; empty disables them.
	DebugLog string
}

// Load reads the configuration. Unset variables take their defaults;
// malformed or out-of-range values are reported together.
func Load() (*Config, error) {
	c := &Config{
		Port:         ":8080",
		Shape:        tiling.KindHex,
		TileFraction: 0.05,
		Params:       discrepancy.DefaultParams(),
		MaxBodyBytes: 32 << 20,
		MaxCells:     DefaultMaxCells,
	}

	var errs []error
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("HONEYCOMB_SHAPE"); v != "" {
		k, err := tiling.ParseKind(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HONEYCOMB_SHAPE: %w", err))
		}
		c.Shape = k
	}
	floatVar(&errs, "HONEYCOMB_TILE_FRACTION", &c.TileFraction)
	floatVar(&errs, "HONEYCOMB_EASE_IN", &c.Params.EaseIn)
	floatVar(&errs, "HONEYCOMB_LOW_COUNT", &c.Params.LowCountWeight)
	if v := os.Getenv("HONEYCOMB_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HONEYCOMB_WORKERS: %w", err))
		}
		c.Workers = n
	}
	if v := os.Getenv("HONEYCOMB_MAX_BODY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("HONEYCOMB_MAX_BODY: %w", err))
		}
		c.MaxBodyBytes = n
	}
	if v := os.Getenv("HONEYCOMB_MAX_CELLS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HONEYCOMB_MAX_CELLS: %w", err))
		}
		c.MaxCells = n
	}
	c.XColumn = os.Getenv("HONEYCOMB_X_COLUMN")
	c.YColumn = os.Getenv("HONEYCOMB_Y_COLUMN")
	switch v := os.Getenv("HONEYCOMB_DEBUG"); v {
	case "", "0", "false":
	case "1", "true":
		c.DebugLog = "honeycomb-debug.log"
	default:
		c.DebugLog = v
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func floatVar(errs *[]error, name string, dst *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = f
}

// Validate checks every field and returns all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if !(c.TileFraction > 0 && c.TileFraction <= 1) {
		errs = append(errs, fmt.Errorf("tile fraction must be in (0,1], got %v", c.TileFraction))
	}
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max body must be > 0, got %d", c.MaxBodyBytes))
	}
	if c.MaxCells <= 0 || c.MaxCells > tiling.MaxCells {
		errs = append(errs, fmt.Errorf("max cells must be in [1,%d], got %d", tiling.MaxCells, c.MaxCells))
	}
	return errors.Join(errs...)
}

// CellSize converts a tile fraction into a cell size for bounds. A box with
// no extent uses a span of 1.
func CellSize(fraction float64, bounds r2.Rect) float64 {
	size := bounds.Size()
	span := math.Max(size.X, size.Y)
	if !(span > 0) || math.IsInf(span, 0) {
		span = 1
	}
	return fraction * span
}
