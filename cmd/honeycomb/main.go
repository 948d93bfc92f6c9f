package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"honeycomb/internal/api"
	"honeycomb/internal/config"
	"honeycomb/internal/discrepancy"
	"honeycomb/internal/geom"
	"honeycomb/internal/tiling"
	"honeycomb/internal/tui"
)

var errUsage = errors.New("usage: honeycomb [file] | honeycomb serve")

func main() {
	if err := run(os.Args[1:]); err != nil {
		// tea.LogToFile points the standard logger at the debug file.
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "honeycomb")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		discrepancy.SetLogger(logger)
	}

	engine := discrepancy.NewEngine(discrepancy.WithWorkers(cfg.Workers))
	defer engine.Close()

	if len(args) > 0 && args[0] == "serve" {
		return serve(cfg, engine)
	}
	if len(args) > 1 {
		return errUsage
	}
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		if path == "" {
			return errUsage
		}
		return report(os.Stdout, cfg, engine, path)
	}

	opts := tui.Options{
		Engine:       engine,
		Shape:        cfg.Shape,
		TileFraction: cfg.TileFraction,
		Params:       cfg.Params,
		Load:         geom.LoadOptions{XColumn: cfg.XColumn, YColumn: cfg.YColumn},
		Logger:       logger,
	}
	var m tea.Model
	if path != "" {
		m = tui.NewWithPath(path, opts)
	} else {
		m = tui.New(opts)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

// serve runs the HTTP API until it fails.
func serve(cfg *config.Config, engine *discrepancy.Engine) error {
	r := api.SetupRouter(cfg, engine, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// report scores the file at path with the configured settings and writes
// the summary to w.
func report(w io.Writer, cfg *config.Config, engine *discrepancy.Engine, path string) error {
	ds, err := geom.Load(path, geom.LoadOptions{XColumn: cfg.XColumn, YColumn: cfg.YColumn})
	if err != nil {
		return err
	}
	shape, err := tiling.ShapeOf(cfg.Shape)
	if err != nil {
		return err
	}
	g, err := tiling.ComputeGrid(shape, config.CellSize(cfg.TileFraction, ds.Bounds), ds.Bounds)
	if err != nil {
		return err
	}
	res, err := engine.Analyze(g, ds.Points, cfg.Params)
	if err != nil {
		return fmt.Errorf("score %s: %w", ds.Name, err)
	}
	_, err = io.WriteString(w, tui.Report(ds, g, res, cfg.Params, 20))
	return err
}
