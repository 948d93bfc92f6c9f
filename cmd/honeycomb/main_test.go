package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeycomb/internal/config"
	"honeycomb/internal/discrepancy"
	"honeycomb/internal/tiling"
)

func TestReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,x,y\na,0,0\nb,1,1\nc,9,9\nd,oops,2\n"), 0o644))

	cfg := &config.Config{Shape: tiling.KindSquare, TileFraction: 0.5, Params: discrepancy.DefaultParams()}
	engine := discrepancy.NewEngine(discrepancy.WithWorkers(1))
	defer engine.Close()

	var out bytes.Buffer
	require.NoError(t, report(&out, cfg, engine, path))
	s := out.String()
	assert.Contains(t, s, "dataset   sites.csv (csv)")
	assert.Contains(t, s, "points    3 (1 skipped)")
	assert.Contains(t, s, "square grid 2x2")
	assert.Contains(t, s, "tiles     4, 2 occupied, max 2 points")
}

func TestReport_Errors(t *testing.T) {
	cfg := &config.Config{Shape: tiling.KindHex, TileFraction: 0.5, Params: discrepancy.DefaultParams()}
	engine := discrepancy.NewEngine(discrepancy.WithWorkers(1))
	defer engine.Close()

	var out bytes.Buffer
	assert.Error(t, report(&out, cfg, engine, filepath.Join(t.TempDir(), "missing.csv")))
	assert.Error(t, report(&out, cfg, engine, "points.shp"))
	assert.Empty(t, out.String())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{name: "TooManyArgs", args: []string{"a.csv", "b.csv"}, want: errUsage.Error()},
		{name: "InvalidConfig", env: map[string]string{"HONEYCOMB_MAX_CELLS": "0"}, want: "max cells"},
		{name: "DebugLogUnwritable", env: map[string]string{"HONEYCOMB_DEBUG": filepath.Join(t.TempDir(), "missing", "debug.log")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HONEYCOMB_DEBUG", "")
			t.Setenv("HONEYCOMB_MAX_CELLS", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := run(tt.args)
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}
