package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeycomb/internal/config"
	"honeycomb/internal/discrepancy"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := discrepancy.NewEngine(discrepancy.WithWorkers(2))
	t.Cleanup(engine.Close)
	cfg := &config.Config{MaxBodyBytes: 1 << 20}
	return SetupRouter(cfg, engine, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// do sends body to path and decodes the envelope, with Data left raw.
func do(t *testing.T, r http.Handler, method, path, body string) (int, Response, json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env.Response, env.Data
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","workers":2}`, w.Body.String())
}

func TestGrid(t *testing.T) {
	r := newTestRouter(t)
	code, env, data := do(t, r, http.MethodPost, "/api/v1/grid",
		`{"shape":"square","cellSize":5,"bounds":{"min":[0,0],"max":[10,10]},"cells":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, env.Code)

	var g GridResponse
	require.NoError(t, json.Unmarshal(data, &g))
	assert.Equal(t, "square", g.Shape)
	assert.Equal(t, 2, g.Columns)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 4, g.CellCount)
	assert.Nil(t, g.Hex)
	require.Len(t, g.Cells, 4)
	assert.Equal(t, Point{7.5, 7.5}, g.Cells[3].Center)
	assert.Len(t, g.Cells[3].Vertices, 4)
}

func TestGrid_HexFromPoints(t *testing.T) {
	r := newTestRouter(t)
	code, _, data := do(t, r, http.MethodPost, "/api/v1/grid",
		`{"shape":"hex","cellSize":2,"points":[[0,0],[9,9],[4,2]]}`)
	require.Equal(t, http.StatusOK, code)

	var g GridResponse
	require.NoError(t, json.Unmarshal(data, &g))
	assert.Equal(t, 7, g.Columns)
	assert.Equal(t, 6, g.Rows)
	assert.Equal(t, Box{Min: Point{0, 0}, Max: Point{9, 9}}, g.Input)
	require.NotNil(t, g.Hex)
	assert.InDelta(t, 1.5, g.Hex.HorizontalSpacing, 1e-12)
}

func TestMap(t *testing.T) {
	r := newTestRouter(t)
	code, _, data := do(t, r, http.MethodPost, "/api/v1/map",
		`{"shape":"square","cellSize":5,"bounds":{"min":[0,0],"max":[10,10]},"points":[[9,9],[0,0],[7,1]]}`)
	require.Equal(t, http.StatusOK, code)

	var m MapResponse
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, []int{3, 0, 1}, m.Indices)
}

func TestDiscrepancy(t *testing.T) {
	r := newTestRouter(t)
	body := `{"shape":"square","cellSize":1,"bounds":{"min":[0,0],"max":[2,1]},
		"points":[[0.2,0.2],[0.8,0.2],[0.2,0.8],[0.8,0.8],[1.5,0.5]],
		"easeIn":2,"lowCountWeight":0.5}`
	code, _, data := do(t, r, http.MethodPost, "/api/v1/discrepancy", body)
	require.Equal(t, http.StatusOK, code)

	var d DiscrepancyResponse
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, discrepancy.Params{EaseIn: 2, LowCountWeight: 0.5}, d.Params)
	assert.Equal(t, []int{4, 1}, d.Counts)
	assert.Equal(t, 4, d.MaxCount)
	assert.Equal(t, 2, d.Occupied)
	require.Len(t, d.Values, 2)
	assert.InDelta(t, 0.25, d.Values[0], 1e-12)
	assert.InDelta(t, 0.0025+0.5*(1-1.0/16), d.Values[1], 1e-12)
}

func TestDiscrepancy_Defaults(t *testing.T) {
	r := newTestRouter(t)
	code, _, data := do(t, r, http.MethodPost, "/api/v1/discrepancy",
		`{"shape":"hexagon","cellSize":3,"bounds":{"min":[0,0],"max":[5,5]}}`)
	require.Equal(t, http.StatusOK, code)

	var d DiscrepancyResponse
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, discrepancy.DefaultParams(), d.Params)
	assert.Equal(t, make([]float64, d.Grid.CellCount), d.Values)
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter(t)
	cases := []struct {
		name, path, body, msg string
	}{
		{"NotJSON", "/api/v1/grid", `{`, "invalid request"},
		{"MissingShape", "/api/v1/grid", `{"cellSize":1,"points":[[0,0]]}`, "invalid request"},
		{"ZeroCellSize", "/api/v1/grid", `{"shape":"hex","cellSize":0,"points":[[0,0]]}`, "invalid request"},
		{"NegativeCellSize", "/api/v1/map", `{"shape":"hex","cellSize":-1,"points":[[0,0]]}`, "invalid request"},
		{"UnknownShape", "/api/v1/grid", `{"shape":"tri","cellSize":1,"points":[[0,0]]}`, "unknown tile shape"},
		{"NoBoundsNoPoints", "/api/v1/grid", `{"shape":"hex","cellSize":1}`, "bounds or points"},
		{"InvertedBounds", "/api/v1/grid", `{"shape":"hex","cellSize":1,"bounds":{"min":[5,0],"max":[0,5]}}`, "bounding box"},
		{"GridTooLarge", "/api/v1/grid", `{"shape":"square","cellSize":1,"bounds":{"min":[0,0],"max":[2800,2800]}}`, "are allowed"},
		{"MapTooLarge", "/api/v1/map", `{"shape":"square","cellSize":1,"bounds":{"min":[0,0],"max":[2800,2800]}}`, "are allowed"},
		{"DiscrepancyTooLarge", "/api/v1/discrepancy", `{"shape":"hex","cellSize":1,"bounds":{"min":[0,0],"max":[2800,2800]}}`, "are allowed"},
		{"TooManyCells", "/api/v1/grid", `{"shape":"square","cellSize":0.001,"bounds":{"min":[0,0],"max":[1,1]},"cells":true}`, "at most"},
		{"BadEaseIn", "/api/v1/discrepancy", `{"shape":"hex","cellSize":1,"points":[[0,0]],"easeIn":0.5}`, "ease-in"},
		{"BadWeight", "/api/v1/discrepancy", `{"shape":"hex","cellSize":1,"points":[[0,0]],"lowCountWeight":3}`, "low-count"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env, _ := do(t, r, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, http.StatusBadRequest, env.Code)
			assert.Contains(t, env.Message, tc.msg)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := discrepancy.NewEngine(discrepancy.WithWorkers(1))
	defer engine.Close()
	r := SetupRouter(&config.Config{MaxBodyBytes: 64}, engine, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var buf bytes.Buffer
	buf.WriteString(`{"shape":"square","cellSize":1,"points":[`)
	for i := range 100 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("[1,2]")
	}
	buf.WriteString("]}")

	code, _, _ := do(t, r, http.MethodPost, "/api/v1/grid", buf.String())
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMaxCellsFromConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := discrepancy.NewEngine(discrepancy.WithWorkers(1))
	defer engine.Close()
	r := SetupRouter(&config.Config{MaxBodyBytes: 1 << 20, MaxCells: 4}, engine, slog.New(slog.NewTextHandler(io.Discard, nil)))

	body := `{"shape":"square","cellSize":5,"bounds":{"min":[0,0],"max":[10,10]}}`
	code, _, _ := do(t, r, http.MethodPost, "/api/v1/discrepancy", body)
	assert.Equal(t, http.StatusOK, code)

	body = `{"shape":"square","cellSize":5,"bounds":{"min":[0,0],"max":[10,11]}}`
	code, env, _ := do(t, r, http.MethodPost, "/api/v1/discrepancy", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "grid has 6 cells, at most 4 are allowed", env.Message)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/grid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
