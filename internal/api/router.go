package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"honeycomb/internal/config"
	"honeycomb/internal/discrepancy"
)

// SetupRouter wires the API routes.
func SetupRouter(cfg *config.Config, engine *discrepancy.Engine, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Logger(log), CORS(), BodyLimit(cfg.MaxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"workers": engine.Workers(),
		})
	})

	h := NewHandler(engine, cfg.MaxCells)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/grid", h.Grid)
		v1.POST("/map", h.Map)
		v1.POST("/discrepancy", h.Discrepancy)
	}
	return r
}
