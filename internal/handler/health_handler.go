package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether the order store answers.
type ReadinessCheck func(ctx context.Context) error

type HealthHandler struct {
	ready ReadinessCheck
}

func NewHealthHandler(ready ReadinessCheck) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Liveness godoc
// @Summary Process liveness
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness godoc
// @Summary Store reachability
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	start := time.Now()
	if err := h.ready(ctx); err != nil {
		zap.L().Warn("readiness check failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "store not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "latency": time.Since(start).String()})
}
