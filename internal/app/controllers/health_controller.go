package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/signupdesk/internal/app/models/dto"
	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// Pinger is implemented by the document store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness and store reachability
type HealthController struct {
	store   Pinger
	timeout time.Duration
}

// NewHealthController creates a new HealthController
func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store, timeout: 2 * time.Second}
}

// Ping answers liveness probes
func (h *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health pings the document store
// @Summary Health check
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check: document store unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down"})
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up"})
}
