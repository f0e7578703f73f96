package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger is satisfied by store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness, and with ?deep=1 store reachability.
type HealthHandler struct {
	DB Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	if c.Query("deep") != "1" {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check: store unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "database": "DOWN"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP", "database": "UP"})
}
