package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/pkg/database"
	"github.com/contactdeck/contactdeck/pkg/redis"
	"github.com/contactdeck/contactdeck/pkg/response"
)

// HealthHandler reports service health
type HealthHandler struct {
	db    *database.PostgresDB
	cache *redis.Client
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health is a liveness probe
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ok"}))
}

// Ready checks downstream dependencies
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{
		"postgres": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := h.db.Ping(c.Request.Context()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	}
	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response.Error("NOT_READY", "Dependency check failed"))
		return
	}
	c.JSON(http.StatusOK, response.Success(checks))
}
