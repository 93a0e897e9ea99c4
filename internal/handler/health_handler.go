package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const readyTimeout = 5 * time.Second

type HealthHandler struct {
	db      *gorm.DB
	redis   *redis.Client
	service string
}

// NewHealthHandler creates the liveness/readiness handler. redis may be nil when the list cache is disabled.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, service string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redis,
		service: service,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	connections := make(map[string]string)

	// Check database
	if h.db == nil {
		connections["database"] = "error: not connected"
	} else if sqlDB, err := h.db.DB(); err != nil {
		connections["database"] = "error: " + err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		connections["database"] = "error: " + err.Error()
	} else {
		connections["database"] = "connected"
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			connections["redis"] = "error: " + err.Error()
		} else {
			connections["redis"] = "connected"
		}
	} else {
		connections["redis"] = "not configured"
	}

	hasError := false
	for _, status := range connections {
		if status != "connected" && status != "not configured" {
			hasError = true
			break
		}
	}

	status := http.StatusOK
	statusText := "ready"
	if hasError {
		status = http.StatusServiceUnavailable
		statusText = "not ready"
	}

	c.JSON(status, gin.H{
		"status":      statusText,
		"connections": connections,
	})
}
