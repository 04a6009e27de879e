package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	apiName    = "Task Management API"
	apiVersion = "1.0.0"

	healthPingTimeout = 2 * time.Second
)

func (h *handlerImpl) HandleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": apiName,
		"version": apiVersion,
		"endpoints": gin.H{
			"auth":  "/api/auth",
			"users": "/api/users",
			"tasks": "/api/tasks",
		},
	})
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, healthPingTimeout)
	defer cancel()

	err := h.pinger.Ping(ctx)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to ping database")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlerImpl) HandleNoRoute(c *gin.Context) {
	abort(c, newNotFoundError("Route not found"))
}
