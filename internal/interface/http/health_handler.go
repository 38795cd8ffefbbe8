package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type HealthHandler struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Pool: pool, Redis: rdb, Logger: logger}
}

// Check GET /health. Store unavailability is a readiness signal, kept apart
// from business errors: 503 here, never on the data endpoints' happy path.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.Pool.Ping(ctx); err != nil {
		h.Logger.WithError(err).Error("health check: database unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "disconnected"})
		return
	}
	out := gin.H{"status": "ok", "db": "connected"}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			out["cache"] = "disconnected"
		} else {
			out["cache"] = "connected"
		}
	}
	c.JSON(http.StatusOK, out)
}
