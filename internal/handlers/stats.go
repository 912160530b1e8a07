package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "vms:stats"

// Stats serves the dashboard counters, fronted by a short-lived cache
// when redis is configured. Staleness is bounded by the configured TTL.
func (h HandlerSet) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
		if err != redis.Nil {
			h.log.Warn().Err(err).Msg("stats cache read failed")
		}
	}

	stats, err := h.store.DashboardStats(ctx, time.Now())
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	payload, err := json.Marshal(gin.H{"stats": stats})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, statsCacheKey, payload, h.cfg.Redis.StatsTTL).Err(); err != nil {
			h.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
