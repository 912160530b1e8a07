package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vms/api/internal/store"
)

// Health reports which backend was selected at startup. Demo mode is how
// clients know to show the demo banner.
func (h HandlerSet) Health(c *gin.Context) {
	cacheStatus := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx).Err(); err != nil {
			cacheStatus = "unreachable"
		} else {
			cacheStatus = "ok"
		}
	}

	database := "postgres"
	if h.store.Mode() == store.ModeDemo {
		database = "local"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"mode":     h.store.Mode(),
		"database": database,
		"cache":    cacheStatus,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
