package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// VisitorReport serves the visitors inside [start, end] plus the derived
// statistics block. Dates arrive as yyyy-mm-dd and cover whole days.
func (h HandlerSet) VisitorReport(c *gin.Context) {
	start, err := time.ParseInLocation(reportDateLayout, c.Query("start"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_start_date"})
		return
	}
	end, err := time.ParseInLocation(reportDateLayout, c.Query("end"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_end_date"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_before_start"})
		return
	}

	report, err := h.visitorService.Report(c.Request.Context(), start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("visitor report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visitors": toVisitorResponses(report.Visitors),
		"stats":    report.Stats,
	})
}
