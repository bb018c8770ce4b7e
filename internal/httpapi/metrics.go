package httpapi

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe-planner/internal/metrics"
)

// GetDailyMetrics returns per-day request totals for the last N days
// (default 7).
func (h *Handler) GetDailyMetrics(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	usage, err := h.metrics.GetDailyUsage(c.Request.Context(), days)
	if err != nil {
		log.Printf("Error loading daily metrics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load metrics"})
		return
	}
	if usage == nil {
		usage = []metrics.DailyUsage{}
	}
	c.JSON(http.StatusOK, gin.H{"days": usage})
}
