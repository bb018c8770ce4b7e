package httpapi

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"recipe-planner/internal/planner"
)

func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return time.Now(), true
	}
	t, err := time.Parse(planner.DateLayout, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

func parseWeekStartsOn(c *gin.Context) time.Weekday {
	n, err := strconv.Atoi(c.DefaultQuery("weekStartsOn", "1"))
	if err != nil || n < 0 || n > 6 {
		return time.Monday
	}
	return time.Weekday(n)
}

// GetPlannerWindow returns every plan item in the three-week window around
// the anchor date: the anchor's week plus the weeks before and after it.
func (h *Handler) GetPlannerWindow(c *gin.Context) {
	anchor, ok := parseDateParam(c, "anchor")
	if !ok {
		return
	}
	weekStart := planner.WeekStart(anchor, parseWeekStartsOn(c))
	window := planner.ThreeWeekWindow(weekStart)

	items, err := h.plans.ListRange(c.Request.Context(), c.GetString("userID"), window.FromISO, window.ToISO)
	if err != nil {
		log.Printf("Error listing planner window: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plan"})
		return
	}
	if items == nil {
		items = []planner.PlanItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"from":  window.FromISO,
		"to":    window.ToISO,
		"items": items,
	})
}

// GetPlannerWeek returns one week as a 7-day x 4-slot grid, plus the cards of
// every recipe placed on it.
func (h *Handler) GetPlannerWeek(c *gin.Context) {
	start, ok := parseDateParam(c, "start")
	if !ok {
		return
	}
	weekStart := planner.WeekStart(start, parseWeekStartsOn(c))

	userID := c.GetString("userID")
	items, err := h.plans.ListWeek(c.Request.Context(), userID, weekStart)
	if err != nil {
		log.Printf("Error listing planner week: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load week"})
		return
	}

	result := planner.BuildWeekGrid(planner.GroupByDate(items), weekStart)
	cards, err := h.recipes.GetCards(c.Request.Context(), userID, result.RecipeIDs)
	if err != nil {
		log.Printf("Error loading week recipe cards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weekStart": weekStart.Format(planner.DateLayout),
		"grid":      result.Grid,
		"recipes":   cards,
	})
}

// PutPlanItem places an item into a (date, meal) slot, replacing whatever
// occupied it.
func (h *Handler) PutPlanItem(c *gin.Context) {
	var item planner.PlanItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan item payload"})
		return
	}
	item.UserID = c.GetString("userID")

	stored, err := h.plans.Put(c.Request.Context(), item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stored)
}

// DeletePlanItem clears a slot by plan item id.
func (h *Handler) DeletePlanItem(c *gin.Context) {
	if err := h.plans.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		log.Printf("Error deleting plan item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete plan item"})
		return
	}
	c.Status(http.StatusNoContent)
}
