package httpapi

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipe-planner/internal/grocery"
	"recipe-planner/internal/planner"
)

// GetBasket returns the basket grouped by recipe, in the order recipes were
// added.
func (h *Handler) GetBasket(c *gin.Context) {
	entries, err := h.basket.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		log.Printf("Error listing basket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load basket"})
		return
	}
	if entries == nil {
		entries = []grocery.RecipeEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": entries})
}

// AddRecipeToBasket snapshots a recipe's ingredient list into the basket.
// Adding a recipe that is already there replaces its entry.
func (h *Handler) AddRecipeToBasket(c *gin.Context) {
	userID := c.GetString("userID")
	rec, err := h.recipes.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		log.Printf("Error loading recipe for basket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	entry := grocery.RecipeEntry{RecipeID: rec.ID, Title: rec.Title}
	for _, ing := range rec.Ingredients {
		entry.Items = append(entry.Items, grocery.Item{
			ID:       uuid.NewString(),
			Name:     ing.Item,
			Quantity: grocery.Quantity(ing.Quantity),
			Unit:     ing.Unit,
		})
	}

	if err := h.basket.Upsert(c.Request.Context(), userID, entry); err != nil {
		log.Printf("Error adding recipe to basket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update basket"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type generateRequest struct {
	WeekStart string `json:"weekStart" binding:"required"`
}

// GenerateBasket adds every recipe referenced by one planner week to the
// basket. Recipes already in the basket get their entries replaced.
func (h *Handler) GenerateBasket(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weekStart is required"})
		return
	}
	weekStart, err := time.Parse(planner.DateLayout, req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weekStart must be YYYY-MM-DD"})
		return
	}

	userID := c.GetString("userID")
	items, err := h.plans.ListWeek(c.Request.Context(), userID, weekStart)
	if err != nil {
		log.Printf("Error listing week for basket generation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load week"})
		return
	}

	result := planner.BuildWeekGrid(planner.GroupByDate(items), weekStart)
	added := 0
	for _, recipeID := range result.RecipeIDs {
		rec, err := h.recipes.Get(c.Request.Context(), userID, recipeID)
		if err != nil {
			log.Printf("Error loading recipe %s for basket generation: %v", recipeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipes"})
			return
		}
		if rec == nil {
			continue
		}

		entry := grocery.RecipeEntry{RecipeID: rec.ID, Title: rec.Title}
		for _, ing := range rec.Ingredients {
			entry.Items = append(entry.Items, grocery.Item{
				ID:       uuid.NewString(),
				Name:     ing.Item,
				Quantity: grocery.Quantity(ing.Quantity),
				Unit:     ing.Unit,
			})
		}
		if err := h.basket.Upsert(c.Request.Context(), userID, entry); err != nil {
			log.Printf("Error adding recipe %s to basket: %v", recipeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update basket"})
			return
		}
		added++
	}

	c.JSON(http.StatusOK, gin.H{"added": added})
}

// RemoveRecipeFromBasket drops one recipe and all its item lines.
func (h *Handler) RemoveRecipeFromBasket(c *gin.Context) {
	if err := h.basket.Remove(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		log.Printf("Error removing basket entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update basket"})
		return
	}
	c.Status(http.StatusNoContent)
}

type checkRequest struct {
	RecipeID string `json:"recipeId" binding:"required"`
	ItemID   string `json:"itemId" binding:"required"`
	Checked  bool   `json:"checked"`
}

// SetItemChecked marks a single basket line as bought or not.
func (h *Handler) SetItemChecked(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeId and itemId are required"})
		return
	}

	err := h.basket.SetItemChecked(c.Request.Context(), c.GetString("userID"), req.RecipeID, req.ItemID, req.Checked)
	if errors.Is(err, grocery.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "basket item not found"})
		return
	}
	if err != nil {
		log.Printf("Error checking basket item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update basket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checked": req.Checked})
}

// ClearBasket empties the basket.
func (h *Handler) ClearBasket(c *gin.Context) {
	if err := h.basket.Clear(c.Request.Context(), c.GetString("userID")); err != nil {
		log.Printf("Error clearing basket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear basket"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCombinedBasket aggregates the basket across recipes: same name
// (case-insensitive) and unit merge into one line with summed quantities.
func (h *Handler) GetCombinedBasket(c *gin.Context) {
	entries, err := h.basket.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		log.Printf("Error listing basket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load basket"})
		return
	}

	combined := grocery.CombineIngredients(entries)
	if combined == nil {
		combined = []grocery.CombinedIngredient{}
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": combined})
}

// ExportBasket renders the basket as plain text for the clipboard.
func (h *Handler) ExportBasket(c *gin.Context) {
	entries, err := h.basket.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		log.Printf("Error listing basket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load basket"})
		return
	}

	opts := grocery.ExportOptions{OnlyUnchecked: c.Query("onlyUnchecked") == "true"}
	text := grocery.BuildBasketText(entries, opts)
	c.JSON(http.StatusOK, gin.H{"text": text})
}
