package httpapi

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"recipe-planner/internal/importer"
	"recipe-planner/internal/recipe"
)

// ListRecipes returns one page of recipe cards. Without a q parameter the
// page walks creation time newest-first; with one it walks title prefix
// matches alphabetically.
func (h *Handler) ListRecipes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	afterCreated, _ := strconv.ParseInt(c.Query("afterCreatedAt"), 10, 64)

	req := recipe.PageRequest{
		Query:          c.Query("q"),
		Category:       c.Query("category"),
		Difficulty:     recipe.Difficulty(c.Query("difficulty")),
		Tag:            c.Query("tag"),
		Limit:          limit,
		AfterCreatedAt: afterCreated,
		AfterTitle:     c.Query("afterTitle"),
		AfterID:        c.Query("afterId"),
	}

	page, err := h.recipes.ListCardsPaged(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		log.Printf("Error listing recipes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}
	if page.Cards == nil {
		page.Cards = []recipe.Card{}
	}
	c.JSON(http.StatusOK, page)
}

// GetRecipe returns one full recipe.
func (h *Handler) GetRecipe(c *gin.Context) {
	rec, err := h.recipes.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		log.Printf("Error getting recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recipe"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CreateRecipe stores a new recipe for the authenticated user.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var rec recipe.Recipe
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe payload"})
		return
	}
	if strings.TrimSpace(rec.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	rec.ID = ""
	rec.AuthorID = c.GetString("userID")
	for i, tag := range rec.Tags {
		rec.Tags[i] = recipe.NormalizeTag(tag)
	}

	if err := h.recipes.Save(c.Request.Context(), &rec); err != nil {
		log.Printf("Error creating recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// UpdateRecipe replaces an existing recipe.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	existing, err := h.recipes.Get(c.Request.Context(), userID, id)
	if err != nil {
		log.Printf("Error loading recipe for update: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var rec recipe.Recipe
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe payload"})
		return
	}
	if strings.TrimSpace(rec.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	rec.ID = id
	rec.AuthorID = userID
	rec.CreatedAt = existing.CreatedAt
	for i, tag := range rec.Tags {
		rec.Tags[i] = recipe.NormalizeTag(tag)
	}

	if err := h.recipes.Save(c.Request.Context(), &rec); err != nil {
		log.Printf("Error updating recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteRecipe removes a recipe.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	ok, err := h.recipes.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		log.Printf("Error deleting recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFavorites returns the user's favorite cards.
func (h *Handler) ListFavorites(c *gin.Context) {
	cards, err := h.recipes.ListFavorites(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		log.Printf("Error listing favorites: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
		return
	}
	if cards == nil {
		cards = []recipe.Card{}
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

type favoriteRequest struct {
	IsFavorite bool `json:"isFavorite"`
}

// SetFavorite flips the favorite flag of a recipe.
func (h *Handler) SetFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ok, err := h.recipes.SetFavorite(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.IsFavorite)
	if err != nil {
		log.Printf("Error setting favorite: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set favorite"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": req.IsFavorite})
}

type ratingsRequest struct {
	Categories map[recipe.RatingCategory]int `json:"categories"`
}

// SaveRatings replaces the per-category ratings of a recipe.
func (h *Handler) SaveRatings(c *gin.Context) {
	var req ratingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !recipe.ValidRating(req.Categories) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ratings must use known categories with values 1-5"})
		return
	}

	ok, err := h.recipes.SaveRatings(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Categories)
	if err != nil {
		log.Printf("Error saving ratings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save ratings"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": req.Categories,
		"average":    recipe.RatingAverage(req.Categories),
	})
}

// ImportRecipes bulk-imports recipes from a JSON array or JSON-lines body.
func (h *Handler) ImportRecipes(c *gin.Context) {
	recipes, err := importer.ParseBulk(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	imported := 0
	for i := range recipes {
		rec := recipes[i]
		rec.ID = ""
		rec.AuthorID = userID
		for j, tag := range rec.Tags {
			rec.Tags[j] = recipe.NormalizeTag(tag)
		}
		if err := h.recipes.Save(c.Request.Context(), &rec); err != nil {
			log.Printf("Error importing recipe %q: %v", rec.Title, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "import failed partway",
				"imported": imported,
			})
			return
		}
		imported++
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

type clipRequest struct {
	URL string `json:"url" binding:"required"`
}

// ClipRecipe fetches a web page, extracts its recipe and saves it.
func (h *Handler) ClipRecipe(c *gin.Context) {
	var req clipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	rec, err := h.clipper.ClipURL(c.Request.Context(), req.URL)
	if err != nil {
		log.Printf("Error clipping %s: %v", req.URL, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	rec.AuthorID = c.GetString("userID")
	if err := h.recipes.Save(c.Request.Context(), rec); err != nil {
		log.Printf("Error saving clipped recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}
