package httpapi

import (
	"github.com/gin-gonic/gin"

	"recipe-planner/internal/auth"
	"recipe-planner/internal/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, authMgr *auth.Manager, handler *Handler) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/token", handler.IssueToken)

	authed := v1.Group("")
	authed.Use(AuthMiddleware(authMgr))
	authed.Use(MetricsMiddleware(handler.metrics))
	{
		recipes := authed.Group("/recipes")
		{
			recipes.GET("", handler.ListRecipes)
			recipes.POST("", handler.CreateRecipe)
			recipes.GET("/favorites", handler.ListFavorites)
			recipes.POST("/import", handler.ImportRecipes)
			recipes.POST("/clip", handler.ClipRecipe)
			recipes.GET("/:id", handler.GetRecipe)
			recipes.PUT("/:id", handler.UpdateRecipe)
			recipes.DELETE("/:id", handler.DeleteRecipe)
			recipes.PUT("/:id/favorite", handler.SetFavorite)
			recipes.PUT("/:id/ratings", handler.SaveRatings)
		}

		plan := authed.Group("/planner")
		{
			plan.GET("/window", handler.GetPlannerWindow)
			plan.GET("/week", handler.GetPlannerWeek)
			plan.PUT("/items", handler.PutPlanItem)
			plan.DELETE("/items/:id", handler.DeletePlanItem)
		}

		basket := authed.Group("/grocery")
		{
			basket.GET("", handler.GetBasket)
			basket.DELETE("", handler.ClearBasket)
			basket.POST("/recipes/:id", handler.AddRecipeToBasket)
			basket.DELETE("/recipes/:id", handler.RemoveRecipeFromBasket)
			basket.POST("/generate", handler.GenerateBasket)
			basket.PUT("/check", handler.SetItemChecked)
			basket.GET("/combined", handler.GetCombinedBasket)
			basket.GET("/export", handler.ExportBasket)
		}

		authed.GET("/metrics/daily", handler.GetDailyMetrics)
	}

	return router
}
