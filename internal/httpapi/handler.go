package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-planner/internal/auth"
	"recipe-planner/internal/config"
	"recipe-planner/internal/grocery"
	"recipe-planner/internal/importer"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	cfg     *config.Config
	auth    *auth.Manager
	recipes *recipe.Repository
	plans   *planner.Repository
	basket  *grocery.Repository
	metrics *metrics.Store
	clipper *importer.Clipper
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cfg *config.Config,
	authMgr *auth.Manager,
	recipes *recipe.Repository,
	plans *planner.Repository,
	basket *grocery.Repository,
	metricsStore *metrics.Store,
	clipper *importer.Clipper,
) *Handler {
	return &Handler{
		cfg:     cfg,
		auth:    authMgr,
		recipes: recipes,
		plans:   plans,
		basket:  basket,
		metrics: metricsStore,
		clipper: clipper,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipe-planner",
		"sys":     metrics.GetSysHealth(h.cfg.DatabasePath),
	})
}
