package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/api"
	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	cfg *config.Config,
	planHandler *api.PlanHandler,
	shoppingHandler *api.ShoppingHandler,
	mealHandler *api.MealHandler,
	draftHandler *api.DraftHandler,
	prefsHandler *api.PreferencesHandler,
	dashboardHandler *api.DashboardHandler,
	genLimiter *middleware.RateLimiter,
	db *gorm.DB,
) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")

	planHandler.RegisterRoutes(v1, genLimiter)
	shoppingHandler.RegisterRoutes(v1)
	mealHandler.RegisterRoutes(v1)
	draftHandler.RegisterRoutes(v1)
	prefsHandler.RegisterRoutes(v1)
	dashboardHandler.RegisterRoutes(v1)

	return router
}
