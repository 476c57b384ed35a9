package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/api"
	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/router"
	"github.com/platewise/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New wires the services and handlers into a ready-to-start server.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	prefsService := service.NewPreferencesService(db)

	mealSource, err := service.NewMealSourceService(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel, redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal source: %w", err)
	}

	planService := service.NewPlanService(mealSource, prefsService, redisClient)
	mealService := service.NewSavedMealService(db)

	genLimiter := middleware.NewGenerationRateLimiter(redisClient)

	engine := router.SetupRouter(
		cfg,
		api.NewPlanHandler(planService, prefsService),
		api.NewShoppingHandler(planService),
		api.NewMealHandler(mealService, planService),
		api.NewDraftHandler(mealSource, planService),
		api.NewPreferencesHandler(prefsService),
		api.NewDashboardHandler(planService, prefsService),
		genLimiter,
		db,
	)

	return &Server{
		engine: engine,
		cfg:    cfg,
	}, nil
}

// Start starts the server and blocks until it exits.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.engine,
	}

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
