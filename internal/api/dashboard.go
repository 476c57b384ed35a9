package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/service"
)

type DashboardHandler struct {
	planService  *service.PlanService
	prefsService *service.PreferencesService
}

func NewDashboardHandler(planService *service.PlanService, prefsService *service.PreferencesService) *DashboardHandler {
	return &DashboardHandler{
		planService:  planService,
		prefsService: prefsService,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", h.GetStats)
}

// GetStats aggregates the week: planned meal count, cost against budget,
// nutrition totals and shopping progress.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	prefs, err := h.prefsService.Get(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	p := h.planService.GetPlan()
	entries := p.Filled()

	var (
		calories, protein, carbs, fat, fiber float64
		healthSum                            float64
		prepMinutes                          int
	)
	for _, entry := range entries {
		meal := entry.Slot.Meal
		calories += meal.Macros.Calories
		protein += meal.Macros.Protein
		carbs += meal.Macros.Carbs
		fat += meal.Macros.Fat
		fiber += meal.Macros.Fiber
		healthSum += meal.HealthScore
		prepMinutes += meal.PrepTimeMinutes
	}

	avgHealth := 0.0
	if len(entries) > 0 {
		avgHealth = healthSum / float64(len(entries))
	}

	items := h.planService.GetShoppingList()
	purchased := 0
	for _, item := range items {
		if item.Purchased {
			purchased++
		}
	}

	totalCost := p.TotalCost()

	c.JSON(http.StatusOK, gin.H{
		"planned_meals":    len(entries),
		"total_slots":      28,
		"total_cost":       totalCost,
		"weekly_budget":    prefs.WeeklyBudget,
		"remaining_budget": prefs.WeeklyBudget - totalCost,
		"currency":         prefs.Currency,
		"nutrition": gin.H{
			"calories": calories,
			"protein":  protein,
			"carbs":    carbs,
			"fat":      fat,
			"fiber":    fiber,
		},
		"avg_health_score":  avgHealth,
		"prep_time_minutes": prepMinutes,
		"shopping": gin.H{
			"items":     len(items),
			"purchased": purchased,
		},
	})
}
