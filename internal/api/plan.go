package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/plan"
	"github.com/platewise/backend/internal/service"
)

type PlanHandler struct {
	planService  *service.PlanService
	prefsService *service.PreferencesService
}

func NewPlanHandler(planService *service.PlanService, prefsService *service.PreferencesService) *PlanHandler {
	return &PlanHandler{
		planService:  planService,
		prefsService: prefsService,
	}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup, genLimiter *middleware.RateLimiter) {
	planRoutes := router.Group("/plan")
	{
		planRoutes.GET("", h.GetPlan)
		planRoutes.POST("/generate", genLimiter.RateLimitMiddleware(), h.GeneratePlan)
		planRoutes.DELETE("", h.ClearPlan)
		planRoutes.PUT("/slots/:day/:mealType", h.SetSlot)
		planRoutes.PUT("/slots/:day/:mealType/servings", h.SetSlotServings)
		planRoutes.POST("/slots/:day/:mealType/regenerate", genLimiter.RateLimitMiddleware(), h.RegenerateSlot)
	}
}

// slotView is one filled grid cell in API responses.
type slotView struct {
	Day              plan.Day      `json:"day"`
	MealType         plan.MealType `json:"meal_type"`
	Meal             *plan.Meal    `json:"meal"`
	Servings         int           `json:"servings"`
	OriginalServings int           `json:"original_servings"`
}

func planResponse(p *plan.Plan, weeklyBudget float64) gin.H {
	slots := make([]slotView, 0, len(p.Slots))
	for _, entry := range p.Filled() {
		slots = append(slots, slotView{
			Day:              entry.Day,
			MealType:         entry.MealType,
			Meal:             entry.Slot.Meal,
			Servings:         entry.Slot.Servings,
			OriginalServings: entry.Slot.OriginalServings,
		})
	}
	return gin.H{
		"slots":         slots,
		"total_cost":    p.TotalCost(),
		"weekly_budget": weeklyBudget,
	}
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	prefs, err := h.prefsService.Get(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, planResponse(h.planService.GetPlan(), prefs.WeeklyBudget))
}

func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	if err := h.planService.GeneratePlan(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	h.GetPlan(c)
}

func (h *PlanHandler) ClearPlan(c *gin.Context) {
	h.planService.ClearPlan(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// gridCell parses the :day/:mealType path segments common to the slot
// routes.
func gridCell(c *gin.Context) (plan.Day, plan.MealType, bool) {
	day, err := plan.ParseDay(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", "", false
	}
	mealType, err := plan.ParseMealType(c.Param("mealType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", "", false
	}
	return day, mealType, true
}

func (h *PlanHandler) SetSlot(c *gin.Context) {
	day, mealType, ok := gridCell(c)
	if !ok {
		return
	}

	var req struct {
		Meal     plan.Meal `json:"meal" binding:"required"`
		Servings int       `json:"servings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Meal.Name == "" || len(req.Meal.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal needs a name and at least one ingredient"})
		return
	}

	if err := h.planService.SetSlot(c.Request.Context(), day, mealType, req.Meal, req.Servings); err != nil {
		c.Error(err)
		return
	}
	h.GetPlan(c)
}

func (h *PlanHandler) SetSlotServings(c *gin.Context) {
	day, mealType, ok := gridCell(c)
	if !ok {
		return
	}

	var req struct {
		Servings int `json:"servings" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.planService.SetSlotServings(c.Request.Context(), day, mealType, req.Servings); err != nil {
		c.Error(err)
		return
	}
	h.GetPlan(c)
}

func (h *PlanHandler) RegenerateSlot(c *gin.Context) {
	day, mealType, ok := gridCell(c)
	if !ok {
		return
	}

	if err := h.planService.RegenerateSlot(c.Request.Context(), day, mealType); err != nil {
		c.Error(err)
		return
	}
	h.GetPlan(c)
}
