package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platewise/backend/internal/model"
	"github.com/platewise/backend/internal/plan"
	"github.com/platewise/backend/internal/service"
)

type MealHandler struct {
	mealService *service.SavedMealService
	planService *service.PlanService
}

func NewMealHandler(mealService *service.SavedMealService, planService *service.PlanService) *MealHandler {
	return &MealHandler{
		mealService: mealService,
		planService: planService,
	}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("", h.ListMeals)
		meals.GET("/:id", h.GetMeal)
		meals.POST("", h.CreateMeal)
		meals.PUT("/:id", h.UpdateMeal)
		meals.DELETE("/:id", h.DeleteMeal)
		meals.POST("/:id/plan", h.PlanMeal)
	}
}

func (h *MealHandler) ListMeals(c *gin.Context) {
	meals, err := h.mealService.List(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) GetMeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal ID"})
		return
	}

	meal, err := h.mealService.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	var meal model.SavedMeal
	if err := c.ShouldBindJSON(&meal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if meal.Name == "" || len(meal.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal needs a name and at least one ingredient"})
		return
	}

	created, err := h.mealService.Create(c.Request.Context(), &meal)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *MealHandler) UpdateMeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal ID"})
		return
	}

	var meal model.SavedMeal
	if err := c.ShouldBindJSON(&meal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.mealService.Update(c.Request.Context(), id, &meal)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal ID"})
		return
	}

	if err := h.mealService.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlanMeal places a saved meal into a plan slot.
func (h *MealHandler) PlanMeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal ID"})
		return
	}

	var req struct {
		Day      string `json:"day" binding:"required"`
		MealType string `json:"meal_type" binding:"required"`
		Servings int    `json:"servings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := plan.ParseDay(req.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mealType, err := plan.ParseMealType(req.MealType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.mealService.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.planService.SetSlot(c.Request.Context(), day, mealType, saved.ToPlanMeal(), req.Servings); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
