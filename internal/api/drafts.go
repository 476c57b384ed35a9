package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/plan"
	"github.com/platewise/backend/internal/service"
)

// DraftStore reads cached generation candidates.
type DraftStore interface {
	GetDraft(ctx context.Context, id string) (*plan.Meal, error)
}

// DraftHandler exposes the draft cache: meals the source generated in a
// recent batch, kept so the user can pick one without another round trip.
type DraftHandler struct {
	drafts      DraftStore
	planService *service.PlanService
}

func NewDraftHandler(drafts DraftStore, planService *service.PlanService) *DraftHandler {
	return &DraftHandler{
		drafts:      drafts,
		planService: planService,
	}
}

func (h *DraftHandler) RegisterRoutes(router *gin.RouterGroup) {
	drafts := router.Group("/drafts")
	{
		drafts.GET("/:id", h.GetDraft)
		drafts.POST("/:id/plan", h.PlanDraft)
	}
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	meal, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// PlanDraft places a cached draft into a plan slot.
func (h *DraftHandler) PlanDraft(c *gin.Context) {
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

	meal, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.planService.SetSlot(c.Request.Context(), day, mealType, *meal, req.Servings); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
