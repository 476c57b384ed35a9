package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/service"
)

type ShoppingHandler struct {
	planService *service.PlanService
}

func NewShoppingHandler(planService *service.PlanService) *ShoppingHandler {
	return &ShoppingHandler{planService: planService}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	list := router.Group("/shopping-list")
	{
		list.GET("", h.GetShoppingList)
		list.PUT("/items/:name/purchased", h.SetItemPurchased)
		list.PUT("/items/:name", h.OverrideItem)
	}
}

func (h *ShoppingHandler) GetShoppingList(c *gin.Context) {
	items := h.planService.GetShoppingList()

	var total float64
	for _, item := range items {
		total += item.Ingredient.EstimatedCost
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"total_cost": total,
	})
}

func (h *ShoppingHandler) SetItemPurchased(c *gin.Context) {
	var req struct {
		Purchased *bool `json:"purchased" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.planService.SetItemPurchased(c.Request.Context(), c.Param("name"), *req.Purchased); err != nil {
		c.Error(err)
		return
	}
	h.GetShoppingList(c)
}

func (h *ShoppingHandler) OverrideItem(c *gin.Context) {
	var req struct {
		Amount        *string  `json:"amount"`
		EstimatedCost *float64 `json:"estimated_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount == nil && req.EstimatedCost == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if req.EstimatedCost != nil && *req.EstimatedCost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "estimated cost cannot be negative"})
		return
	}

	if err := h.planService.OverrideItem(c.Request.Context(), c.Param("name"), req.Amount, req.EstimatedCost); err != nil {
		c.Error(err)
		return
	}
	h.GetShoppingList(c)
}
