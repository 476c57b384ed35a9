package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/model"
	"github.com/platewise/backend/internal/service"
)

type PreferencesHandler struct {
	prefsService *service.PreferencesService
}

func NewPreferencesHandler(prefsService *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{prefsService: prefsService}
}

func (h *PreferencesHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/preferences")
	{
		prefs.GET("", h.GetPreferences)
		prefs.PUT("", h.UpdatePreferences)
	}
}

func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.prefsService.Get(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	var prefs model.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if prefs.Servings <= 0 || prefs.WeeklyBudget < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be positive and budget non-negative"})
		return
	}

	updated, err := h.prefsService.Update(c.Request.Context(), &prefs)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
