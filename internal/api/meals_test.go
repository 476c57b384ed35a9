package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/plan"
)

func savedMealBody(name, category string) gin.H {
	return gin.H{
		"name":     name,
		"category": category,
		"ingredients": []gin.H{
			{"name": "lentils", "amount": "300g", "estimated_cost": 1.5},
		},
		"recipe_text":       "Simmer until soft.",
		"prep_time_minutes": 40,
		"health_score":      9,
		"total_cost":        1.5,
		"servings":          4,
		"tags":              []string{"vegan"},
	}
}

func TestCreateAndGetMeal(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPost, "/api/v1/meals", savedMealBody("Lentil Soup", "dinner"))
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeBody(t, w)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	w = performRequest(app.Router, http.MethodGet, "/api/v1/meals/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lentil Soup", decodeBody(t, w)["name"])
}

func TestCreateMealRejectsEmptyName(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPost, "/api/v1/meals", savedMealBody("", "dinner"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMealsByCategory(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	for i, category := range []string{"dinner", "dinner", "lunch"} {
		w := performRequest(app.Router, http.MethodPost, "/api/v1/meals",
			savedMealBody(fmt.Sprintf("Meal %d", i), category))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := performRequest(app.Router, http.MethodGet, "/api/v1/meals?category=dinner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["meals"], 2)
}

func TestListMealsSearch(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	for _, name := range []string{"Lentil Soup", "Berry Smoothie"} {
		w := performRequest(app.Router, http.MethodPost, "/api/v1/meals", savedMealBody(name, "dinner"))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := performRequest(app.Router, http.MethodGet, "/api/v1/meals?q=lentil", nil)
	require.Equal(t, http.StatusOK, w.Code)

	meals := decodeBody(t, w)["meals"].([]interface{})
	require.Len(t, meals, 1)
	assert.Equal(t, "Lentil Soup", meals[0].(map[string]interface{})["name"])
}

func TestUpdateMeal(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPost, "/api/v1/meals", savedMealBody("Lentil Soup", "dinner"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = performRequest(app.Router, http.MethodPut, "/api/v1/meals/"+id, savedMealBody("Spiced Lentil Soup", "dinner"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Spiced Lentil Soup", decodeBody(t, w)["name"])
}

func TestDeleteMeal(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPost, "/api/v1/meals", savedMealBody("Lentil Soup", "dinner"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = performRequest(app.Router, http.MethodDelete, "/api/v1/meals/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(app.Router, http.MethodGet, "/api/v1/meals/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMealInvalidID(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodGet, "/api/v1/meals/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanSavedMeal(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPost, "/api/v1/meals", savedMealBody("Lentil Soup", "dinner"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = performRequest(app.Router, http.MethodPost, "/api/v1/meals/"+id+"/plan", gin.H{
		"day": "thursday", "meal_type": "dinner",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	slot, ok := app.PlanService.GetPlan().Slot(plan.Thursday, plan.Dinner)
	require.True(t, ok)
	assert.Equal(t, "Lentil Soup", slot.Meal.Name)
	// no servings given, so the preference default applies
	assert.Equal(t, 4, slot.Servings)
}

func TestPlanSavedMealUnknownID(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPost, "/api/v1/meals/7b7c1c0e-5f6a-4f4e-9f5e-111111111111/plan", gin.H{
		"day": "monday", "meal_type": "lunch",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
