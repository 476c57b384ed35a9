package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPreferencesDefaults(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodGet, "/api/v1/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 4, body["servings"].(float64), 1e-9)
	assert.InDelta(t, 150.0, body["weekly_budget"].(float64), 1e-9)
	assert.Equal(t, "USD", body["currency"])
	assert.Empty(t, body["dietary"])
}

func TestUpdatePreferences(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPut, "/api/v1/preferences", gin.H{
		"dietary":       []string{"vegetarian"},
		"allergies":     []string{"peanuts"},
		"cuisine_types": []string{"thai"},
		"servings":      2,
		"weekly_budget": 90,
		"currency":      "EUR",
		"dark_mode":     true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(app.Router, http.MethodGet, "/api/v1/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 2, body["servings"].(float64), 1e-9)
	assert.InDelta(t, 90.0, body["weekly_budget"].(float64), 1e-9)
	assert.Equal(t, "EUR", body["currency"])
	assert.Equal(t, []interface{}{"vegetarian"}, body["dietary"])
	assert.Equal(t, true, body["dark_mode"])
}

func TestUpdatePreferencesRejectsZeroServings(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPut, "/api/v1/preferences", gin.H{
		"servings":      0,
		"weekly_budget": 90,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatedBudgetGatesNextGeneration(t *testing.T) {
	app := setupTestApp(t, &stubMealSource{costEach: 2})

	w := performRequest(app.Router, http.MethodPut, "/api/v1/preferences", gin.H{
		"servings":      4,
		"weekly_budget": 40,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 28 meals at 2 each is 56, over the new 40 budget
	w = performRequest(app.Router, http.MethodPost, "/api/v1/plan/generate", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 56.0, body["actual"].(float64), 1e-9)
	assert.InDelta(t, 40.0, body["limit"].(float64), 1e-9)
}
