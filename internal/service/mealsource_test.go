package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/model"
	"github.com/platewise/backend/internal/plan"
)

func testPrefs() *model.Preferences {
	return &model.Preferences{
		Dietary:      model.JSONBStringArray{"vegetarian"},
		Allergies:    model.JSONBStringArray{"peanuts"},
		Servings:     4,
		WeeklyBudget: 100,
		Currency:     "USD",
	}
}

// completionResponse wraps a meals payload in the chat completions shape.
func completionResponse(t *testing.T, mealsJSON string) string {
	t.Helper()
	content, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": mealsJSON}},
		},
	})
	require.NoError(t, err)
	return string(content)
}

func TestGenerateMealsParsesValidBatch(t *testing.T) {
	mealsJSON := `{"meals":[
		{"name":"Veggie Omelette",
		 "ingredients":[{"name":"eggs","amount":"4","estimated_cost":1.2},{"name":"spinach","amount":"100g","estimated_cost":0.8}],
		 "recipe":"Whisk and fry.",
		 "prep_time_minutes":15,"health_score":8,"total_cost":2.0,
		 "calories":400,"protein":25,"carbs":5,"fat":28,"fiber":2,
		 "tags":["vegetarian"]},
		{"name":"Overnight Oats",
		 "ingredients":[{"name":"oats","amount":"200g","estimated_cost":0.5}],
		 "recipe":"Soak overnight.",
		 "prep_time_minutes":5,"health_score":9,"total_cost":0.5,
		 "calories":350,"protein":12,"carbs":60,"fat":6,"fiber":8,
		 "tags":[]}
	]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(completionResponse(t, mealsJSON)))
	}))
	defer server.Close()

	source, err := NewMealSourceService("test-key", server.URL, "", nil)
	require.NoError(t, err)

	meals, err := source.GenerateMeals(context.Background(), plan.Breakfast, 2, testPrefs())
	require.NoError(t, err)
	require.Len(t, meals, 2)

	assert.Equal(t, "Veggie Omelette", meals[0].Name)
	assert.Equal(t, plan.Breakfast, meals[0].Category)
	assert.Equal(t, 4, meals[0].Servings)
	assert.NotEmpty(t, meals[0].ID)
	assert.InDelta(t, 2.0, meals[0].TotalCost, 1e-9)
	assert.InDelta(t, 28, meals[0].Macros.Fat, 1e-9)
	require.Len(t, meals[0].Ingredients, 2)
	assert.Equal(t, "4", meals[0].Ingredients[0].Amount)
}

func TestGenerateMealsDropsMalformedEntries(t *testing.T) {
	mealsJSON := `{"meals":[
		{"name":"","ingredients":[{"name":"x","amount":"1","estimated_cost":1}],"total_cost":1},
		{"name":"No Ingredients","ingredients":[],"total_cost":1},
		{"name":"Bad Score","ingredients":[{"name":"x","amount":"1","estimated_cost":1}],"health_score":14,"total_cost":1},
		{"name":"Good Soup","ingredients":[{"name":"lentils","amount":"300g","estimated_cost":1.5}],
		 "recipe":"Simmer.","prep_time_minutes":40,"health_score":9,"total_cost":1.5,
		 "calories":300,"protein":18,"carbs":40,"fat":2,"fiber":12,"tags":[]}
	]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse(t, mealsJSON)))
	}))
	defer server.Close()

	source, err := NewMealSourceService("test-key", server.URL, "", nil)
	require.NoError(t, err)

	meals, err := source.GenerateMeals(context.Background(), plan.Dinner, 4, testPrefs())
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Good Soup", meals[0].Name)
}

func TestGenerateMealsAllMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse(t, `{"meals":[{"name":"","ingredients":[]}]}`)))
	}))
	defer server.Close()

	source, err := NewMealSourceService("test-key", server.URL, "", nil)
	require.NoError(t, err)

	_, err = source.GenerateMeals(context.Background(), plan.Lunch, 3, testPrefs())
	var genErr *GenerationFailedError
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerateMealsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	source, err := NewMealSourceService("test-key", server.URL, "", nil)
	require.NoError(t, err)

	_, err = source.GenerateMeals(context.Background(), plan.Snack, 7, testPrefs())
	var genErr *GenerationFailedError
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerateMealsUnparseableContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse(t, "sorry, I cannot help with that")))
	}))
	defer server.Close()

	source, err := NewMealSourceService("test-key", server.URL, "", nil)
	require.NoError(t, err)

	_, err = source.GenerateMeals(context.Background(), plan.Breakfast, 7, testPrefs())
	var genErr *GenerationFailedError
	assert.ErrorAs(t, err, &genErr)
}

func TestNewMealSourceServiceRequiresKey(t *testing.T) {
	_, err := NewMealSourceService("", "", "", nil)
	assert.Error(t, err)
}
