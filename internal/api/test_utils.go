package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/model"
	"github.com/platewise/backend/internal/plan"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/testhelpers"
)

// stubMealSource hands out deterministic meals for handler tests.
type stubMealSource struct {
	costEach float64
	fail     bool
}

func (s *stubMealSource) GenerateMeals(ctx context.Context, category plan.MealType, count int, prefs *model.Preferences) ([]plan.Meal, error) {
	if s.fail {
		return nil, &service.GenerationFailedError{Cause: fmt.Errorf("stub failure")}
	}
	meals := make([]plan.Meal, count)
	for i := range meals {
		name := fmt.Sprintf("%s-%d", category, i)
		meals[i] = plan.Meal{
			ID:       name,
			Name:     name,
			Category: category,
			Ingredients: []plan.Ingredient{
				{Name: name + "-main", Amount: "100g", EstimatedCost: s.costEach},
			},
			RecipeText:      "Stub instructions.",
			PrepTimeMinutes: 20,
			HealthScore:     8,
			TotalCost:       s.costEach,
			Macros:          plan.Macros{Calories: 500, Protein: 30, Carbs: 40, Fat: 20, Fiber: 5},
			Servings:        prefs.Servings,
		}
	}
	return meals, nil
}

// stubDraftStore serves drafts from a fixed map.
type stubDraftStore struct {
	drafts map[string]plan.Meal
}

func (s *stubDraftStore) GetDraft(ctx context.Context, id string) (*plan.Meal, error) {
	if meal, ok := s.drafts[id]; ok {
		return &meal, nil
	}
	return nil, redis.Nil
}

// testApp bundles the router with the backing services for assertions.
type testApp struct {
	Router      *gin.Engine
	DB          *gorm.DB
	PlanService *service.PlanService
	Drafts      *stubDraftStore
}

// setupTestApp wires the handlers against SQLite and a stub meal source.
func setupTestApp(t *testing.T, source service.MealSource) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDB(t)

	prefsService := service.NewPreferencesService(db)
	planService := service.NewPlanService(source, prefsService, nil)
	mealService := service.NewSavedMealService(db)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	drafts := &stubDraftStore{drafts: make(map[string]plan.Meal)}

	v1 := router.Group("/api/v1")
	genLimiter := middleware.NewGenerationRateLimiter(nil)
	NewPlanHandler(planService, prefsService).RegisterRoutes(v1, genLimiter)
	NewShoppingHandler(planService).RegisterRoutes(v1)
	NewMealHandler(mealService, planService).RegisterRoutes(v1)
	NewDraftHandler(drafts, planService).RegisterRoutes(v1)
	NewPreferencesHandler(prefsService).RegisterRoutes(v1)
	NewDashboardHandler(planService, prefsService).RegisterRoutes(v1)

	return &testApp{
		Router:      router,
		DB:          db,
		PlanService: planService,
		Drafts:      drafts,
	}
}

// performRequest is a helper function to make HTTP requests in tests
func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return out
}
