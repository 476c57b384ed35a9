package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/platewise/backend/internal/model"
	"github.com/platewise/backend/internal/plan"
)

// GenerationFailedError wraps any meal source failure: transport errors,
// non-200 responses, unparseable output, or a batch with no valid meals.
// Recoverable; the plan is never touched when it occurs.
type GenerationFailedError struct {
	Cause error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("meal generation failed: %v", e.Cause)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Cause
}

const defaultAPIURL = "https://api.deepseek.com/v1/chat/completions"

// MealSourceService generates meals through an OpenAI-compatible chat
// completions API and caches the results as drafts in Redis.
type MealSourceService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	redis  *redis.Client
}

// NewMealSourceService creates a new MealSourceService instance. The
// Redis client is optional; without it draft caching is disabled.
func NewMealSourceService(apiKey, apiURL, modelName string, redisClient *redis.Client) (*MealSourceService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("meal source API key must be set")
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if modelName == "" {
		modelName = "deepseek-chat"
	}

	return &MealSourceService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  modelName,
		client: &http.Client{Timeout: 90 * time.Second},
		redis:  redisClient,
	}, nil
}

// message represents a message in the chat
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a chat completions request
type request struct {
	Model          string            `json:"model"`
	Messages       []message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// mealData is the wire shape of one meal as returned by the model.
type mealData struct {
	Name            string `json:"name"`
	Ingredients     []struct {
		Name          string  `json:"name"`
		Amount        string  `json:"amount"`
		EstimatedCost float64 `json:"estimated_cost"`
	} `json:"ingredients"`
	Recipe          string   `json:"recipe"`
	PrepTimeMinutes int      `json:"prep_time_minutes"`
	HealthScore     float64  `json:"health_score"`
	TotalCost       float64  `json:"total_cost"`
	Calories        float64  `json:"calories"`
	Protein         float64  `json:"protein"`
	Carbs           float64  `json:"carbs"`
	Fat             float64  `json:"fat"`
	Fiber           float64  `json:"fiber"`
	Tags            []string `json:"tags"`
}

const systemPrompt = `You are a professional chef and nutritionist. Respond in JSON with this structure:
{
    "meals": [
        {
            "name": "Meal name",
            "ingredients": [
                {"name": "chicken breast", "amount": "400g", "estimated_cost": 4.50},
                {"name": "olive oil", "amount": "2 tbsp", "estimated_cost": 0.30}
            ],
            "recipe": "Step-by-step cooking instructions",
            "prep_time_minutes": 30,
            "health_score": 8,
            "total_cost": 9.80,
            "calories": 650,
            "protein": 45,
            "carbs": 50,
            "fat": 22,
            "fiber": 8,
            "tags": ["high-protein", "mediterranean"]
        }
    ]
}

All numeric fields must be numbers, not strings. total_cost must equal the sum of the ingredient estimated_cost values. health_score is between 0 and 10. Cost, calories and macros are for the requested number of servings.`

// GenerateMeals asks the model for count meals of the given category,
// validated against the user's dietary preferences. Entries that fail
// schema validation are dropped; if none survive the call fails.
func (s *MealSourceService) GenerateMeals(ctx context.Context, category plan.MealType, count int, prefs *model.Preferences) ([]plan.Meal, error) {
	prompt := fmt.Sprintf("Generate %d different %s meals for %d servings each.", count, category, prefs.Servings)
	if len(prefs.Dietary) > 0 {
		prompt += " The meals must be suitable for: " + strings.Join(prefs.Dietary, ", ") + "."
	}
	if len(prefs.Allergies) > 0 {
		prompt += " Strictly avoid: " + strings.Join(prefs.Allergies, ", ") + "."
	}
	if len(prefs.CuisineTypes) > 0 {
		prompt += " Preferred cuisines: " + strings.Join(prefs.CuisineTypes, ", ") + "."
	}
	if prefs.WeeklyBudget > 0 {
		prompt += fmt.Sprintf(" Keep the cost of each meal well under %.2f.", prefs.WeeklyBudget/28)
	}

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, &GenerationFailedError{Cause: err}
	}

	var wrapper struct {
		Meals []mealData `json:"meals"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return nil, &GenerationFailedError{Cause: fmt.Errorf("failed to parse meals array: %w", err)}
	}

	meals := make([]plan.Meal, 0, len(wrapper.Meals))
	for _, data := range wrapper.Meals {
		if err := validateMealData(data); err != nil {
			continue
		}
		meals = append(meals, toPlanMeal(data, category, prefs.Servings))
	}

	if len(meals) == 0 {
		return nil, &GenerationFailedError{Cause: fmt.Errorf("model returned no valid meals for %s", category)}
	}

	s.cacheDrafts(ctx, meals)
	return meals, nil
}

// complete sends one chat completion request and returns the message content.
func (s *MealSourceService) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := request{
		Model: s.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.9,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// validateMealData rejects malformed model output at the boundary so the
// core only ever sees well-formed meals.
func validateMealData(data mealData) error {
	if strings.TrimSpace(data.Name) == "" {
		return fmt.Errorf("meal has no name")
	}
	if len(data.Ingredients) == 0 {
		return fmt.Errorf("meal %q has no ingredients", data.Name)
	}
	for _, ing := range data.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("meal %q has an unnamed ingredient", data.Name)
		}
		if ing.EstimatedCost < 0 {
			return fmt.Errorf("meal %q has a negative ingredient cost", data.Name)
		}
	}
	if data.TotalCost < 0 || data.PrepTimeMinutes < 0 {
		return fmt.Errorf("meal %q has negative cost or prep time", data.Name)
	}
	if data.HealthScore < 0 || data.HealthScore > 10 {
		return fmt.Errorf("meal %q health score out of range", data.Name)
	}
	if data.Calories < 0 || data.Protein < 0 || data.Carbs < 0 || data.Fat < 0 || data.Fiber < 0 {
		return fmt.Errorf("meal %q has negative macros", data.Name)
	}
	return nil
}

func toPlanMeal(data mealData, category plan.MealType, servings int) plan.Meal {
	ingredients := make([]plan.Ingredient, len(data.Ingredients))
	for i, ing := range data.Ingredients {
		ingredients[i] = plan.Ingredient{
			Name:          ing.Name,
			Amount:        ing.Amount,
			EstimatedCost: ing.EstimatedCost,
		}
	}

	return plan.Meal{
		ID:              uuid.New().String(),
		Name:            data.Name,
		Category:        category,
		Ingredients:     ingredients,
		RecipeText:      data.Recipe,
		PrepTimeMinutes: data.PrepTimeMinutes,
		HealthScore:     data.HealthScore,
		TotalCost:       data.TotalCost,
		Macros: plan.Macros{
			Calories: data.Calories,
			Protein:  data.Protein,
			Carbs:    data.Carbs,
			Fat:      data.Fat,
			Fiber:    data.Fiber,
		},
		Tags:     data.Tags,
		Servings: servings,
	}
}

// cacheDrafts stores generated meals in Redis so the selector can offer
// them as candidates without another generation call. Best effort.
func (s *MealSourceService) cacheDrafts(ctx context.Context, meals []plan.Meal) {
	if s.redis == nil {
		return
	}
	for _, meal := range meals {
		data, err := json.Marshal(meal)
		if err != nil {
			continue
		}
		key := fmt.Sprintf("meal:draft:%s", meal.ID)
		s.redis.Set(ctx, key, data, 24*time.Hour)
	}
}

// GetDraft retrieves a previously generated meal from the draft cache.
func (s *MealSourceService) GetDraft(ctx context.Context, id string) (*plan.Meal, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("draft cache is not configured")
	}
	data, err := s.redis.Get(ctx, fmt.Sprintf("meal:draft:%s", id)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var meal plan.Meal
	if err := json.Unmarshal(data, &meal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &meal, nil
}
