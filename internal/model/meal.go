package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/plan"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// JSONBIngredients stores a meal's ingredient list as JSONB.
type JSONBIngredients []plan.Ingredient

// Value implements the driver.Valuer interface
func (a JSONBIngredients) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBIngredients) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBIngredients{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// SavedMeal is a meal the user keeps outside the weekly plan, available
// for placing into slots later. Cost and nutrition figures are stored
// for Servings people, matching plan.Meal semantics.
type SavedMeal struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
	Name            string           `gorm:"size:255;not null" json:"name"`
	Category        string           `gorm:"size:50" json:"category"`
	Ingredients     JSONBIngredients `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	RecipeText      string           `gorm:"type:text" json:"recipe_text"`
	PrepTimeMinutes int              `json:"prep_time_minutes"`
	HealthScore     float64          `gorm:"type:float" json:"health_score"`
	TotalCost       float64          `gorm:"type:float" json:"total_cost"`
	Calories        float64          `gorm:"type:float" json:"calories"`
	Protein         float64          `gorm:"type:float" json:"protein"`
	Carbs           float64          `gorm:"type:float" json:"carbs"`
	Fat             float64          `gorm:"type:float" json:"fat"`
	Fiber           float64          `gorm:"type:float" json:"fiber"`
	Servings        int              `json:"servings"`
	Tags            JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Embedding       pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

func (SavedMeal) TableName() string {
	return "saved_meals"
}

// ToPlanMeal converts the stored row into the domain meal type.
func (m *SavedMeal) ToPlanMeal() plan.Meal {
	return plan.Meal{
		ID:              m.ID.String(),
		Name:            m.Name,
		Category:        plan.MealType(m.Category),
		Ingredients:     append([]plan.Ingredient(nil), m.Ingredients...),
		RecipeText:      m.RecipeText,
		PrepTimeMinutes: m.PrepTimeMinutes,
		HealthScore:     m.HealthScore,
		TotalCost:       m.TotalCost,
		Macros: plan.Macros{
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
			Fiber:    m.Fiber,
		},
		Tags:     append([]string(nil), m.Tags...),
		Servings: m.Servings,
	}
}

// SavedMealFromPlan builds a row from a domain meal, for saving a
// generated meal the user wants to keep.
func SavedMealFromPlan(meal plan.Meal) *SavedMeal {
	row := &SavedMeal{
		Name:            meal.Name,
		Category:        string(meal.Category),
		Ingredients:     JSONBIngredients(meal.Ingredients),
		RecipeText:      meal.RecipeText,
		PrepTimeMinutes: meal.PrepTimeMinutes,
		HealthScore:     meal.HealthScore,
		TotalCost:       meal.TotalCost,
		Calories:        meal.Macros.Calories,
		Protein:         meal.Macros.Protein,
		Carbs:           meal.Macros.Carbs,
		Fat:             meal.Macros.Fat,
		Fiber:           meal.Macros.Fiber,
		Servings:        meal.Servings,
		Tags:            JSONBStringArray(meal.Tags),
	}
	if id, err := uuid.Parse(meal.ID); err == nil {
		row.ID = id
	}
	return row
}
