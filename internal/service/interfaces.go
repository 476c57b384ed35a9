package service

import (
	"context"

	"github.com/platewise/backend/internal/model"
	"github.com/platewise/backend/internal/plan"
)

// MealSource produces candidate meals for one category. Implementations
// may fail with a transport or parse error; callers treat any failure as
// "no meals produced" and leave the plan unchanged.
type MealSource interface {
	GenerateMeals(ctx context.Context, category plan.MealType, count int, prefs *model.Preferences) ([]plan.Meal, error)
}

// PreferenceReader provides the current user preferences to components
// that only need to read them.
type PreferenceReader interface {
	Get(ctx context.Context) (*model.Preferences, error)
}
