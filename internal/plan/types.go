package plan

import "fmt"

// Day identifies one day of the planning week.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the week in planning order.
var Days = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// MealType identifies one of the four daily meal slots. It doubles as the
// category a meal is generated under.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists the meal types in slot order.
var MealTypes = [4]MealType{Breakfast, Lunch, Dinner, Snack}

// ParseDay validates a day string from an external source.
func ParseDay(s string) (Day, error) {
	for _, d := range Days {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid day %q", s)
}

// ParseMealType validates a meal type string from an external source.
func ParseMealType(s string) (MealType, error) {
	for _, m := range MealTypes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid meal type %q", s)
}

// Ingredient is a single recipe ingredient. Amount is free-form text from
// the meal source ("200g", "2 x 150g", "a pinch"); see Rescale for how
// numeric substrings inside it are adjusted.
type Ingredient struct {
	Name          string  `json:"name"`
	Amount        string  `json:"amount"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Macros holds the nutrition figures for a meal at its current serving
// count. All values are non-negative and scale linearly with servings.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Meal is a generated or saved meal. TotalCost, Macros and the ingredient
// amounts are defined for Servings people; Rescale keeps that count in
// step when a slot's serving count changes.
type Meal struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Category        MealType   `json:"category"`
	Ingredients     []Ingredient `json:"ingredients"`
	RecipeText      string     `json:"recipe_text"`
	PrepTimeMinutes int        `json:"prep_time_minutes"`
	HealthScore     float64    `json:"health_score"`
	TotalCost       float64    `json:"total_cost"`
	Macros          Macros     `json:"macros"`
	Tags            []string   `json:"tags"`
	Servings        int        `json:"servings"`
}

// clone returns a deep copy so stored meals never alias caller slices.
func (m Meal) clone() Meal {
	out := m
	out.Ingredients = make([]Ingredient, len(m.Ingredients))
	copy(out.Ingredients, m.Ingredients)
	out.Tags = make([]string, len(m.Tags))
	copy(out.Tags, m.Tags)
	return out
}

// Slot is one (day, meal type) cell of the grid. OriginalServings records
// the serving count the slot was first filled with; Servings is the
// current, possibly adjusted, count.
type Slot struct {
	Meal             *Meal `json:"meal"`
	Servings         int   `json:"servings"`
	OriginalServings int   `json:"original_servings"`
}

// SlotKey builds the map key for a grid cell. The "day-mealtype" form is
// also what the plan snapshot serializes to.
func SlotKey(day Day, mealType MealType) string {
	return string(day) + "-" + string(mealType)
}
