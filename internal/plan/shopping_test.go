package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingListAggregatesByName(t *testing.T) {
	p := New()

	omelette := mealCosting("omelette", 1.00, 4)
	omelette.Ingredients = []Ingredient{{Name: "egg", Amount: "4", EstimatedCost: 1.00}}
	fried := mealCosting("fried rice", 1.50, 4)
	fried.Ingredients = []Ingredient{{Name: "egg", Amount: "2", EstimatedCost: 1.50}}

	require.NoError(t, p.SetSlot(Monday, Breakfast, omelette, 4, 100))
	require.NoError(t, p.SetSlot(Monday, Lunch, fried, 4, 100))

	items := p.ShoppingList()

	require.Len(t, items, 1)
	assert.Equal(t, "egg", items[0].Ingredient.Name)
	assert.InDelta(t, 2.50, items[0].Ingredient.EstimatedCost, 1e-9)
	// the first-seen amount is kept, amounts are not merged
	assert.Equal(t, "4", items[0].Ingredient.Amount)
	assert.Equal(t, []string{"omelette", "fried rice"}, items[0].MealNames)
	assert.False(t, items[0].Purchased)
}

func TestShoppingListInsertionOrder(t *testing.T) {
	p := New()

	breakfast := mealCosting("granola", 2, 4)
	breakfast.Ingredients = []Ingredient{
		{Name: "oats", Amount: "200g", EstimatedCost: 1},
		{Name: "honey", Amount: "2 tbsp", EstimatedCost: 1},
	}
	dinner := mealCosting("stir fry", 3, 4)
	dinner.Ingredients = []Ingredient{
		{Name: "rice", Amount: "300g", EstimatedCost: 1},
		{Name: "honey", Amount: "1 tbsp", EstimatedCost: 2},
	}

	// insert dinner first; output order still follows the grid walk
	require.NoError(t, p.SetSlot(Monday, Dinner, dinner, 4, 100))
	require.NoError(t, p.SetSlot(Monday, Breakfast, breakfast, 4, 100))

	items := p.ShoppingList()

	require.Len(t, items, 3)
	assert.Equal(t, "oats", items[0].Ingredient.Name)
	assert.Equal(t, "honey", items[1].Ingredient.Name)
	assert.Equal(t, "rice", items[2].Ingredient.Name)
	assert.InDelta(t, 3, items[1].Ingredient.EstimatedCost, 1e-9)
}

func TestShoppingListTracksServingAdjustment(t *testing.T) {
	p := New()

	meal := mealCosting("soup", 4, 4)
	require.NoError(t, p.SetSlot(Tuesday, Lunch, meal, 4, 100))
	require.NoError(t, p.SetSlotServings(Tuesday, Lunch, 6, 100))

	items := p.ShoppingList()

	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Servings.Original)
	assert.Equal(t, 6, items[0].Servings.Adjusted)
	assert.InDelta(t, 6, items[0].Ingredient.EstimatedCost, 1e-9)
}

func TestShoppingListEmptyPlan(t *testing.T) {
	p := New()
	assert.Empty(t, p.ShoppingList())
}
