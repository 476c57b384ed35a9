package plan

// ServingsAdjustment records the serving counts behind a shopping list
// item: the count its source slot was first filled with and the count it
// currently holds.
type ServingsAdjustment struct {
	Original int `json:"original"`
	Adjusted int `json:"adjusted"`
}

// ShoppingListItem is one aggregated ingredient across the whole plan.
// MealNames lists every meal that contributed to it.
type ShoppingListItem struct {
	Ingredient Ingredient         `json:"ingredient"`
	Purchased  bool               `json:"purchased"`
	MealNames  []string           `json:"meal_names"`
	Servings   ServingsAdjustment `json:"servings"`
}

// ShoppingList derives the flat, de-duplicated ingredient list from the
// plan. Slot meals are already rescaled to their serving counts, so
// ingredients fold in as-is: items are keyed by ingredient name, costs
// are summed on collision, and the first-seen amount string is kept
// (amount text is not merged; the per-meal names preserve where the rest
// came from). Output order is insertion order over the day-major walk of
// the grid. Every item starts unpurchased.
func (p *Plan) ShoppingList() []ShoppingListItem {
	var items []ShoppingListItem
	index := make(map[string]int)

	for _, entry := range p.Filled() {
		meal := entry.Slot.Meal
		for _, ing := range meal.Ingredients {
			i, seen := index[ing.Name]
			if !seen {
				index[ing.Name] = len(items)
				items = append(items, ShoppingListItem{
					Ingredient: ing,
					MealNames:  []string{meal.Name},
					Servings: ServingsAdjustment{
						Original: entry.Slot.OriginalServings,
						Adjusted: entry.Slot.Servings,
					},
				})
				continue
			}
			items[i].Ingredient.EstimatedCost += ing.EstimatedCost
			items[i].MealNames = append(items[i].MealNames, meal.Name)
		}
	}

	return items
}
