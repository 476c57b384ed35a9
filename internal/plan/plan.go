package plan

import (
	"errors"
	"fmt"
)

// ErrEmptySlot is returned when a serving adjustment targets a slot with
// no meal in it.
var ErrEmptySlot = errors.New("slot is empty")

// Plan is the weekly 7-day x 4-meal-type grid. Absent keys are empty
// slots. The map is exported for JSON snapshots; all writes must go
// through the mutation methods below, which validate the proposed state
// against the weekly budget before committing and leave the plan
// untouched on failure.
type Plan struct {
	Slots map[string]Slot `json:"slots"`
}

// New returns an empty plan.
func New() *Plan {
	return &Plan{Slots: make(map[string]Slot)}
}

// Clone deep-copies the plan, including slot meals.
func (p *Plan) Clone() *Plan {
	out := New()
	for key, slot := range p.Slots {
		if slot.Meal != nil {
			meal := slot.Meal.clone()
			slot.Meal = &meal
		}
		out.Slots[key] = slot
	}
	return out
}

// Slot returns the slot for a grid cell and whether it is filled.
func (p *Plan) Slot(day Day, mealType MealType) (Slot, bool) {
	slot, ok := p.Slots[SlotKey(day, mealType)]
	return slot, ok && slot.Meal != nil
}

// FilledEntry pairs a filled slot with its grid position.
type FilledEntry struct {
	Day      Day
	MealType MealType
	Slot     Slot
}

// Filled returns the filled slots in day-major, meal-type-minor order.
// Iterating the week deterministically keeps derived output (shopping
// list, stats) stable across calls.
func (p *Plan) Filled() []FilledEntry {
	var entries []FilledEntry
	for _, day := range Days {
		for _, mealType := range MealTypes {
			if slot, ok := p.Slot(day, mealType); ok {
				entries = append(entries, FilledEntry{Day: day, MealType: mealType, Slot: slot})
			}
		}
	}
	return entries
}

// SetFullPlan maps a flat list of generated meals onto the grid in
// day-major, meal-type-minor order: meals[i] lands on day i/4, meal type
// i%4. Fewer than 28 meals leave the tail of the week empty; meals past
// the 28th are dropped. Each meal is rescaled from its own serving count
// to defaultServings before placement. The whole grid is validated
// against the budget as one proposed state; on rejection the current
// plan is unchanged.
func (p *Plan) SetFullPlan(meals []Meal, defaultServings int, weeklyBudget float64) error {
	if defaultServings <= 0 {
		return fmt.Errorf("%w: default servings %d", ErrInvalidRescale, defaultServings)
	}

	proposed := New()
	for i, meal := range meals {
		if i >= len(Days)*len(MealTypes) {
			break
		}
		placed, err := placeMeal(meal, defaultServings)
		if err != nil {
			return err
		}
		key := SlotKey(Days[i/4], MealTypes[i%4])
		proposed.Slots[key] = Slot{
			Meal:             &placed,
			Servings:         defaultServings,
			OriginalServings: defaultServings,
		}
	}

	if err := proposed.ValidateBudget(weeklyBudget); err != nil {
		return err
	}
	p.Slots = proposed.Slots
	return nil
}

// SetSlot fills or replaces one grid cell, rescaling the meal to the
// requested serving count first. Subject to the budget guard.
func (p *Plan) SetSlot(day Day, mealType MealType, meal Meal, servings int, weeklyBudget float64) error {
	if servings <= 0 {
		return fmt.Errorf("%w: servings %d", ErrInvalidRescale, servings)
	}

	placed, err := placeMeal(meal, servings)
	if err != nil {
		return err
	}

	proposed := p.Clone()
	proposed.Slots[SlotKey(day, mealType)] = Slot{
		Meal:             &placed,
		Servings:         servings,
		OriginalServings: servings,
	}

	if err := proposed.ValidateBudget(weeklyBudget); err != nil {
		return err
	}
	p.Slots = proposed.Slots
	return nil
}

// SetSlotServings rescales the meal already in a slot from its current
// serving count to the requested one. Raising servings raises cost, so
// this is budget-gated like SetSlot; the original serving count of the
// slot is preserved for shopping list bookkeeping.
func (p *Plan) SetSlotServings(day Day, mealType MealType, servings int, weeklyBudget float64) error {
	if servings <= 0 {
		return fmt.Errorf("%w: servings %d", ErrInvalidRescale, servings)
	}

	key := SlotKey(day, mealType)
	current, ok := p.Slot(day, mealType)
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptySlot, key)
	}

	rescaled, err := Rescale(*current.Meal, current.Servings, servings)
	if err != nil {
		return err
	}

	proposed := p.Clone()
	proposed.Slots[key] = Slot{
		Meal:             &rescaled,
		Servings:         servings,
		OriginalServings: current.OriginalServings,
	}

	if err := proposed.ValidateBudget(weeklyBudget); err != nil {
		return err
	}
	p.Slots = proposed.Slots
	return nil
}

// Clear empties every slot. Emptying can only lower cost, so no budget
// check applies.
func (p *Plan) Clear() {
	p.Slots = make(map[string]Slot)
}

// placeMeal normalizes a meal for storage in a slot: rescaled to the
// slot's serving count so stored cost and macros always match servings.
// Meals arriving with no serving count are assumed already at the target.
func placeMeal(meal Meal, servings int) (Meal, error) {
	if meal.Servings <= 0 {
		meal.Servings = servings
	}
	if meal.Servings == servings {
		return meal.clone(), nil
	}
	return Rescale(meal, meal.Servings, servings)
}
