package plan

import "fmt"

// BudgetExceededError reports a proposed plan whose total cost is over
// the configured weekly budget. The mutation that produced it is never
// committed.
type BudgetExceededError struct {
	Actual float64
	Limit  float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("weekly budget exceeded: plan costs %.2f, budget is %.2f", e.Actual, e.Limit)
}

// TotalCost sums the cost of every filled slot. Slot meals are stored
// already rescaled to the slot's serving count, so no further scaling is
// applied here.
func (p *Plan) TotalCost() float64 {
	var total float64
	for _, slot := range p.Slots {
		if slot.Meal != nil {
			total += slot.Meal.TotalCost
		}
	}
	return total
}

// ValidateBudget returns a BudgetExceededError when the plan's total
// cost is over budget. It is called on the proposed state of every
// mutation that can raise cost, before anything is committed.
func (p *Plan) ValidateBudget(weeklyBudget float64) error {
	if total := p.TotalCost(); total > weeklyBudget {
		return &BudgetExceededError{Actual: total, Limit: weeklyBudget}
	}
	return nil
}
