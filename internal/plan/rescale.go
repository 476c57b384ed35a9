package plan

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidRescale is returned when a rescale is attempted from or to a
// non-positive serving count. Slots are always created with at least one
// serving, so hitting this indicates a broken caller, not user input.
var ErrInvalidRescale = errors.New("rescale requires positive serving counts")

var amountNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Rescale returns a copy of m adjusted from `from` servings to `to`
// servings. TotalCost, every macro and every ingredient cost are
// multiplied by to/from. Numeric substrings inside each ingredient's
// free-text amount are multiplied the same way and reformatted to two
// decimals, leaving units and qualifiers untouched; amounts with no
// number ("a pinch") pass through unchanged. Amounts holding several
// numbers ("2 x 150g") have each number scaled independently.
func Rescale(m Meal, from, to int) (Meal, error) {
	if from <= 0 || to <= 0 {
		return Meal{}, fmt.Errorf("%w: from=%d to=%d", ErrInvalidRescale, from, to)
	}

	factor := float64(to) / float64(from)
	out := m.clone()

	out.TotalCost = m.TotalCost * factor
	out.Macros.Calories = m.Macros.Calories * factor
	out.Macros.Protein = m.Macros.Protein * factor
	out.Macros.Carbs = m.Macros.Carbs * factor
	out.Macros.Fat = m.Macros.Fat * factor
	out.Macros.Fiber = m.Macros.Fiber * factor
	out.Servings = to

	for i := range out.Ingredients {
		out.Ingredients[i].EstimatedCost = m.Ingredients[i].EstimatedCost * factor
		out.Ingredients[i].Amount = scaleAmount(m.Ingredients[i].Amount, factor)
	}

	return out, nil
}

func scaleAmount(amount string, factor float64) string {
	return amountNumber.ReplaceAllStringFunc(amount, func(s string) string {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return s
		}
		return strconv.FormatFloat(n*factor, 'f', 2, 64)
	})
}
