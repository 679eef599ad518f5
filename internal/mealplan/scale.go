package mealplan

import "errors"

// ErrInvalidServings is returned when a serving count is not positive
var ErrInvalidServings = errors.New("servings must be a positive number")

// ScaleAmount converts an ingredient amount written for originalServings
// into the amount needed for newServings
func ScaleAmount(amount float64, originalServings, newServings int) float64 {
	if originalServings <= 0 {
		return amount
	}
	return amount * float64(newServings) / float64(originalServings)
}

// Scale returns a copy of the recipe with every ingredient amount
// adjusted to newServings
func (r Recipe) Scale(newServings int) (Recipe, error) {
	if r.Servings <= 0 || newServings <= 0 {
		return Recipe{}, ErrInvalidServings
	}

	scaled := Recipe{
		Ingredients:  make([]Ingredient, len(r.Ingredients)),
		Instructions: append([]string(nil), r.Instructions...),
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     newServings,
	}
	for i, ing := range r.Ingredients {
		ing.Amount = ScaleAmount(ing.Amount, r.Servings, newServings)
		scaled.Ingredients[i] = ing
	}
	return scaled, nil
}
