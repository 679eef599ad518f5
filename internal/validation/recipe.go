package validation

import (
	"math"
	"strings"

	"github.com/socialchef/planner/internal/mealplan"
)

// ValidateRecipe parses raw model output into recipe details using the
// same rules as ValidateMealPlan
func ValidateRecipe(raw string) (mealplan.RecipeResponse, error) {
	v, err := decode(raw)
	if err != nil {
		return mealplan.RecipeResponse{}, err
	}

	root, ok := object(v)
	if !ok {
		return mealplan.RecipeResponse{}, formatError("recipe must be an object")
	}
	recipe, err := validateRecipeObject(root["recipe"])
	if err != nil {
		return mealplan.RecipeResponse{}, err
	}
	return mealplan.RecipeResponse{Recipe: recipe}, nil
}

func validateRecipeObject(v any) (mealplan.Recipe, error) {
	obj, ok := object(v)
	if !ok {
		return mealplan.Recipe{}, formatError("recipe must be an object")
	}

	ingredients, ok := array(obj["ingredients"])
	if !ok || len(ingredients) == 0 {
		return mealplan.Recipe{}, formatError("ingredients must be a non-empty array")
	}
	instructions, ok := array(obj["instructions"])
	if !ok || len(instructions) == 0 {
		return mealplan.Recipe{}, formatError("instructions must be a non-empty array")
	}

	recipe := mealplan.Recipe{
		Ingredients:  make([]mealplan.Ingredient, 0, len(ingredients)),
		Instructions: make([]string, 0, len(instructions)),
	}

	for i, raw := range ingredients {
		ing, ok := validateIngredient(raw)
		if !ok {
			return mealplan.Recipe{}, formatError("invalid ingredient format at index %d", i)
		}
		recipe.Ingredients = append(recipe.Ingredients, ing)
	}

	for i, raw := range instructions {
		step, ok := raw.(string)
		if !ok || strings.TrimSpace(step) == "" {
			return mealplan.Recipe{}, formatError("invalid instruction at index %d", i)
		}
		recipe.Instructions = append(recipe.Instructions, step)
	}

	if recipe.PrepTime, ok = number(obj, "prepTime"); !ok || recipe.PrepTime < 0 {
		return mealplan.Recipe{}, formatError("prepTime must be a number")
	}
	if recipe.CookTime, ok = number(obj, "cookTime"); !ok || recipe.CookTime < 0 {
		return mealplan.Recipe{}, formatError("cookTime must be a number")
	}

	servings, ok := number(obj, "servings")
	if !ok || servings < 1 || servings != math.Trunc(servings) || servings > math.MaxInt32 {
		return mealplan.Recipe{}, formatError("servings must be a positive integer")
	}
	recipe.Servings = int(servings)

	return recipe, nil
}

func validateIngredient(v any) (mealplan.Ingredient, bool) {
	obj, ok := object(v)
	if !ok {
		return mealplan.Ingredient{}, false
	}

	var ing mealplan.Ingredient
	if ing.Name, ok = nonEmptyText(obj, "name"); !ok || DetectPlaceholders(ing.Name) {
		return mealplan.Ingredient{}, false
	}
	if ing.Amount, ok = number(obj, "amount"); !ok || ing.Amount < 0 {
		return mealplan.Ingredient{}, false
	}
	if ing.Unit, ok = text(obj, "unit"); !ok {
		return mealplan.Ingredient{}, false
	}
	return ing, true
}
