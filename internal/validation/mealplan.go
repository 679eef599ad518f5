package validation

import (
	"strings"
	"time"

	"github.com/socialchef/planner/internal/mealplan"
)

// ValidateMealPlan parses raw model output into a meal plan. It stops at
// the first violation and never returns partially populated data.
func ValidateMealPlan(raw string) (mealplan.MealPlanResponse, error) {
	v, err := decode(raw)
	if err != nil {
		return mealplan.MealPlanResponse{}, err
	}

	root, ok := object(v)
	if !ok {
		return mealplan.MealPlanResponse{}, formatError("weekPlan must be an array")
	}
	days, ok := array(root["weekPlan"])
	if !ok {
		return mealplan.MealPlanResponse{}, formatError("weekPlan must be an array")
	}

	plan := mealplan.MealPlanResponse{WeekPlan: make([]mealplan.DayPlan, 0, len(days))}
	for i, d := range days {
		day, err := validateDay(i, d)
		if err != nil {
			return mealplan.MealPlanResponse{}, err
		}
		plan.WeekPlan = append(plan.WeekPlan, day)
	}
	return plan, nil
}

func validateDay(index int, v any) (mealplan.DayPlan, error) {
	obj, ok := object(v)
	if !ok {
		return mealplan.DayPlan{}, dayError(index)
	}
	date, ok := nonEmptyText(obj, "date")
	if !ok {
		return mealplan.DayPlan{}, dayError(index)
	}
	if _, err := time.Parse(mealplan.DateLayout, strings.TrimSpace(date)); err != nil {
		return mealplan.DayPlan{}, dayError(index)
	}
	meals, ok := array(obj["meals"])
	if !ok {
		return mealplan.DayPlan{}, dayError(index)
	}

	day := mealplan.DayPlan{
		Date:  strings.TrimSpace(date),
		Meals: make([]mealplan.Meal, 0, len(meals)),
	}
	for j, m := range meals {
		meal, ok := validateMeal(m)
		if !ok {
			return mealplan.DayPlan{}, mealError(index, j)
		}
		day.Meals = append(day.Meals, meal)
	}
	return day, nil
}

func validateMeal(v any) (mealplan.Meal, bool) {
	obj, ok := object(v)
	if !ok {
		return mealplan.Meal{}, false
	}

	var meal mealplan.Meal
	if meal.Name, ok = nonEmptyText(obj, "name"); !ok || DetectPlaceholders(meal.Name) {
		return mealplan.Meal{}, false
	}
	if meal.Description, ok = nonEmptyText(obj, "description"); !ok {
		return mealplan.Meal{}, false
	}
	if meal.Calories, ok = number(obj, "calories"); !ok {
		return mealplan.Meal{}, false
	}
	if meal.Protein, ok = number(obj, "protein"); !ok {
		return mealplan.Meal{}, false
	}
	if meal.Carbs, ok = number(obj, "carbs"); !ok {
		return mealplan.Meal{}, false
	}
	if meal.Fat, ok = number(obj, "fat"); !ok {
		return mealplan.Meal{}, false
	}

	if raw, present := obj["type"]; present && raw != nil {
		t, ok := raw.(string)
		if !ok {
			return mealplan.Meal{}, false
		}
		meal.Type = mealplan.MealType(strings.ToLower(strings.TrimSpace(t)))
		if !meal.Type.Known() {
			return mealplan.Meal{}, false
		}
	}

	if raw, present := obj["recipe"]; present && raw != nil {
		recipe, err := validateRecipeObject(raw)
		if err != nil {
			return mealplan.Meal{}, false
		}
		meal.Recipe = &recipe
	}

	return meal, true
}
