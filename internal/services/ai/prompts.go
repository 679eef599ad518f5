package ai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/socialchef/planner/internal/mealplan"
)

const defaultMealsPerDay = 3

const mealPlanRoleSection = `<ROLE>
You are a nutrition-aware meal planner. You create varied, realistic meal plans that respect the user's dietary needs, and you always answer with machine-readable JSON.
</ROLE>`

const mealPlanOutputSection = `<OUTPUT_FORMAT>
Respond ONLY with a JSON object matching this exact schema. Do not wrap it in markdown and do not add any text before or after it:

{
  "weekPlan": [
    {
      "date": "YYYY-MM-DD",
      "meals": [
        {
          "name": "string",
          "description": "string",
          "calories": number,
          "protein": number,
          "carbs": number,
          "fat": number
        }
      ]
    }
  ]
}
</OUTPUT_FORMAT>`

const mealPlanRulesSection = `<RULES>
1. Every "date" is a calendar date in YYYY-MM-DD format
2. "calories" is in kcal; "protein", "carbs" and "fat" are in grams
3. All numeric fields are JSON numbers, never strings
4. Never include an ingredient listed under allergies
5. Keep every meal within the maximum cooking time and the user's skill level
6. Vary meals across days; avoid repeating the same dish on consecutive days
</RULES>`

const recipeRoleSection = `<ROLE>
You are a home cooking assistant. You turn a short meal description into a complete, practical recipe and answer with machine-readable JSON.
</ROLE>`

const recipeOutputSection = `<OUTPUT_FORMAT>
Respond ONLY with a JSON object matching this exact schema. Do not wrap it in markdown and do not add any text before or after it:

{
  "recipe": {
    "ingredients": [
      {
        "name": "string",
        "amount": number,
        "unit": "string"
      }
    ],
    "instructions": ["string"],
    "prepTime": number,
    "cookTime": number,
    "servings": number
  }
}
</OUTPUT_FORMAT>`

const recipeRulesSection = `<RULES>
1. "prepTime" and "cookTime" are in minutes
2. "servings" is a whole number of portions the ingredient amounts are written for
3. Use metric units (g, ml, piece, pinch) for "unit"; use an empty string for count-only items
4. Each instruction is one clear, actionable step including visual or timing cues where useful
5. The recipe must match the meal's nutrition per serving as closely as practical
</RULES>`

func listOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func textOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func preferencesSection(p mealplan.UserPreferences) string {
	calories := "flexible"
	if p.Calories > 0 {
		calories = strconv.Itoa(p.Calories)
	}
	mealsPerDay := p.MealsPerDay
	if mealsPerDay <= 0 {
		mealsPerDay = defaultMealsPerDay
	}
	cookingTime := "flexible"
	if p.CookingTime > 0 {
		cookingTime = fmt.Sprintf("%d minutes", p.CookingTime)
	}

	var sb strings.Builder
	sb.WriteString("<PREFERENCES>\n")
	fmt.Fprintf(&sb, "- Daily calorie target: %s\n", calories)
	fmt.Fprintf(&sb, "- Meals per day: %d\n", mealsPerDay)
	fmt.Fprintf(&sb, "- Dietary restrictions: %s\n", listOr(p.DietaryRestrictions, "None"))
	fmt.Fprintf(&sb, "- Cuisine preferences: %s\n", listOr(p.CuisinePreferences, "Any"))
	fmt.Fprintf(&sb, "- Allergies: %s\n", listOr(p.Allergies, "None"))
	fmt.Fprintf(&sb, "- Maximum cooking time: %s\n", cookingTime)
	fmt.Fprintf(&sb, "- Cooking skill level: %s\n", textOr(p.SkillLevel, "Any"))
	fmt.Fprintf(&sb, "- Meal types: %s\n", listOr(p.MealTypes, "Any"))
	fmt.Fprintf(&sb, "- Protein preference: %s\n", textOr(p.ProteinPreference, "Any"))
	sb.WriteString("</PREFERENCES>")
	return sb.String()
}

func dateRangeSection(req mealplan.PlanRequest) string {
	if req.StartDate == "" || req.EndDate == "" {
		return ""
	}
	days := req.Days()
	if days <= 0 {
		return ""
	}
	return fmt.Sprintf(`<DATES>
Plan from %s to %s inclusive. Return exactly %d entries in "weekPlan", one per date, in chronological order.
</DATES>`, req.StartDate, req.EndDate, days)
}

// BuildMealPlanPrompt builds the meal plan generation prompt for a request.
// The output is deterministic and does not depend on the selected provider.
func BuildMealPlanPrompt(req mealplan.PlanRequest) string {
	var sb strings.Builder
	sb.WriteString(mealPlanRoleSection)
	sb.WriteString("\n\n<TASK>\nCreate a meal plan for a user with the following preferences.\n\n")
	sb.WriteString(preferencesSection(req.UserPreferences))
	sb.WriteString("\n\n")

	if dates := dateRangeSection(req); dates != "" {
		sb.WriteString(dates)
		sb.WriteString("\n\n")
	}

	sb.WriteString(mealPlanRulesSection)
	sb.WriteString("\n\n")
	sb.WriteString(mealPlanOutputSection)
	sb.WriteString("\n</TASK>")

	return sb.String()
}

// BuildRecipePrompt builds the recipe details prompt for a planned meal
func BuildRecipePrompt(meal mealplan.Meal) string {
	var sb strings.Builder
	sb.WriteString(recipeRoleSection)
	sb.WriteString("\n\n<TASK>\nWrite the full recipe for this meal.\n\n<MEAL>\n")
	fmt.Fprintf(&sb, "- Name: %s\n", meal.Name)
	fmt.Fprintf(&sb, "- Description: %s\n", meal.Description)
	if meal.Type != "" {
		fmt.Fprintf(&sb, "- Meal type: %s\n", meal.Type)
	}
	fmt.Fprintf(&sb, "- Nutrition per serving: %s kcal, %sg protein, %sg carbs, %sg fat\n",
		formatNumber(meal.Calories), formatNumber(meal.Protein), formatNumber(meal.Carbs), formatNumber(meal.Fat))
	sb.WriteString("</MEAL>\n\n")
	sb.WriteString(recipeRulesSection)
	sb.WriteString("\n\n")
	sb.WriteString(recipeOutputSection)
	sb.WriteString("\n</TASK>")

	return sb.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
