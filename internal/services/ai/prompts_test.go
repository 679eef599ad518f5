package ai

import (
	"strings"
	"testing"

	"github.com/socialchef/planner/internal/mealplan"
)

func TestBuildMealPlanPrompt(t *testing.T) {
	tests := []struct {
		name        string
		req         mealplan.PlanRequest
		contains    []string
		notContains []string
	}{
		{
			name: "Full preferences",
			req: mealplan.PlanRequest{
				UserPreferences: mealplan.UserPreferences{
					Calories:            2200,
					MealsPerDay:         4,
					DietaryRestrictions: []string{"vegetarian"},
					CuisinePreferences:  []string{"Italian", "Thai"},
					Allergies:           []string{"peanuts"},
					CookingTime:         45,
					SkillLevel:          "intermediate",
					MealTypes:           []string{"breakfast", "dinner"},
					ProteinPreference:   "tofu",
				},
				StartDate: "2024-03-01",
				EndDate:   "2024-03-03",
			},
			contains: []string{
				"Daily calorie target: 2200",
				"Meals per day: 4",
				"Dietary restrictions: vegetarian",
				"Cuisine preferences: Italian, Thai",
				"Allergies: peanuts",
				"Maximum cooking time: 45 minutes",
				"Cooking skill level: intermediate",
				"Meal types: breakfast, dinner",
				"Protein preference: tofu",
				"Plan from 2024-03-01 to 2024-03-03",
				"exactly 3 entries",
			},
		},
		{
			name: "Defaults for unset fields",
			req: mealplan.PlanRequest{
				UserPreferences: mealplan.UserPreferences{MealTypes: []string{"lunch"}},
			},
			contains: []string{
				"Daily calorie target: flexible",
				"Meals per day: 3",
				"Dietary restrictions: None",
				"Cuisine preferences: Any",
				"Allergies: None",
				"Maximum cooking time: flexible",
				"Protein preference: Any",
			},
			notContains: []string{"<DATES>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildMealPlanPrompt(tt.req)

			for _, key := range []string{`"weekPlan"`, `"date"`, `"meals"`, `"name"`, `"description"`, `"calories"`, `"protein"`, `"carbs"`, `"fat"`} {
				if !strings.Contains(prompt, key) {
					t.Errorf("prompt is missing schema key %s", key)
				}
			}
			for _, s := range tt.contains {
				if !strings.Contains(prompt, s) {
					t.Errorf("BuildMealPlanPrompt() did not contain expected string: %s", s)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(prompt, s) {
					t.Errorf("BuildMealPlanPrompt() contained unexpected string: %s", s)
				}
			}
		})
	}
}

func TestBuildMealPlanPrompt_Deterministic(t *testing.T) {
	req := mealplan.PlanRequest{
		UserPreferences: mealplan.UserPreferences{
			Calories:   1800,
			MealTypes:  []string{"dinner"},
			AIProvider: mealplan.ProviderOpenAI,
			APIKey:     "sk-one",
		},
	}
	first := BuildMealPlanPrompt(req)

	req.AIProvider = mealplan.ProviderGemini
	req.APIKey = "other-key"
	second := BuildMealPlanPrompt(req)

	if first != second {
		t.Error("prompt should not depend on provider or credential")
	}
	if strings.Contains(first, "sk-one") {
		t.Error("prompt must not contain the API key")
	}
}

func TestBuildRecipePrompt(t *testing.T) {
	meal := mealplan.Meal{
		Name:        "Shakshuka",
		Description: "Eggs poached in spiced tomato sauce",
		Calories:    420,
		Protein:     21.5,
		Carbs:       30,
		Fat:         22,
		Type:        mealplan.MealBreakfast,
	}

	prompt := BuildRecipePrompt(meal)

	contains := []string{
		"Name: Shakshuka",
		"Description: Eggs poached in spiced tomato sauce",
		"Meal type: breakfast",
		"420 kcal, 21.5g protein, 30g carbs, 22g fat",
		`"recipe"`, `"ingredients"`, `"amount"`, `"unit"`, `"instructions"`,
		`"prepTime"`, `"cookTime"`, `"servings"`,
	}
	for _, s := range contains {
		if !strings.Contains(prompt, s) {
			t.Errorf("BuildRecipePrompt() did not contain expected string: %s", s)
		}
	}
}
