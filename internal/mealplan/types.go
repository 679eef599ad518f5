// Package mealplan holds the domain types shared by the prompt builder,
// the response validator and the provider adapters.
package mealplan

// DateLayout is the ISO-8601 calendar date format used for plan days
const DateLayout = "2006-01-02"

// MealType is an optional tag describing when a meal is eaten
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealDessert   MealType = "dessert"
)

// Known reports whether t is one of the supported meal tags
func (t MealType) Known() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealDessert:
		return true
	}
	return false
}

// Ingredient is a single recipe ingredient
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Recipe describes how to cook a meal
type Recipe struct {
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	PrepTime     float64      `json:"prepTime"`
	CookTime     float64      `json:"cookTime"`
	Servings     int          `json:"servings"`
}

// TotalTime returns prep plus cook time in minutes
func (r Recipe) TotalTime() float64 {
	return r.PrepTime + r.CookTime
}

// Meal is one dish in a day plan
type Meal struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Type        MealType `json:"type,omitempty"`
	Recipe      *Recipe  `json:"recipe,omitempty"`
}

// DayPlan is the list of meals for one calendar date
type DayPlan struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// MealPlanResponse is the validated result of a meal plan generation
type MealPlanResponse struct {
	WeekPlan []DayPlan `json:"weekPlan"`
}

// RecipeResponse is the validated result of a recipe details request
type RecipeResponse struct {
	Recipe Recipe `json:"recipe"`
}
