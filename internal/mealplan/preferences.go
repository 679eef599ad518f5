package mealplan

import (
	"fmt"
	"strings"
	"time"
)

// ProviderID identifies one of the supported AI vendors
type ProviderID string

const (
	ProviderOpenAI ProviderID = "openai"
	ProviderClaude ProviderID = "claude"
	ProviderGemini ProviderID = "gemini"
)

// ParseProviderID normalizes a user supplied provider identifier
func ParseProviderID(s string) ProviderID {
	return ProviderID(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether the identifier names a supported vendor
func (p ProviderID) Known() bool {
	switch p {
	case ProviderOpenAI, ProviderClaude, ProviderGemini:
		return true
	}
	return false
}

// Preference form limits
const (
	MinCalories    = 500
	MaxCalories    = 5000
	MinMealsPerDay = 1
	MaxMealsPerDay = 6
	MinCookingTime = 10
	MaxCookingTime = 180
	MaxPlanDays    = 14
)

// UserPreferences are the dietary settings a plan is generated from.
// Zero numeric values mean "not set".
type UserPreferences struct {
	Calories            int        `json:"calories,omitempty"`
	MealsPerDay         int        `json:"mealsPerDay,omitempty"`
	DietaryRestrictions []string   `json:"dietaryRestrictions"`
	CuisinePreferences  []string   `json:"cuisinePreferences"`
	Allergies           []string   `json:"allergies"`
	CookingTime         int        `json:"cookingTime,omitempty"`
	SkillLevel          string     `json:"skillLevel"`
	MealTypes           []string   `json:"mealTypes"`
	ProteinPreference   string     `json:"proteinPreference,omitempty"`
	AIProvider          ProviderID `json:"aiProvider"`
	APIKey              string     `json:"apiKey"`
}

// ValidationError reports an invalid preference or request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the preferences against the preference form limits
func (p UserPreferences) Validate() error {
	if strings.TrimSpace(p.APIKey) == "" {
		return invalid("apiKey", "API key is required")
	}
	if !p.AIProvider.Known() {
		return invalid("aiProvider", "must be one of openai, claude, gemini")
	}
	if p.Calories != 0 && (p.Calories < MinCalories || p.Calories > MaxCalories) {
		return invalid("calories", "must be between %d and %d", MinCalories, MaxCalories)
	}
	if p.MealsPerDay != 0 && (p.MealsPerDay < MinMealsPerDay || p.MealsPerDay > MaxMealsPerDay) {
		return invalid("mealsPerDay", "must be between %d and %d", MinMealsPerDay, MaxMealsPerDay)
	}
	if p.CookingTime != 0 && (p.CookingTime < MinCookingTime || p.CookingTime > MaxCookingTime) {
		return invalid("cookingTime", "must be between %d and %d minutes", MinCookingTime, MaxCookingTime)
	}
	if strings.TrimSpace(p.SkillLevel) == "" {
		return invalid("skillLevel", "skill level is required")
	}
	if len(p.MealTypes) == 0 {
		return invalid("mealTypes", "select at least one meal type")
	}
	return nil
}

// MaskedAPIKey hides all but the last four characters of the API key
func (p UserPreferences) MaskedAPIKey() string {
	key := strings.TrimSpace(p.APIKey)
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// PlanRequest is a set of preferences plus the date range to plan for
type PlanRequest struct {
	UserPreferences
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// DefaultDateRange returns a one week range starting on the day of now
func DefaultDateRange(now time.Time) (start, end string) {
	return now.Format(DateLayout), now.AddDate(0, 0, 6).Format(DateLayout)
}

// Days returns the number of calendar days covered by the request,
// or zero when no range is set
func (r PlanRequest) Days() int {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ValidateDates checks the date range of the request
func (r PlanRequest) ValidateDates() error {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return invalid("startDate", "must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return invalid("endDate", "must be a date in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return invalid("endDate", "must not be before startDate")
	}
	if r.Days() > MaxPlanDays {
		return invalid("endDate", "plans cover at most %d days", MaxPlanDays)
	}
	return nil
}
