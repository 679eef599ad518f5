package api

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/socialchef/planner/internal/errors"
	"github.com/socialchef/planner/internal/mealplan"
)

// Serving selector bounds for scaled recipes
const (
	MinServings = 1
	MaxServings = 15
)

type RecipeRequest struct {
	Meal mealplan.Meal `json:"meal"`
}

// HandleRecipeDetails returns the recipe for one meal of a plan
func (s *Server) HandleRecipeDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Meal.Name) == "" {
		apperrors.NewValidationError("meal name is required", "MISSING_MEAL_NAME", "").WriteJSON(w)
		return
	}

	prefs, err := s.loadPreferences(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := s.planner.RecipeDetails(r.Context(), prefs, req.Meal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

type ScaleRecipeRequest struct {
	Recipe   mealplan.Recipe `json:"recipe"`
	Servings int             `json:"servings"`
}

// HandleScaleRecipe rescales ingredient amounts to a new serving count
func (s *Server) HandleScaleRecipe(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	var req ScaleRecipeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Servings < MinServings || req.Servings > MaxServings {
		apperrors.NewValidationError(
			fmt.Sprintf("servings must be between %d and %d", MinServings, MaxServings),
			"INVALID_SERVINGS", "",
		).WriteJSON(w)
		return
	}

	scaled, err := req.Recipe.Scale(req.Servings)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mealplan.RecipeResponse{Recipe: scaled})
}
