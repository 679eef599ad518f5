package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestDetectPlaceholders(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"N/A", true},
		{"unknown", true},
		{"Not Specified", true},
		{"[placeholder]", true},
		{"<TBD>", true},
		{"valid ingredient", false},
		{"Salt", false},
		{"", true},
		{"   ", true},
		{"xxx", true},
	}

	for _, tt := range tests {
		result := DetectPlaceholders(tt.text)
		if result != tt.expected {
			t.Errorf("DetectPlaceholders(%q) = %v; want %v", tt.text, result, tt.expected)
		}
	}
}

const validRecipe = `{
  "recipe": {
    "ingredients": [
      {"name": "Flour", "amount": 2, "unit": "cups"},
      {"name": "Egg", "amount": 1, "unit": ""}
    ],
    "instructions": ["Mix the flour and egg.", "Cook on a hot pan."],
    "prepTime": 10,
    "cookTime": 15,
    "servings": 4
  }
}`

func TestValidateRecipe(t *testing.T) {
	t.Run("Valid recipe", func(t *testing.T) {
		resp, err := ValidateRecipe(validRecipe)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := resp.Recipe
		if len(r.Ingredients) != 2 || r.Ingredients[0].Name != "Flour" || r.Ingredients[0].Amount != 2 {
			t.Errorf("unexpected ingredients: %+v", r.Ingredients)
		}
		if r.Ingredients[1].Unit != "" {
			t.Errorf("expected empty unit, got %q", r.Ingredients[1].Unit)
		}
		if r.Servings != 4 || r.PrepTime != 10 || r.CookTime != 15 {
			t.Errorf("unexpected timings: %+v", r)
		}
	})

	t.Run("Fenced recipe", func(t *testing.T) {
		resp, err := ValidateRecipe("```json\n" + validRecipe + "\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Recipe.Instructions) != 2 {
			t.Errorf("expected 2 instructions, got %d", len(resp.Recipe.Instructions))
		}
	})

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "Missing recipe key",
			input:   `{"ingredients": []}`,
			wantMsg: "recipe must be an object",
		},
		{
			name:    "Placeholder ingredient",
			input:   `{"recipe": {"ingredients": [{"name": "N/A", "amount": 1, "unit": "g"}], "instructions": ["x"], "prepTime": 1, "cookTime": 1, "servings": 1}}`,
			wantMsg: "invalid ingredient format at index 0",
		},
		{
			name:    "String amount",
			input:   `{"recipe": {"ingredients": [{"name": "Salt", "amount": "1", "unit": "tsp"}], "instructions": ["x"], "prepTime": 1, "cookTime": 1, "servings": 1}}`,
			wantMsg: "invalid ingredient format at index 0",
		},
		{
			name:    "Empty instruction",
			input:   `{"recipe": {"ingredients": [{"name": "Salt", "amount": 1, "unit": "tsp"}], "instructions": ["Boil", " "], "prepTime": 1, "cookTime": 1, "servings": 1}}`,
			wantMsg: "invalid instruction at index 1",
		},
		{
			name:    "No instructions",
			input:   `{"recipe": {"ingredients": [{"name": "Salt", "amount": 1, "unit": "tsp"}], "instructions": [], "prepTime": 1, "cookTime": 1, "servings": 1}}`,
			wantMsg: "instructions must be a non-empty array",
		},
		{
			name:    "Missing prep time",
			input:   `{"recipe": {"ingredients": [{"name": "Salt", "amount": 1, "unit": "tsp"}], "instructions": ["Boil"], "cookTime": 1, "servings": 1}}`,
			wantMsg: "prepTime must be a number",
		},
		{
			name:    "Fractional servings",
			input:   `{"recipe": {"ingredients": [{"name": "Salt", "amount": 1, "unit": "tsp"}], "instructions": ["Boil"], "prepTime": 1, "cookTime": 1, "servings": 2.5}}`,
			wantMsg: "servings must be a positive integer",
		},
		{
			name:    "Zero servings",
			input:   `{"recipe": {"ingredients": [{"name": "Salt", "amount": 1, "unit": "tsp"}], "instructions": ["Boil"], "prepTime": 1, "cookTime": 1, "servings": 0}}`,
			wantMsg: "servings must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRecipe(tt.input)
			var ferr *FormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
			if ferr.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, ferr.Message)
			}
			if !strings.HasPrefix(err.Error(), "invalid response format: ") {
				t.Errorf("unexpected error text %q", err.Error())
			}
		})
	}
}
