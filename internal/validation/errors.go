package validation

import "fmt"

// FormatError reports model output that does not match the declared schema.
// DayIndex and MealIndex are -1 when the failure is not tied to a day or meal.
type FormatError struct {
	Message   string
	DayIndex  int
	MealIndex int
}

func (e *FormatError) Error() string {
	return "invalid response format: " + e.Message
}

func formatError(format string, args ...any) *FormatError {
	return &FormatError{Message: fmt.Sprintf(format, args...), DayIndex: -1, MealIndex: -1}
}

func dayError(day int) *FormatError {
	return &FormatError{
		Message:   fmt.Sprintf("invalid day format at index %d", day),
		DayIndex:  day,
		MealIndex: -1,
	}
}

func mealError(day, meal int) *FormatError {
	return &FormatError{
		Message:   fmt.Sprintf("invalid meal format at day %d, meal %d", day, meal),
		DayIndex:  day,
		MealIndex: meal,
	}
}
