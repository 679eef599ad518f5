package validation

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"regexp"
	"strings"
)

var (
	wrappedFence = regexp.MustCompile("(?s)^```[A-Za-z]*\\s*(.*?)\\s*```$")
	innerFence   = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
)

// StripCodeFence removes a markdown code fence around a JSON payload.
// Text without a fence is returned trimmed.
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if m := wrappedFence.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	if !strings.HasPrefix(t, "{") {
		if m := innerFence.FindStringSubmatch(t); m != nil {
			return m[1]
		}
	}
	return t
}

// decode parses raw model output into generic JSON values, keeping
// numbers as json.Number so that numeric-looking strings stay strings
func decode(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(StripCodeFence(raw)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, formatError("parse failure: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, formatError("parse failure: unexpected data after JSON value")
	}
	return v, nil
}

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func array(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func text(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

func nonEmptyText(m map[string]any, key string) (string, bool) {
	s, ok := text(m, key)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func number(m map[string]any, key string) (float64, bool) {
	n, ok := m[key].(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// placeholderValues are filler strings models emit instead of real data
var placeholderValues = map[string]bool{
	"n/a":           true,
	"na":            true,
	"none":          true,
	"null":          true,
	"unknown":       true,
	"not specified": true,
	"placeholder":   true,
	"tbd":           true,
	"todo":          true,
	"xxx":           true,
	"...":           true,
}

// DetectPlaceholders reports whether text is empty or a filler value
func DetectPlaceholders(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return true
	}
	if placeholderValues[t] {
		return true
	}
	return (strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")) ||
		(strings.HasPrefix(t, "<") && strings.HasSuffix(t, ">"))
}
