package interpreter

import (
	"encoding/json"
	"slices"
	"strings"
)

// cleanModelJSON strips Markdown code fences and any prose around the JSON
// value a model was asked to return.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = strings.TrimSpace(s[:idx])
	}

	// Keep only the outermost object or array. Prose may contain brackets of
	// its own ("Note [1]: {...}"), so the other opener is tried when the first
	// candidate is not valid JSON.
	var fallback string
	for _, start := range openerPositions(s) {
		candidate := outermostValue(s, start)
		if json.Valid([]byte(candidate)) {
			return candidate
		}
		if fallback == "" {
			fallback = candidate
		}
	}
	if fallback != "" {
		return fallback
	}
	return s
}

// openerPositions returns the first '{' and first '[' of s in text order.
func openerPositions(s string) []int {
	var positions []int
	obj, arr := strings.Index(s, "{"), strings.Index(s, "[")
	for _, p := range []int{min(obj, arr), max(obj, arr)} {
		if p != -1 && !slices.Contains(positions, p) {
			positions = append(positions, p)
		}
	}
	return positions
}

func outermostValue(s string, start int) string {
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end > start {
		return strings.TrimSpace(s[start : end+1])
	}
	return strings.TrimSpace(s[start:])
}
