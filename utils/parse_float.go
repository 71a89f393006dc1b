package utils

import (
	"strconv"
	"strings"
)

// ParseFloat converts a string to a float64, returning fallback on empty or
// malformed input.
func ParseFloat(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}

	return value
}

// FormatFloat renders a float for storage in a settings value, without
// trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
