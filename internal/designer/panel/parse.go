package panel

import (
	"math"
	"strconv"
	"strings"
)

// maxPriceCents is the largest integer a float64 holds exactly. Larger prices
// clamp to it so the float to int64 conversion stays in range.
const maxPriceCents = 1 << 53

// ParsePriceCents reads a major-unit price such as "1,500" or "1500.50" and
// returns minor units. Empty or unparsable input is zero.
func ParsePriceCents(v string) int64 {
	n := ParseNumber(v)
	if n <= 0 {
		return 0
	}
	cents := math.Round(n * 100)
	if cents >= maxPriceCents {
		return maxPriceCents
	}
	return int64(cents)
}

// ParseArea reads a whole square-foot area. It reports false for input that
// should leave the area unset: empty, unparsable, or zero.
func ParseArea(v string) (int, bool) {
	clean := cleanNumber(v)
	if clean == "" {
		return 0, false
	}
	if i := strings.IndexByte(clean, '.'); i >= 0 {
		clean = clean[:i]
	}
	n, err := strconv.Atoi(clean)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseNumber is the lenient float parse used for every numeric field.
// Anything it cannot read is zero.
func ParseNumber(v string) float64 {
	n, err := strconv.ParseFloat(cleanNumber(v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// cleanNumber strips spaces, thousands separators and a trailing decimal
// point left by partial input.
func cleanNumber(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, ",", "")
	v = strings.ReplaceAll(v, " ", "")
	return strings.TrimSuffix(v, ".")
}
