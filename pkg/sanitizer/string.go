package sanitizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName is used for stall names and zone labels.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// MaxNameLength is the longest stall name the layout store accepts, in runes.
const MaxNameLength = 100

// ClampName normalizes a stall name and cuts it to MaxNameLength runes.
func ClampName(name string) string {
	name = NormalizeName(name)
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
}

// NormalizeHallName keeps case: hall tags on stalls are matched exactly.
func NormalizeHallName(hall string) string {
	return TrimAndNormalize(hall)
}

// NormalizeToken upper-cases an enum token such as a stall category.
func NormalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

func NormalizeNameForComparison(name string) string {
	return strings.ToLower(TrimAndNormalize(name))
}
