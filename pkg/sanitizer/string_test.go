package sanitizer

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHallName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keeps case",
			input: "Hall A",
			want:  "Hall A",
		},
		{
			name:  "collapses inner whitespace",
			input: "  Main\t Hall ",
			want:  "Main Hall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHallName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeHallName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "food", want: "FOOD"},
		{input: " Sponsor ", want: "SPONSOR"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		got := NormalizeToken(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeNameForComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "convert to lowercase",
			input: "Stall A-1",
			want:  "stall a-1",
		},
		{
			name:  "trim and lowercase",
			input: "  FOOD  Court  ",
			want:  "food court",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNameForComparison(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeNameForComparison(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIntensity(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{input: -5, want: 0},
		{input: 0, want: 0},
		{input: 80, want: 80},
		{input: 100, want: 100},
		{input: 250, want: 100},
	}

	for _, tt := range tests {
		if got := NormalizeIntensity(tt.input); got != tt.want {
			t.Errorf("NormalizeIntensity(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestClampName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "normalized", input: "  Stall   A1 ", want: "Stall A1"},
		{name: "blank", input: "   ", want: ""},
		{name: "at limit", input: strings.Repeat("a", MaxNameLength), want: strings.Repeat("a", MaxNameLength)},
		{name: "over limit", input: strings.Repeat("a", MaxNameLength+20), want: strings.Repeat("a", MaxNameLength)},
		{name: "cut counts runes", input: strings.Repeat("ක", MaxNameLength+1), want: strings.Repeat("ක", MaxNameLength)},
		{name: "no trailing space after cut", input: strings.Repeat("a", MaxNameLength-1) + " b", want: strings.Repeat("a", MaxNameLength-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampName(tt.input)
			if got != tt.want {
				t.Errorf("ClampName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if n := utf8.RuneCountInString(got); n > MaxNameLength {
				t.Errorf("ClampName(%q) has %d runes", tt.input, n)
			}
		})
	}
}

func TestIntensityFromFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  int
	}{
		{input: -1e20, want: 0},
		{input: 49.5, want: 50},
		{input: 80, want: 80},
		{input: 1e20, want: 100},
		{input: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		if got := IntensityFromFloat(tt.input); got != tt.want {
			t.Errorf("IntensityFromFloat(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
