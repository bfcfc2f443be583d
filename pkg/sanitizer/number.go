package sanitizer

import "math"

const (
	MinIntensity = 0

	MaxIntensity = 100
)

func NormalizeIntensity(intensity int) int {
	if intensity < MinIntensity {
		return MinIntensity
	}
	if intensity > MaxIntensity {
		return MaxIntensity
	}
	return intensity
}

// IntensityFromFloat rounds a parsed intensity into range. Clamping happens
// before the int conversion so huge inputs cannot wrap.
func IntensityFromFloat(f float64) int {
	if math.IsNaN(f) {
		return MinIntensity
	}
	return int(math.Round(math.Min(math.Max(f, MinIntensity), MaxIntensity)))
}

// NormalizePriceCents floors negative prices at zero.
func NormalizePriceCents(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}
