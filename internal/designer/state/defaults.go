package state

import (
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

// Defaults are the values given to freshly drawn entities and the tunables
// of the interaction controller.
type Defaults struct {
	StallPriceCents    int64
	StallSize          model.StallSize
	StallCategory      model.StallCategory
	InfluenceIntensity int
	InfluenceFalloff   model.Falloff
	ZoneLabels         map[model.ZoneType]string
	MinDrawSize        float64
	HandleRadius       float64
}

func DefaultDefaults() Defaults {
	return Defaults{
		StallPriceCents:    500000,
		StallSize:          model.SizeMedium,
		StallCategory:      model.CategoryRetail,
		InfluenceIntensity: 80,
		InfluenceFalloff:   model.FalloffLinear,
		ZoneLabels: map[model.ZoneType]string{
			model.ZoneWalkway:  "Main Walkway",
			model.ZoneStage:    "Main Stage",
			model.ZoneEntrance: "Entrance",
		},
		MinDrawSize:  geometry.MinDrawSize,
		HandleRadius: 1,
	}
}

// ZoneLabel is the label a new zone of type t starts with.
func (d Defaults) ZoneLabel(t model.ZoneType) string {
	if label, ok := d.ZoneLabels[t]; ok && label != "" {
		return label
	}
	return string(t)
}

func (d Defaults) tooSmall(r geometry.Rect) bool {
	return r.W < d.MinDrawSize || r.H < d.MinDrawSize
}
