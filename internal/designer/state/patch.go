package state

import (
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
	"stallmap/pkg/sanitizer"
)

// EntityPatch is a partial update. Nil fields are left unchanged; fields
// that do not apply to the target's kind are ignored.
type EntityPatch struct {
	Name        *string              `json:"name,omitempty"`
	Geometry    *geometry.Rect       `json:"geometry,omitempty"`
	PriceCents  *int64               `json:"priceCents,omitempty"`
	Size        *model.StallSize     `json:"size,omitempty" validate:"omitempty,stall_size"`
	Category    *model.StallCategory `json:"category,omitempty" validate:"omitempty,stall_category"`
	IsAvailable *bool                `json:"isAvailable,omitempty"`
	SqFt        *int                 `json:"sqFt,omitempty"`
	ClearSqFt   bool                 `json:"clearSqFt,omitempty"`

	ZoneType *model.ZoneType `json:"zoneType,omitempty" validate:"omitempty,zone_type"`
	Label    *string         `json:"label,omitempty"`

	InfluenceType *model.InfluenceType `json:"influenceType,omitempty" validate:"omitempty,influence_type"`
	Center        *geometry.Point      `json:"center,omitempty"`
	Radius        *float64             `json:"radius,omitempty"`
	Intensity     *int                 `json:"intensity,omitempty"`
	Falloff       *model.Falloff       `json:"falloff,omitempty" validate:"omitempty,falloff"`
}

func (p EntityPatch) applyStall(s Stall) Stall {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Geometry != nil {
		s.Geometry = p.Geometry.Normalized()
	}
	if p.PriceCents != nil {
		s.PriceCents = sanitizer.NormalizePriceCents(*p.PriceCents)
	}
	if p.Size != nil && p.Size.Valid() {
		s.Size = *p.Size
	}
	if p.Category != nil && p.Category.Valid() {
		s.Category = *p.Category
	}
	if p.IsAvailable != nil {
		s.IsAvailable = *p.IsAvailable
	}
	if p.ClearSqFt {
		s.SqFt = nil
	} else if p.SqFt != nil {
		v := *p.SqFt
		s.SqFt = &v
	}
	return s
}

func (p EntityPatch) applyZone(z Zone) Zone {
	if p.ZoneType != nil && p.ZoneType.Valid() {
		z.Type = *p.ZoneType
	}
	if p.Geometry != nil {
		z.Geometry = p.Geometry.Normalized()
	}
	if p.Label != nil {
		z.Label = *p.Label
	}
	return z
}

func (p EntityPatch) applyInfluence(i Influence) Influence {
	if p.InfluenceType != nil && p.InfluenceType.Valid() {
		i.Type = *p.InfluenceType
	}
	if p.Center != nil {
		i.X = p.Center.X
		i.Y = p.Center.Y
	}
	if p.Radius != nil && *p.Radius >= 0 {
		i.Radius = *p.Radius
	}
	if p.Intensity != nil {
		i.Intensity = sanitizer.NormalizeIntensity(*p.Intensity)
	}
	if p.Falloff != nil && p.Falloff.Valid() {
		i.Falloff = *p.Falloff
	}
	return i
}
