// Package reconcile moves a hall between the layout store's event document
// and the designer's registry: hydrate on load, merge and submit on save.
package reconcile

import (
	"encoding/json"
	"strings"

	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
	"stallmap/pkg/sanitizer"
)

// Hydrate builds the registry for one hall from the fetched event map. It
// also returns the stalls of every other hall, untouched.
func Hydrate(m model.EventMap, hallName string, ids state.IDSource) (state.State, []model.MapStall) {
	s := state.New(state.Hall{EventID: m.EventID, EventName: m.EventName, Name: hallName})

	stalls, others := Partition(m.Stalls, hallName)
	for _, ms := range stalls {
		s.Stalls = append(s.Stalls, stallFromMap(ms))
	}

	cfg := ParseLayoutConfig(m.Zones)
	canvas := geometry.Canvas{Width: cfg.Width, Height: cfg.Height}.OrNominal()
	for _, z := range cfg.Zones {
		if !z.Type.Valid() {
			continue
		}
		label := z.Metadata.Label
		if label == "" {
			label = string(z.Type)
		}
		s.Zones = append(s.Zones, state.Zone{
			ID:       ids.NewID(),
			Type:     z.Type,
			Geometry: geometry.ParseGeometry(z.Geometry),
			Label:    label,
		})
	}
	for _, inf := range cfg.Influences {
		if !inf.Type.Valid() {
			continue
		}
		c := canvas.FromPixels(geometry.PixelCircle{X: inf.X, Y: inf.Y, Radius: inf.Radius})
		id := inf.ID
		if id == "" {
			id = ids.NewID()
		}
		falloff := model.Falloff(strings.ToLower(string(inf.Falloff)))
		if !falloff.Valid() {
			falloff = model.FalloffLinear
		}
		s.Influences = append(s.Influences, state.Influence{
			ID:        id,
			Type:      inf.Type,
			X:         c.Center.X,
			Y:         c.Center.Y,
			Radius:    c.Radius,
			Intensity: sanitizer.IntensityFromFloat(inf.Intensity),
			Falloff:   falloff,
		})
	}

	return s, others
}

// Partition splits stalls into those tagged with hallName and the rest, both
// in their original order.
func Partition(stalls []model.MapStall, hallName string) (hall, others []model.MapStall) {
	others = []model.MapStall{}
	for _, ms := range stalls {
		if ms.HallName == hallName {
			hall = append(hall, ms)
			continue
		}
		others = append(others, ms)
	}
	return hall, others
}

func stallFromMap(ms model.MapStall) state.Stall {
	category := ms.Type
	if !category.Valid() {
		category = model.CategoryRetail
	}
	size := ms.Size
	if !size.Valid() {
		size = model.SizeMedium
	}
	var sqft *int
	if ms.SqFt != nil {
		v := *ms.SqFt
		sqft = &v
	}
	return state.Stall{
		ID:          ms.ID,
		Name:        ms.Name,
		Geometry:    geometry.ParseRaw(ms.Geometry),
		PriceCents:  ms.PriceCents,
		Size:        size,
		Category:    category,
		IsAvailable: !ms.Reserved,
		SqFt:        sqft,
	}
}

// ParseLayoutConfig decodes the event's layout configuration. Empty or
// malformed input yields a configuration with no zones and no influences.
func ParseLayoutConfig(raw string) model.LayoutConfig {
	var cfg model.LayoutConfig
	if strings.TrimSpace(raw) == "" {
		return model.EmptyLayoutConfig()
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return model.EmptyLayoutConfig()
	}
	if cfg.Width <= 0 {
		cfg.Width = geometry.NominalWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = geometry.NominalHeight
	}
	return cfg
}
