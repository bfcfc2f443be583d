package state

import (
	"fmt"

	"stallmap/pkg/geometry"
)

// committer turns a committed draw rectangle into a new entity of one kind.
type committer func(r *Reducer, s State, rect geometry.Rect) State

var committers = map[DrawMode]committer{
	DrawStall:     commitStall,
	DrawZone:      commitZone,
	DrawInfluence: commitInfluence,
}

// commit reads the draw mode here, at commit time, never when the gesture
// starts. A mode switch mid-gesture leaves the gesture running.
func (r *Reducer) commit(s State, rect geometry.Rect) State {
	fn, ok := committers[s.Mode.Draw]
	if !ok {
		return s
	}
	return fn(r, s, rect)
}

func commitStall(r *Reducer, s State, rect geometry.Rect) State {
	stall := Stall{
		ID:          r.ids.NextStallID(),
		Name:        fmt.Sprintf("S-%d", len(s.Stalls)+1),
		Geometry:    rect,
		PriceCents:  r.defaults.StallPriceCents,
		Size:        r.defaults.StallSize,
		Category:    r.defaults.StallCategory,
		IsAvailable: true,
	}
	s.Stalls = appendCopy(s.Stalls, stall)
	ref := stall.Ref()
	s.Selected = &ref
	return s
}

func commitZone(r *Reducer, s State, rect geometry.Rect) State {
	zone := Zone{
		ID:       r.ids.NewID(),
		Type:     s.Mode.ZoneType,
		Geometry: rect,
		Label:    r.defaults.ZoneLabel(s.Mode.ZoneType),
	}
	s.Zones = appendCopy(s.Zones, zone)
	ref := zone.Ref()
	s.Selected = &ref
	return s
}

// commitInfluence derives a circle from the rectangle: centroid and half the
// longer side.
func commitInfluence(r *Reducer, s State, rect geometry.Rect) State {
	circle := geometry.CircleFromRect(rect)
	inf := Influence{
		ID:        r.ids.NewID(),
		Type:      s.Mode.InfluenceType,
		X:         circle.Center.X,
		Y:         circle.Center.Y,
		Radius:    circle.Radius,
		Intensity: r.defaults.InfluenceIntensity,
		Falloff:   r.defaults.InfluenceFalloff,
	}
	s.Influences = appendCopy(s.Influences, inf)
	ref := inf.Ref()
	s.Selected = &ref
	return s
}

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}
