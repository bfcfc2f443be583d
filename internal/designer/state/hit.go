package state

import "stallmap/pkg/geometry"

// HitTest finds the topmost entity under p, walking the render order from
// the top: stalls, then influence drag handles, then zones. Within a layer
// later entities sit above earlier ones. Influence circles themselves are
// transparent to the pointer; only the handle square of side 2*handle around
// the center is grabbable.
func HitTest(s State, p geometry.Point, handle float64) (EntityRef, bool) {
	for i := len(s.Stalls) - 1; i >= 0; i-- {
		if s.Stalls[i].Geometry.Contains(p) {
			return s.Stalls[i].Ref(), true
		}
	}
	for i := len(s.Influences) - 1; i >= 0; i-- {
		inf := s.Influences[i]
		box := geometry.Rect{X: inf.X - handle, Y: inf.Y - handle, W: 2 * handle, H: 2 * handle}
		if box.Contains(p) {
			return inf.Ref(), true
		}
	}
	for i := len(s.Zones) - 1; i >= 0; i-- {
		if s.Zones[i].Geometry.Contains(p) {
			return s.Zones[i].Ref(), true
		}
	}
	return EntityRef{}, false
}
