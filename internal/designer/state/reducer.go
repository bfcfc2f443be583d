package state

import (
	"stallmap/pkg/geometry"
)

// Reducer applies actions to a State. It holds no editing state of its own;
// the same Reducer can serve any number of sessions.
type Reducer struct {
	defaults Defaults
	ids      IDSource
}

func NewReducer(defaults Defaults, ids IDSource) *Reducer {
	if ids == nil {
		ids = NewClockIDs()
	}
	return &Reducer{defaults: defaults, ids: ids}
}

func (r *Reducer) Defaults() Defaults {
	return r.defaults
}

// Reduce returns the state after applying a. Unknown or inapplicable actions
// return s unchanged.
func (r *Reducer) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetDrawMode:
		if a.Mode.Valid() {
			s.Mode.Draw = a.Mode
		}
	case SetZoneType:
		if a.ZoneType.Valid() {
			s.Mode.ZoneType = a.ZoneType
			s.Mode.Draw = DrawZone
		}
	case SetInfluenceType:
		if a.InfluenceType.Valid() {
			s.Mode.InfluenceType = a.InfluenceType
			s.Mode.Draw = DrawInfluence
		}
	case PointerDown:
		return r.pointerDown(s, geometry.ToPercent(a.Event, a.Bounds))
	case PointerMove:
		return r.pointerMove(s, geometry.ToPercent(a.Event, a.Bounds))
	case PointerUp:
		return r.pointerUp(s, a)
	case PointerCancel:
		s.Gesture = Gesture{}
	case Select:
		if s.Exists(a.Ref) {
			ref := a.Ref
			s.Selected = &ref
		}
	case ClearSelection:
		s.Selected = nil
	case UpdateEntity:
		return Update(s, a.Ref, a.Patch)
	case DeleteEntity:
		return Delete(s, a.Ref)
	case AssignStallIDs:
		return assignStallIDs(s, a.IDs)
	}
	return s
}

// pointerDown starts a drag when the pointer lands on an entity and a fresh
// draw otherwise. A draw always clears the selection.
func (r *Reducer) pointerDown(s State, pos geometry.Point) State {
	if ref, ok := HitTest(s, pos, r.defaults.HandleRadius); ok {
		origin, _ := entityOrigin(s, ref)
		if ref.Kind == KindStall {
			s.Selected = &ref
		}
		s.Gesture = dragging(ref, pos.Sub(origin))
		return s
	}

	s.Selected = nil
	s.Gesture = drawing(pos)
	return s
}

func (r *Reducer) pointerMove(s State, pos geometry.Point) State {
	switch {
	case s.Gesture.Dragging != nil:
		drag := *s.Gesture.Dragging
		patch, ok := movePatch(s, drag.Target, pos.Sub(drag.Offset))
		if !ok {
			s.Gesture = Gesture{}
			return s
		}
		return Update(s, drag.Target, patch)
	case s.Gesture.Drawing != nil:
		d := *s.Gesture.Drawing
		d.Current = pos
		s.Gesture = Gesture{Drawing: &d}
	}
	return s
}

func (r *Reducer) pointerUp(s State, a PointerUp) State {
	if s.Gesture.Dragging != nil {
		s.Gesture = Gesture{}
		return s
	}
	if s.Gesture.Drawing == nil {
		return s
	}

	d := *s.Gesture.Drawing
	if a.Bounds.Width > 0 && a.Bounds.Height > 0 {
		d.Current = geometry.ToPercent(a.Event, a.Bounds)
	}
	s.Gesture = Gesture{}

	rect := d.Rect()
	if r.defaults.tooSmall(rect) {
		return s
	}
	return r.commit(s, rect)
}

// entityOrigin is the point a drag offset is measured against.
func entityOrigin(s State, ref EntityRef) (geometry.Point, bool) {
	switch ref.Kind {
	case KindStall:
		id, ok := ref.StallID()
		if !ok {
			return geometry.Point{}, false
		}
		st, ok := s.Stall(id)
		return st.Geometry.Origin(), ok
	case KindZone:
		z, ok := s.Zone(ref.ID)
		return z.Geometry.Origin(), ok
	case KindInfluence:
		inf, ok := s.Influence(ref.ID)
		return inf.Origin(), ok
	}
	return geometry.Point{}, false
}

// movePatch builds the patch placing the entity's origin at origin. Only the
// position changes.
func movePatch(s State, ref EntityRef, origin geometry.Point) (EntityPatch, bool) {
	switch ref.Kind {
	case KindStall:
		id, ok := ref.StallID()
		if !ok {
			return EntityPatch{}, false
		}
		st, ok := s.Stall(id)
		if !ok {
			return EntityPatch{}, false
		}
		g := st.Geometry.MoveTo(origin)
		return EntityPatch{Geometry: &g}, true
	case KindZone:
		z, ok := s.Zone(ref.ID)
		if !ok {
			return EntityPatch{}, false
		}
		g := z.Geometry.MoveTo(origin)
		return EntityPatch{Geometry: &g}, true
	case KindInfluence:
		inf, ok := s.Influence(ref.ID)
		if !ok {
			return EntityPatch{}, false
		}
		c := geometry.Point{X: origin.X + inf.Radius, Y: origin.Y + inf.Radius}
		return EntityPatch{Center: &c}, true
	}
	return EntityPatch{}, false
}
