package state

// Update replaces the entity named by ref with the patched copy. The
// collection is rebuilt, never modified in place. This is the only path by
// which an existing entity changes, whether from the edit panel or a drag.
func Update(s State, ref EntityRef, patch EntityPatch) State {
	switch ref.Kind {
	case KindStall:
		id, ok := ref.StallID()
		if !ok {
			return s
		}
		s.Stalls = replaceWhere(s.Stalls, func(st Stall) bool { return st.ID == id }, patch.applyStall)
	case KindZone:
		s.Zones = replaceWhere(s.Zones, func(z Zone) bool { return z.ID == ref.ID }, patch.applyZone)
	case KindInfluence:
		s.Influences = replaceWhere(s.Influences, func(i Influence) bool { return i.ID == ref.ID }, patch.applyInfluence)
	}
	return s
}

// Delete removes the entity named by ref and clears the selection if it
// pointed at it. An in-flight drag of the entity ends.
func Delete(s State, ref EntityRef) State {
	switch ref.Kind {
	case KindStall:
		id, ok := ref.StallID()
		if !ok {
			return s
		}
		s.Stalls = removeWhere(s.Stalls, func(st Stall) bool { return st.ID == id })
	case KindZone:
		s.Zones = removeWhere(s.Zones, func(z Zone) bool { return z.ID == ref.ID })
	case KindInfluence:
		s.Influences = removeWhere(s.Influences, func(i Influence) bool { return i.ID == ref.ID })
	default:
		return s
	}

	if s.IsSelected(ref) {
		s.Selected = nil
	}
	if s.Gesture.Dragging != nil && s.Gesture.Dragging.Target == ref {
		s.Gesture = Gesture{}
	}
	return s
}

func assignStallIDs(s State, ids map[int64]int64) State {
	if len(ids) == 0 {
		return s
	}

	stalls := make([]Stall, len(s.Stalls))
	for i, st := range s.Stalls {
		if durable, ok := ids[st.ID]; ok {
			st.ID = durable
		}
		stalls[i] = st
	}
	s.Stalls = stalls

	if s.Selected != nil {
		if id, ok := s.Selected.StallID(); ok {
			if durable, ok := ids[id]; ok {
				ref := StallRef(durable)
				s.Selected = &ref
			}
		}
	}
	if s.Gesture.Dragging != nil {
		if id, ok := s.Gesture.Dragging.Target.StallID(); ok {
			if durable, ok := ids[id]; ok {
				drag := *s.Gesture.Dragging
				drag.Target = StallRef(durable)
				s.Gesture = Gesture{Dragging: &drag}
			}
		}
	}
	return s
}

func replaceWhere[T any](items []T, match func(T) bool, apply func(T) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		if match(item) {
			item = apply(item)
		}
		out[i] = item
	}
	return out
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}
