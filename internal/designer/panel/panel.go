// Package panel is the property editor of the selected entity. Field edits
// are kept as raw drafts and only parsed, leniently, when committed.
package panel

import (
	"math"
	"strconv"
	"strings"

	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
	"stallmap/pkg/sanitizer"
)

type Field string

const (
	FieldName      Field = "name"
	FieldPrice     Field = "price"
	FieldSqFt      Field = "sqFt"
	FieldSize      Field = "size"
	FieldCategory  Field = "category"
	FieldAvailable Field = "isAvailable"
	FieldX         Field = "x"
	FieldY         Field = "y"
	FieldW         Field = "w"
	FieldH         Field = "h"

	FieldLabel    Field = "label"
	FieldZoneType Field = "zoneType"

	FieldInfluenceType Field = "influenceType"
	FieldRadius        Field = "radius"
	FieldIntensity     Field = "intensity"
	FieldFalloff       Field = "falloff"
)

var fieldsByKind = map[state.EntityKind][]Field{
	state.KindStall:     {FieldName, FieldSize, FieldCategory, FieldPrice, FieldSqFt, FieldX, FieldY, FieldW, FieldH, FieldAvailable},
	state.KindZone:      {FieldLabel, FieldZoneType, FieldX, FieldY, FieldW, FieldH},
	state.KindInfluence: {FieldInfluenceType, FieldX, FieldY, FieldRadius, FieldIntensity, FieldFalloff},
}

// Fields lists the editable fields of an entity kind in display order.
func Fields(kind state.EntityKind) []Field {
	return fieldsByKind[kind]
}

// Panel holds uncommitted drafts for one target entity. The zero value is a
// closed panel.
type Panel struct {
	Target *state.EntityRef `json:"target,omitempty"`
	Drafts map[Field]string `json:"drafts,omitempty"`
}

func (p Panel) Open() bool {
	return p.Target != nil
}

func (p Panel) Dirty() bool {
	return len(p.Drafts) > 0
}

// Supports reports whether f is a field of the panel's current target.
func (p Panel) Supports(f Field) bool {
	if p.Target == nil {
		return false
	}
	for _, candidate := range fieldsByKind[p.Target.Kind] {
		if candidate == f {
			return true
		}
	}
	return false
}

// Set records a draft value. Nothing is parsed yet, so partial input such
// as "" or "12." is fine.
func (p Panel) Set(f Field, value string) Panel {
	drafts := make(map[Field]string, len(p.Drafts)+1)
	for k, v := range p.Drafts {
		drafts[k] = v
	}
	drafts[f] = value
	p.Drafts = drafts
	return p
}

// Sync follows the selection. When the selection moved away from the
// target, pending drafts are committed to the old target first.
func Sync(p Panel, s state.State) (Panel, state.State) {
	if sameRef(p.Target, s.Selected) {
		return p, s
	}
	if p.Dirty() {
		p, s = Commit(p, s)
	}
	if s.Selected == nil {
		return Panel{}, s
	}
	ref := *s.Selected
	return Panel{Target: &ref}, s
}

// Commit parses the drafts into one patch and applies it through the
// registry's update path. A target that no longer exists drops the drafts.
func Commit(p Panel, s state.State) (Panel, state.State) {
	if p.Target == nil || !p.Dirty() {
		return p, s
	}
	if s.Exists(*p.Target) {
		s = state.Update(s, *p.Target, buildPatch(*p.Target, p.Drafts, s))
	}
	p.Drafts = nil
	return p, s
}

// Close commits pending drafts and clears the selection. There is no
// cancel: edits made so far are kept.
func Close(p Panel, s state.State) (Panel, state.State) {
	_, s = Commit(p, s)
	s.Selected = nil
	return Panel{}, s
}

// Delete removes the target entity, discarding its drafts.
func Delete(p Panel, s state.State) (Panel, state.State) {
	if p.Target == nil {
		return p, s
	}
	s = state.Delete(s, *p.Target)
	return Panel{}, s
}

func buildPatch(ref state.EntityRef, drafts map[Field]string, s state.State) state.EntityPatch {
	var patch state.EntityPatch

	switch ref.Kind {
	case state.KindStall:
		id, _ := ref.StallID()
		st, _ := s.Stall(id)
		// A blank name keeps the previous one; the store requires a name.
		if v, ok := drafts[FieldName]; ok {
			if name := sanitizer.ClampName(v); name != "" {
				patch.Name = &name
			}
		}
		if v, ok := drafts[FieldPrice]; ok {
			cents := ParsePriceCents(v)
			patch.PriceCents = &cents
		}
		if v, ok := drafts[FieldSqFt]; ok {
			if area, ok := ParseArea(v); ok {
				patch.SqFt = &area
			} else {
				patch.ClearSqFt = true
			}
		}
		if v, ok := drafts[FieldSize]; ok {
			size := model.StallSize(sanitizer.NormalizeToken(v))
			patch.Size = &size
		}
		if v, ok := drafts[FieldCategory]; ok {
			cat := model.StallCategory(sanitizer.NormalizeToken(v))
			patch.Category = &cat
		}
		if v, ok := drafts[FieldAvailable]; ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				patch.IsAvailable = &b
			}
		}
		if g, changed := rectFromDrafts(st.Geometry, drafts); changed {
			patch.Geometry = &g
		}

	case state.KindZone:
		z, _ := s.Zone(ref.ID)
		if v, ok := drafts[FieldLabel]; ok {
			label := sanitizer.NormalizeName(v)
			patch.Label = &label
		}
		if v, ok := drafts[FieldZoneType]; ok {
			t := model.ZoneType(sanitizer.NormalizeToken(v))
			patch.ZoneType = &t
		}
		if g, changed := rectFromDrafts(z.Geometry, drafts); changed {
			patch.Geometry = &g
		}

	case state.KindInfluence:
		inf, _ := s.Influence(ref.ID)
		if v, ok := drafts[FieldInfluenceType]; ok {
			t := model.InfluenceType(sanitizer.NormalizeToken(v))
			patch.InfluenceType = &t
		}
		center := geometry.Point{X: inf.X, Y: inf.Y}
		moved := false
		if x, ok := parseFloatDraft(drafts, FieldX); ok {
			center.X = x
			moved = true
		}
		if y, ok := parseFloatDraft(drafts, FieldY); ok {
			center.Y = y
			moved = true
		}
		if moved {
			patch.Center = &center
		}
		if r, ok := parseFloatDraft(drafts, FieldRadius); ok {
			r = math.Max(r, 0)
			patch.Radius = &r
		}
		if v, ok := drafts[FieldIntensity]; ok {
			intensity := sanitizer.IntensityFromFloat(ParseNumber(v))
			patch.Intensity = &intensity
		}
		if v, ok := drafts[FieldFalloff]; ok {
			f := model.Falloff(strings.ToLower(strings.TrimSpace(v)))
			patch.Falloff = &f
		}
	}

	return patch
}

// rectFromDrafts overlays parsable geometry drafts on current. Unparsable
// coordinates keep their current value; sizes never go negative.
func rectFromDrafts(current geometry.Rect, drafts map[Field]string) (geometry.Rect, bool) {
	r := current
	changed := false
	for _, f := range []Field{FieldX, FieldY, FieldW, FieldH} {
		v, ok := parseFloatDraft(drafts, f)
		if !ok {
			continue
		}
		changed = true
		switch f {
		case FieldX:
			r.X = v
		case FieldY:
			r.Y = v
		case FieldW:
			r.W = math.Max(v, 0)
		case FieldH:
			r.H = math.Max(v, 0)
		}
	}
	return r, changed
}

func parseFloatDraft(drafts map[Field]string, f Field) (float64, bool) {
	v, ok := drafts[f]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleanNumber(v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func sameRef(a, b *state.EntityRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Remap follows a stall target through a temporary-to-durable id change so
// pending drafts stay attached to it.
func Remap(p Panel, ids map[int64]int64) Panel {
	if p.Target == nil {
		return p
	}
	id, ok := p.Target.StallID()
	if !ok {
		return p
	}
	if durable, ok := ids[id]; ok {
		ref := state.StallRef(durable)
		p.Target = &ref
	}
	return p
}
