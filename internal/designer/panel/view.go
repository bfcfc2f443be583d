package panel

import (
	"strconv"

	"stallmap/internal/designer/state"
	"stallmap/pkg/model"
)

// FieldValue is one row of the panel form.
type FieldValue struct {
	Field   Field    `json:"field"`
	Value   string   `json:"value"`
	Draft   bool     `json:"draft,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Form is what the panel displays for its target.
type Form struct {
	Target state.EntityRef `json:"target"`
	Fields []FieldValue    `json:"fields"`
}

// View renders the form for the panel's target. It reports false when the
// panel is closed or the target is gone.
func View(p Panel, s state.State) (Form, bool) {
	if p.Target == nil || !s.Exists(*p.Target) {
		return Form{}, false
	}

	current := currentValues(*p.Target, s)
	form := Form{Target: *p.Target}
	for _, f := range fieldsByKind[p.Target.Kind] {
		fv := FieldValue{Field: f, Value: current[f], Options: options(f)}
		if draft, ok := p.Drafts[f]; ok {
			fv.Value = draft
			fv.Draft = true
		}
		form.Fields = append(form.Fields, fv)
	}
	return form, true
}

func currentValues(ref state.EntityRef, s state.State) map[Field]string {
	values := map[Field]string{}
	switch ref.Kind {
	case state.KindStall:
		id, _ := ref.StallID()
		st, _ := s.Stall(id)
		values[FieldName] = st.Name
		values[FieldSize] = string(st.Size)
		values[FieldCategory] = string(st.Category)
		values[FieldPrice] = strconv.FormatFloat(float64(st.PriceCents)/100, 'f', 0, 64)
		if st.SqFt != nil {
			values[FieldSqFt] = strconv.Itoa(*st.SqFt)
		} else {
			values[FieldSqFt] = ""
		}
		values[FieldAvailable] = strconv.FormatBool(st.IsAvailable)
		values[FieldX] = oneDecimal(st.Geometry.X)
		values[FieldY] = oneDecimal(st.Geometry.Y)
		values[FieldW] = oneDecimal(st.Geometry.W)
		values[FieldH] = oneDecimal(st.Geometry.H)
	case state.KindZone:
		z, _ := s.Zone(ref.ID)
		values[FieldLabel] = z.Label
		values[FieldZoneType] = string(z.Type)
		values[FieldX] = oneDecimal(z.Geometry.X)
		values[FieldY] = oneDecimal(z.Geometry.Y)
		values[FieldW] = oneDecimal(z.Geometry.W)
		values[FieldH] = oneDecimal(z.Geometry.H)
	case state.KindInfluence:
		inf, _ := s.Influence(ref.ID)
		values[FieldInfluenceType] = string(inf.Type)
		values[FieldX] = oneDecimal(inf.X)
		values[FieldY] = oneDecimal(inf.Y)
		values[FieldRadius] = oneDecimal(inf.Radius)
		values[FieldIntensity] = strconv.Itoa(inf.Intensity)
		values[FieldFalloff] = string(inf.Falloff)
	}
	return values
}

func options(f Field) []string {
	switch f {
	case FieldSize:
		return stringsOf(model.StallSizes)
	case FieldCategory:
		return stringsOf(model.StallCategories)
	case FieldZoneType:
		return stringsOf(model.ZoneTypes)
	case FieldInfluenceType:
		return stringsOf(model.InfluenceTypes)
	case FieldFalloff:
		return []string{string(model.FalloffLinear), string(model.FalloffExponential)}
	case FieldAvailable:
		return []string{"true", "false"}
	}
	return nil
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
