package panel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
	"stallmap/pkg/sanitizer"
)

func selectedStall() state.State {
	s := state.New(state.Hall{EventID: 1, Name: "Hall A"})
	area := 80
	s.Stalls = []state.Stall{{
		ID:          state.TempIDThreshold + 5,
		Name:        "S-1",
		Geometry:    geometry.Rect{X: 1, Y: 2, W: 10, H: 10},
		PriceCents:  500000,
		Size:        model.SizeMedium,
		Category:    model.CategoryRetail,
		IsAvailable: true,
		SqFt:        &area,
	}}
	s.Zones = []state.Zone{{ID: "z1", Type: model.ZoneEntrance, Geometry: geometry.Rect{X: 0, Y: 90, W: 10, H: 10}, Label: "Entrance"}}
	s.Influences = []state.Influence{{ID: "i1", Type: model.InfluenceNoise, X: 50, Y: 50, Radius: 5, Intensity: 80, Falloff: model.FalloffLinear}}
	ref := s.Stalls[0].Ref()
	s.Selected = &ref
	return s
}

func TestPanel_CommitParsesLeniently(t *testing.T) {
	tests := []struct {
		name   string
		field  Field
		value  string
		assert func(t *testing.T, st state.Stall)
	}{
		{
			name: "price in major units", field: FieldPrice, value: "1500",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, int64(150000), st.PriceCents) },
		},
		{
			name: "price with separators and decimals", field: FieldPrice, value: " 1,500.25 ",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, int64(150025), st.PriceCents) },
		},
		{
			name: "empty price is zero", field: FieldPrice, value: "",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, int64(0), st.PriceCents) },
		},
		{
			name: "garbage price is zero", field: FieldPrice, value: "abc",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, int64(0), st.PriceCents) },
		},
		{
			name: "partial decimal price", field: FieldPrice, value: "12.",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, int64(1200), st.PriceCents) },
		},
		{
			name: "area", field: FieldSqFt, value: "120.9",
			assert: func(t *testing.T, st state.Stall) {
				require.NotNil(t, st.SqFt)
				assert.Equal(t, 120, *st.SqFt)
			},
		},
		{
			name: "empty area is unset", field: FieldSqFt, value: "",
			assert: func(t *testing.T, st state.Stall) { assert.Nil(t, st.SqFt) },
		},
		{
			name: "garbage area is unset", field: FieldSqFt, value: "big",
			assert: func(t *testing.T, st state.Stall) { assert.Nil(t, st.SqFt) },
		},
		{
			name: "bad geometry keeps value", field: FieldW, value: "-",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, 10.0, st.Geometry.W) },
		},
		{
			name: "negative width clamps", field: FieldW, value: "-3",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, 0.0, st.Geometry.W) },
		},
		{
			name: "geometry x", field: FieldX, value: "42.5",
			assert: func(t *testing.T, st state.Stall) {
				assert.Equal(t, geometry.Rect{X: 42.5, Y: 2, W: 10, H: 10}, st.Geometry)
			},
		},
		{
			name: "lower case enum", field: FieldCategory, value: "food",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, model.CategoryFood, st.Category) },
		},
		{
			name: "unknown enum keeps value", field: FieldSize, value: "XL",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, model.SizeMedium, st.Size) },
		},
		{
			name: "availability toggle", field: FieldAvailable, value: "false",
			assert: func(t *testing.T, st state.Stall) { assert.False(t, st.IsAvailable) },
		},
		{
			name: "name is trimmed", field: FieldName, value: "  Corner   Unit ",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, "Corner Unit", st.Name) },
		},
		{
			name: "blank name keeps previous", field: FieldName, value: "   ",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, "S-1", st.Name) },
		},
		{
			name: "long name is cut to store limit", field: FieldName, value: strings.Repeat("é", 150),
			assert: func(t *testing.T, st state.Stall) {
				assert.Equal(t, strings.Repeat("é", sanitizer.MaxNameLength), st.Name)
			},
		},
		{
			name: "huge price clamps instead of wrapping", field: FieldPrice, value: "1e20",
			assert: func(t *testing.T, st state.Stall) { assert.Equal(t, int64(maxPriceCents), st.PriceCents) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := selectedStall()
			p, s := Sync(Panel{}, s)
			require.True(t, p.Open())

			p = p.Set(tt.field, tt.value)
			before := s.Stalls[0]
			assert.Equal(t, before, s.Stalls[0], "drafts do not touch the registry")

			p, s = Commit(p, s)
			assert.False(t, p.Dirty())
			tt.assert(t, s.Stalls[0])
		})
	}
}

func TestPanel_CloseKeepsEdits(t *testing.T) {
	s := selectedStall()
	p, s := Sync(Panel{}, s)
	p = p.Set(FieldPrice, "1500")

	p, s = Close(p, s)

	assert.False(t, p.Open())
	assert.Nil(t, s.Selected)
	assert.Equal(t, int64(150000), s.Stalls[0].PriceCents)
}

func TestPanel_DeleteClearsSelection(t *testing.T) {
	s := selectedStall()
	p, s := Sync(Panel{}, s)
	p = p.Set(FieldName, "doomed")

	p, s = Delete(p, s)

	assert.False(t, p.Open())
	assert.Empty(t, s.Stalls)
	assert.Nil(t, s.Selected)
}

func TestPanel_SyncCommitsOnSelectionChange(t *testing.T) {
	s := selectedStall()
	p, s := Sync(Panel{}, s)
	p = p.Set(FieldName, "Renamed")

	zone := s.Zones[0].Ref()
	s.Selected = &zone
	p, s = Sync(p, s)

	assert.Equal(t, "Renamed", s.Stalls[0].Name)
	require.NotNil(t, p.Target)
	assert.Equal(t, zone, *p.Target)
	assert.False(t, p.Dirty())
}

func TestPanel_ZoneAndInfluence(t *testing.T) {
	s := selectedStall()
	zone := s.Zones[0].Ref()
	s.Selected = &zone
	p, s := Sync(Panel{}, s)
	p = p.Set(FieldLabel, "North Gate").Set(FieldZoneType, "stage")
	p, s = Commit(p, s)
	assert.Equal(t, "North Gate", s.Zones[0].Label)
	assert.Equal(t, model.ZoneStage, s.Zones[0].Type)

	inf := s.Influences[0].Ref()
	s.Selected = &inf
	p, s = Sync(p, s)
	p = p.Set(FieldIntensity, "250").Set(FieldFalloff, "EXPONENTIAL").Set(FieldX, "60").Set(FieldRadius, "x")
	_, s = Commit(p, s)

	got := s.Influences[0]
	assert.Equal(t, 100, got.Intensity)
	assert.Equal(t, model.FalloffExponential, got.Falloff)
	assert.Equal(t, 60.0, got.X)
	assert.Equal(t, 50.0, got.Y)
	assert.Equal(t, 5.0, got.Radius)

	p, s = Sync(Panel{}, s)
	_, s = Commit(p.Set(FieldIntensity, "1e20"), s)
	assert.Equal(t, 100, s.Influences[0].Intensity)

	p, s = Sync(Panel{}, s)
	_, s = Commit(p.Set(FieldIntensity, "-1e20"), s)
	assert.Equal(t, 0, s.Influences[0].Intensity)
}

func TestPanel_CommitOnDeletedTargetDropsDrafts(t *testing.T) {
	s := selectedStall()
	p, s := Sync(Panel{}, s)
	p = p.Set(FieldName, "ghost")
	s = state.Delete(s, *p.Target)

	p, next := Commit(p, s)
	assert.False(t, p.Dirty())
	assert.Empty(t, next.Stalls)
}

func TestView(t *testing.T) {
	s := selectedStall()
	p, s := Sync(Panel{}, s)
	p = p.Set(FieldPrice, "7")

	form, ok := View(p, s)
	require.True(t, ok)
	assert.Equal(t, *s.Selected, form.Target)

	values := map[Field]FieldValue{}
	for _, fv := range form.Fields {
		values[fv.Field] = fv
	}
	assert.Equal(t, "S-1", values[FieldName].Value)
	assert.Equal(t, "7", values[FieldPrice].Value)
	assert.True(t, values[FieldPrice].Draft)
	assert.Equal(t, "80", values[FieldSqFt].Value)
	assert.Equal(t, "1.0", values[FieldX].Value)
	assert.Equal(t, []string{"SMALL", "MEDIUM", "LARGE"}, values[FieldSize].Options)
	assert.Len(t, form.Fields, len(Fields(state.KindStall)))

	_, ok = View(Panel{}, s)
	assert.False(t, ok)
}

func TestPanel_Supports(t *testing.T) {
	s := selectedStall()
	p, _ := Sync(Panel{}, s)
	assert.True(t, p.Supports(FieldPrice))
	assert.False(t, p.Supports(FieldLabel))
	assert.False(t, Panel{}.Supports(FieldName))
}

func TestRemap(t *testing.T) {
	s := selectedStall()
	temp := s.Stalls[0].ID
	p, _ := Sync(Panel{}, s)
	p = p.Set(FieldName, "A-9")

	p = Remap(p, map[int64]int64{temp: 42})
	require.NotNil(t, p.Target)
	assert.Equal(t, state.StallRef(42), *p.Target)
	assert.Equal(t, "A-9", p.Drafts[FieldName])

	zone := state.EntityRef{Kind: state.KindZone, ID: "z1"}
	assert.Equal(t, zone, *Remap(Panel{Target: &zone}, map[int64]int64{temp: 42}).Target)
	assert.False(t, Remap(Panel{}, map[int64]int64{temp: 42}).Open())
}
