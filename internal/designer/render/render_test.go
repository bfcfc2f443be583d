package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

func layout() state.State {
	s := state.New(state.Hall{EventID: 1, Name: "Hall A"})
	s.Zones = []state.Zone{{ID: "z1", Type: model.ZoneStage, Geometry: geometry.Rect{X: 0, Y: 0, W: 50, H: 25}, Label: "Main Stage"}}
	s.Influences = []state.Influence{{ID: "i1", Type: model.InfluenceNoise, X: 50, Y: 50, Radius: 25, Intensity: 80, Falloff: model.FalloffExponential}}
	s.Stalls = []state.Stall{
		{ID: 1, Name: "A-1", Geometry: geometry.Rect{X: 0, Y: 50, W: 25, H: 25}, PriceCents: 150000, Category: model.CategoryFood, IsAvailable: true},
		{ID: 2, Name: "A-2", Geometry: geometry.Rect{X: 50, Y: 50, W: 4, H: 10}, PriceCents: 90000, Category: model.CategoryRetail, IsAvailable: false},
	}
	return s
}

func TestRender_LayersAndStyles(t *testing.T) {
	scene := Render(layout(), Options{})

	assert.Equal(t, ViewEdit, scene.View)
	require.Len(t, scene.Zones, 1)
	require.Len(t, scene.Influences, 1)
	require.Len(t, scene.Stalls, 2)
	assert.Nil(t, scene.Placeholder)
	assert.Nil(t, scene.Preview)

	assert.Equal(t, zoneFills[model.ZoneStage], scene.Zones[0].Fill)
	assert.Equal(t, ZoneOpacity, scene.Zones[0].Opacity)

	inf := scene.Influences[0]
	assert.Equal(t, influenceColors[model.InfluenceNoise], inf.Color)
	assert.Equal(t, InfluenceOpacity, inf.Opacity)
	assert.Equal(t, 80, inf.GradientStop)
	assert.Equal(t, InfluenceFadeStop, inf.FadeStop)
	require.NotNil(t, inf.Handle)
	assert.Equal(t, geometry.Rect{X: 49, Y: 49, W: 2, H: 2}, *inf.Handle)

	food := scene.Stalls[0]
	assert.Equal(t, stallFills[model.CategoryFood], food.Fill)
	assert.Equal(t, 1.0, food.Opacity)
	assert.Equal(t, "LKR 1,500", food.PriceLabel)

	narrow := scene.Stalls[1]
	assert.Equal(t, colorGray, narrow.Fill)
	assert.Equal(t, UnavailableOpacity, narrow.Opacity)
	assert.Empty(t, narrow.PriceLabel, "no price label unless both sides exceed 4")
}

func TestRender_Selection(t *testing.T) {
	s := layout()
	ref := state.StallRef(1)
	s.Selected = &ref

	scene := Render(s, Options{View: ViewEdit})
	assert.True(t, scene.Stalls[0].Highlight)
	assert.Equal(t, colorSelected, scene.Stalls[0].Fill)
	assert.False(t, scene.Stalls[1].Highlight)

	scene = Render(s, Options{View: ViewPreview})
	assert.False(t, scene.Stalls[0].Highlight)
	assert.Nil(t, scene.Influences[0].Handle)
}

func TestRender_Preview(t *testing.T) {
	s := state.New(state.Hall{})
	s.Gesture = state.Gesture{Drawing: &state.DrawGesture{Start: geometry.Point{X: 30, Y: 30}, Current: geometry.Point{X: 10, Y: 20}}}

	scene := Render(s, Options{})
	require.NotNil(t, scene.Preview)
	require.NotNil(t, scene.Preview.Rect)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, W: 20, H: 10}, *scene.Preview.Rect)
	assert.True(t, scene.Preview.Dashed)
	assert.Nil(t, scene.Placeholder, "a draw in progress is not an empty layout")

	s.Mode.Draw = state.DrawInfluence
	scene = Render(s, Options{})
	require.NotNil(t, scene.Preview.Circle)
	assert.Nil(t, scene.Preview.Rect)
	assert.Equal(t, 10.0, scene.Preview.Circle.Radius)

	scene = Render(s, Options{View: ViewPreview})
	assert.Nil(t, scene.Preview)
}

func TestRender_EmptyPlaceholder(t *testing.T) {
	scene := Render(state.New(state.Hall{}), Options{})
	require.NotNil(t, scene.Placeholder)
	assert.Equal(t, EmptyPlaceholder, *scene.Placeholder)
	assert.NotNil(t, scene.Stalls)

	s := state.New(state.Hall{})
	s.Influences = layout().Influences
	assert.NotNil(t, Render(s, Options{}).Placeholder, "influences alone still count as empty")
}

func TestRender_DoesNotMutateState(t *testing.T) {
	s := layout()
	before := layout()
	_ = Render(s, Options{})
	assert.Equal(t, before, s)
}

func TestEncodeSVG(t *testing.T) {
	s := layout()
	s.Stalls[0].Name = "Books & <Co>"
	out := EncodeSVG(Render(s, Options{}))

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `viewBox="0 0 1000 600"`)
	assert.Contains(t, out, `<radialGradient id="influence-0">`)
	assert.Contains(t, out, `cx="500" cy="300" r="250"`, "radius is scaled by width")
	assert.Contains(t, out, "Books &amp; &lt;Co&gt;")
	assert.Contains(t, out, "LKR 1,500")
	assert.True(t, strings.HasSuffix(out, "</svg>"))

	zone := strings.Index(out, `data-ref="zone:z1"`)
	influence := strings.Index(out, `data-ref="influence:i1"`)
	stall := strings.Index(out, `data-ref="stall:1"`)
	assert.True(t, zone < influence && influence < stall, "zones, then influences, then stalls")
}

func TestEncodeSVG_Placeholder(t *testing.T) {
	out := EncodeSVG(Render(state.New(state.Hall{}), Options{}))
	assert.Contains(t, out, "Empty Layout")
	assert.Contains(t, out, "Draw to add elements")
	assert.NotContains(t, out, "<defs>")
}

func TestEncode_Formats(t *testing.T) {
	scene := Render(layout(), Options{})

	js, err := Encode(scene, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"priceLabel":"LKR 1,500"`)

	mp, err := Encode(scene, FormatMsgpack)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(mp, &decoded))
	assert.Contains(t, decoded, "stalls")
	assert.Equal(t, "edit", decoded["view"])

	_, err = Encode(scene, Format("png"))
	assert.Error(t, err)

	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())
	assert.Equal(t, "application/msgpack", FormatMsgpack.ContentType())
}
