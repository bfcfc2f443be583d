package geometry

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPercent(t *testing.T) {
	tests := []struct {
		name   string
		event  PointerEvent
		bounds Bounds
		want   Point
	}{
		{
			name:   "origin of canvas",
			event:  PointerEvent{ClientX: 100, ClientY: 50},
			bounds: Bounds{Left: 100, Top: 50, Width: 800, Height: 400},
			want:   Point{X: 0, Y: 0},
		},
		{
			name:   "center of canvas",
			event:  PointerEvent{ClientX: 500, ClientY: 250},
			bounds: Bounds{Left: 100, Top: 50, Width: 800, Height: 400},
			want:   Point{X: 50, Y: 50},
		},
		{
			name:   "scrolled canvas",
			event:  PointerEvent{ClientX: 500, ClientY: 250},
			bounds: Bounds{Left: 300, Top: -150, Width: 800, Height: 400},
			want:   Point{X: 25, Y: 100},
		},
		{
			name:   "degenerate bounds",
			event:  PointerEvent{ClientX: 10, ClientY: 10},
			bounds: Bounds{},
			want:   Point{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPercent(tt.event, tt.bounds)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestRectFromDrag_AnyDirection(t *testing.T) {
	want := Rect{X: 10, Y: 20, W: 30, H: 40}
	corners := [][2]Point{
		{{X: 10, Y: 20}, {X: 40, Y: 60}},
		{{X: 40, Y: 60}, {X: 10, Y: 20}},
		{{X: 40, Y: 20}, {X: 10, Y: 60}},
		{{X: 10, Y: 60}, {X: 40, Y: 20}},
	}
	for _, c := range corners {
		assert.Equal(t, want, RectFromDrag(c[0], c[1]))
	}
}

func TestRect_TooSmall(t *testing.T) {
	assert.True(t, Rect{W: 0.49, H: 10}.TooSmall())
	assert.True(t, Rect{W: 10, H: 0.2}.TooSmall())
	assert.False(t, Rect{W: 0.5, H: 0.5}.TooSmall())
	assert.False(t, Rect{W: 10, H: 10}.TooSmall())
}

func TestRect_Normalized(t *testing.T) {
	assert.Equal(t, Rect{X: -2, Y: 3, W: 0, H: 4}, Rect{X: -2, Y: 3, W: -1, H: 4}.Normalized())
	assert.Equal(t, Rect{X: 1, Y: 1, W: 0, H: 0}, Rect{X: 1, Y: 1, W: -5, H: -3}.Normalized())
	assert.Equal(t, Rect{W: 10, H: 10}, Rect{W: 10, H: 10}.Normalized())
}

func TestCircleFromRect(t *testing.T) {
	c := CircleFromRect(Rect{X: 10, Y: 10, W: 20, H: 10})
	assert.Equal(t, Point{X: 20, Y: 15}, c.Center)
	assert.Equal(t, 10.0, c.Radius)

	wide := CircleFromRect(Rect{X: 0, Y: 0, W: 40, H: 2})
	assert.Equal(t, 20.0, wide.Radius)
	assert.Equal(t, Rect{X: 0, Y: -19, W: 40, H: 40}, wide.BoundingRect())
}

func TestParseGeometry_RoundTrip(t *testing.T) {
	rects := []Rect{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 12.5, Y: 33.333333333333336, W: 7.25, H: 0.5},
		{X: 99.99, Y: 0.01, W: 100, H: 100},
	}
	for _, r := range rects {
		assert.Equal(t, r, ParseGeometry(Stringify(r)))

		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Equal(t, r, ParseGeometry(json.RawMessage(b)))
	}
}

func TestParseGeometry_Inputs(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	tests := []struct {
		name string
		raw  any
		want Rect
	}{
		{name: "struct", raw: r, want: r},
		{name: "pointer", raw: &r, want: r},
		{name: "nil pointer", raw: (*Rect)(nil), want: DefaultRect},
		{name: "json string", raw: `{"x":1,"y":2,"w":3,"h":4}`, want: r},
		{name: "decoded object", raw: map[string]any{"x": 1.0, "y": 2.0, "w": 3.0, "h": 4.0}, want: r},
		{name: "string-encoded raw message", raw: json.RawMessage(`"{\"x\":1,\"y\":2,\"w\":3,\"h\":4}"`), want: r},
		{name: "malformed string", raw: `{"x":1,`, want: DefaultRect},
		{name: "empty string", raw: "", want: DefaultRect},
		{name: "array", raw: `[1,2,3,4]`, want: DefaultRect},
		{name: "null raw message", raw: json.RawMessage(`null`), want: DefaultRect},
		{name: "negative size", raw: `{"x":1,"y":2,"w":-3,"h":4}`, want: DefaultRect},
		{name: "unsupported type", raw: 42, want: DefaultRect},
		{name: "nil", raw: nil, want: DefaultRect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGeometry(tt.raw))
		})
	}
}

func TestStringifyRaw(t *testing.T) {
	assert.Equal(t, `{"x":1,"y":2,"w":3,"h":4}`, StringifyRaw(json.RawMessage(`"{\"x\":1,\"y\":2,\"w\":3,\"h\":4}"`)))
	assert.Equal(t, `{"x":1, "y":2}`, StringifyRaw(json.RawMessage(`"{\"x\":1, \"y\":2}"`)), "string geometry passes through untouched")
	assert.Equal(t, `{"x":1,"y":2,"w":3,"h":4}`, StringifyRaw(json.RawMessage(`{ "x": 1, "y": 2, "w": 3, "h": 4 }`)))
	assert.Equal(t, "", StringifyRaw(nil))
	assert.Equal(t, "", StringifyRaw(json.RawMessage(`null`)))
}

func TestCanvas_InfluenceConversion(t *testing.T) {
	circle := Circle{Center: Point{X: 50, Y: 50}, Radius: 10}

	px := NominalCanvas.ToPixels(circle)
	assert.Equal(t, PixelCircle{X: 500, Y: 300, Radius: 100}, px)

	back := NominalCanvas.FromPixels(px)
	assert.InDelta(t, circle.Center.X, back.Center.X, 1e-9)
	assert.InDelta(t, circle.Center.Y, back.Center.Y, 1e-9)
	assert.InDelta(t, circle.Radius, back.Radius, 1e-9)
}

func TestCanvas_RadiusUsesWidth(t *testing.T) {
	c := Canvas{Width: 2000, Height: 100}
	px := c.ToPixels(Circle{Center: Point{X: 10, Y: 10}, Radius: 5})
	assert.Equal(t, 100.0, px.Radius)
	assert.Equal(t, 10.0, px.Y)
}

func TestCanvas_FromPixelsDefaultsMissingSize(t *testing.T) {
	circle := Canvas{}.FromPixels(PixelCircle{X: 250, Y: 150, Radius: 50})
	assert.InDelta(t, 25, circle.Center.X, 1e-9)
	assert.InDelta(t, 25, circle.Center.Y, 1e-9)
	assert.InDelta(t, 5, circle.Radius, 1e-9)
	assert.False(t, math.IsNaN(circle.Radius))
}

func TestRect_MoveToKeepsSize(t *testing.T) {
	r := Rect{X: 1, Y: 1, W: 3.3, H: 7.7}
	moved := r.MoveTo(Point{X: 50, Y: 60})
	assert.Equal(t, r.W, moved.W)
	assert.Equal(t, r.H, moved.H)
	assert.Equal(t, Point{X: 50, Y: 60}, moved.Origin())
}
