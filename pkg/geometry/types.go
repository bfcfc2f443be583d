// Package geometry holds the percentage-space rectangle model used by the
// designer and its conversions to the persisted representations.
package geometry

import "math"

// MinDrawSize is the smallest width or height, in percent, a drawn rectangle
// may have to be committed.
const MinDrawSize = 0.5

// Point is a position in percentage space.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Rect is an axis-aligned rectangle in percentage units (0-100) of the
// canvas bounding box.
type Rect struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	W float64 `json:"w" msgpack:"w"`
	H float64 `json:"h" msgpack:"h"`
}

// DefaultRect is substituted for geometry that cannot be parsed.
var DefaultRect = Rect{X: 0, Y: 0, W: 5, H: 5}

func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Centroid returns the center of the rectangle.
func (r Rect) Centroid() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// MoveTo returns r with its origin at p. Size is untouched.
func (r Rect) MoveTo(p Point) Rect {
	r.X = p.X
	r.Y = p.Y
	return r
}

// Normalized floors negative sizes at zero.
func (r Rect) Normalized() Rect {
	r.W = math.Max(r.W, 0)
	r.H = math.Max(r.H, 0)
	return r
}

// TooSmall reports whether r is below the minimum committable size.
func (r Rect) TooSmall() bool {
	return r.W < MinDrawSize || r.H < MinDrawSize
}

// Bounds is the on-screen bounding box of the canvas at the time of a pointer event.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// PointerEvent carries client coordinates of a pointer event.
type PointerEvent struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
}

// ToPercent maps a pointer event into percentage space against the given
// bounds. Callers are expected to pass the bounds measured for this event.
// Degenerate bounds map to the origin.
func ToPercent(ev PointerEvent, b Bounds) Point {
	if b.Width <= 0 || b.Height <= 0 {
		return Point{}
	}
	return Point{
		X: (ev.ClientX - b.Left) / b.Width * 100,
		Y: (ev.ClientY - b.Top) / b.Height * 100,
	}
}

// RectFromDrag normalizes a drag from start to end into a rectangle with
// non-negative size regardless of drag direction.
func RectFromDrag(start, end Point) Rect {
	return Rect{
		X: math.Min(start.X, end.X),
		Y: math.Min(start.Y, end.Y),
		W: math.Abs(end.X - start.X),
		H: math.Abs(end.Y - start.Y),
	}
}

// Circle is a center and radius in percentage units.
type Circle struct {
	Center Point   `json:"center" msgpack:"center"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// CircleFromRect derives the influence circle of a drag rectangle: the
// centroid and half of the longer side. A wide short drag still yields a
// circle, never an ellipse.
func CircleFromRect(r Rect) Circle {
	return Circle{
		Center: r.Centroid(),
		Radius: math.Max(r.W, r.H) / 2,
	}
}

// BoundingRect returns the square enclosing the circle.
func (c Circle) BoundingRect() Rect {
	return Rect{
		X: c.Center.X - c.Radius,
		Y: c.Center.Y - c.Radius,
		W: c.Radius * 2,
		H: c.Radius * 2,
	}
}
