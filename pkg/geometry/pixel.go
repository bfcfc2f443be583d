package geometry

const (
	NominalWidth  = 1000
	NominalHeight = 600
)

// Canvas is the nominal pixel canvas the layout configuration is expressed in.
type Canvas struct {
	Width  float64
	Height float64
}

// NominalCanvas is the canvas every saved layout configuration is written against.
var NominalCanvas = Canvas{Width: NominalWidth, Height: NominalHeight}

// OrNominal substitutes the nominal size for missing or non-positive dimensions.
func (c Canvas) OrNominal() Canvas {
	if c.Width <= 0 {
		c.Width = NominalWidth
	}
	if c.Height <= 0 {
		c.Height = NominalHeight
	}
	return c
}

// PixelCircle is an influence center and radius in pixel space.
type PixelCircle struct {
	X      float64
	Y      float64
	Radius float64
}

// ToPixels converts a percentage-space circle to pixel space.
//
// The radius is scaled by the canvas width only. Persisted layouts depend on
// this, so it is intentional and must be kept unless existing data is migrated.
func (c Canvas) ToPixels(circle Circle) PixelCircle {
	return PixelCircle{
		X:      circle.Center.X / 100 * c.Width,
		Y:      circle.Center.Y / 100 * c.Height,
		Radius: circle.Radius / 100 * c.Width,
	}
}

// FromPixels is the inverse of ToPixels, radius again on the width basis.
func (c Canvas) FromPixels(p PixelCircle) Circle {
	c = c.OrNominal()
	return Circle{
		Center: Point{X: p.X / c.Width * 100, Y: p.Y / c.Height * 100},
		Radius: p.Radius / c.Width * 100,
	}
}

// RectToPixels scales a percentage rectangle onto the canvas. Used for
// rendering; zone geometry is persisted in percentage units.
func (c Canvas) RectToPixels(r Rect) Rect {
	return Rect{
		X: r.X / 100 * c.Width,
		Y: r.Y / 100 * c.Height,
		W: r.W / 100 * c.Width,
		H: r.H / 100 * c.Height,
	}
}
