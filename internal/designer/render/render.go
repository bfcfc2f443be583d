package render

import (
	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

const (
	ZoneOpacity        = 0.7
	InfluenceOpacity   = 0.25
	UnavailableOpacity = 0.4
	InfluenceFadeStop  = 70

	// A stall shows its price only when both sides exceed this.
	PriceLabelMinSide = 4.0
)

const (
	colorSelected  = "#3B82F6"
	colorStroke    = "#D1D5DB"
	colorHighlight = "#1D4ED8"
	colorPreview   = "#3B82F6"
	colorGray      = "#9CA3AF"
)

var stallFills = map[model.StallCategory]string{
	model.CategoryFood:    "#10B981",
	model.CategorySponsor: "#8B5CF6",
	model.CategoryAnchor:  "#F59E0B",
}

var zoneFills = map[model.ZoneType]string{
	model.ZoneStage:    "#A855F7",
	model.ZoneEntrance: "#F97316",
	model.ZoneWalkway:  "#E5E7EB",
}

var influenceColors = map[model.InfluenceType]string{
	model.InfluenceNoise:    "#EF4444",
	model.InfluenceFacility: "#3B82F6",
	model.InfluenceTraffic:  "#22C55E",
}

// Options tune a render. The zero value renders in edit mode with a
// handle radius of 1.
type Options struct {
	View         ViewMode
	HandleRadius float64
}

// Render builds the scene for s. It never fails: malformed geometry was
// already replaced with a default rectangle when the registry was loaded.
func Render(s state.State, opts Options) Scene {
	if !opts.View.Valid() {
		opts.View = ViewEdit
	}
	if opts.HandleRadius <= 0 {
		opts.HandleRadius = 1
	}
	edit := opts.View == ViewEdit

	scene := Scene{
		View:       opts.View,
		Width:      geometry.NominalWidth,
		Height:     geometry.NominalHeight,
		Zones:      make([]ZoneShape, 0, len(s.Zones)),
		Influences: make([]InfluenceShape, 0, len(s.Influences)),
		Stalls:     make([]StallShape, 0, len(s.Stalls)),
	}

	for _, z := range s.Zones {
		scene.Zones = append(scene.Zones, ZoneShape{
			Ref:       z.Ref(),
			Rect:      z.Geometry,
			Fill:      colorOr(zoneFills, z.Type),
			Opacity:   ZoneOpacity,
			Label:     z.Label,
			Highlight: edit && s.IsSelected(z.Ref()),
		})
	}

	for _, inf := range s.Influences {
		shape := InfluenceShape{
			Ref:          inf.Ref(),
			Center:       geometry.Point{X: inf.X, Y: inf.Y},
			Radius:       inf.Radius,
			Color:        colorOr(influenceColors, inf.Type),
			Opacity:      InfluenceOpacity,
			GradientStop: inf.Intensity,
			FadeStop:     InfluenceFadeStop,
			Falloff:      string(inf.Falloff),
			Highlight:    edit && s.IsSelected(inf.Ref()),
		}
		if edit {
			h := opts.HandleRadius
			shape.Handle = &geometry.Rect{X: inf.X - h, Y: inf.Y - h, W: 2 * h, H: 2 * h}
		}
		scene.Influences = append(scene.Influences, shape)
	}

	for _, st := range s.Stalls {
		scene.Stalls = append(scene.Stalls, stallShape(st, edit && s.IsSelected(st.Ref())))
	}

	if edit && s.Gesture.Drawing != nil {
		scene.Preview = previewShape(s.Gesture.Drawing.Rect(), s.Mode.Draw)
	}

	if len(s.Stalls) == 0 && len(s.Zones) == 0 && s.Gesture.Drawing == nil {
		p := EmptyPlaceholder
		scene.Placeholder = &p
	}

	return scene
}

func stallShape(st state.Stall, selected bool) StallShape {
	shape := StallShape{
		Ref:     st.Ref(),
		Rect:    st.Geometry,
		Fill:    colorOr(stallFills, st.Category),
		Stroke:  colorStroke,
		Opacity: 1,
		Name:    st.Name,
	}
	if selected {
		shape.Fill = colorSelected
		shape.Stroke = colorHighlight
		shape.Highlight = true
	}
	if !st.IsAvailable {
		shape.Opacity = UnavailableOpacity
	}
	if st.Geometry.W > PriceLabelMinSide && st.Geometry.H > PriceLabelMinSide {
		shape.PriceLabel = state.FormatPrice(st.PriceCents)
	}
	return shape
}

func previewShape(r geometry.Rect, mode state.DrawMode) *PreviewShape {
	p := &PreviewShape{Stroke: colorPreview, Dashed: true}
	if mode == state.DrawInfluence {
		c := geometry.CircleFromRect(r)
		p.Circle = &c
		return p
	}
	p.Rect = &r
	return p
}

func colorOr[K comparable](palette map[K]string, key K) string {
	if c, ok := palette[key]; ok {
		return c
	}
	return colorGray
}
