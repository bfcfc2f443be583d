package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatSVG     Format = "svg"
	FormatMsgpack Format = "msgpack"
)

func (f Format) Valid() bool {
	return f == FormatJSON || f == FormatSVG || f == FormatMsgpack
}

func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// Encode serializes the scene in the requested format.
func Encode(scene Scene, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return EncodeJSON(scene)
	case FormatSVG:
		return []byte(EncodeSVG(scene)), nil
	case FormatMsgpack:
		return EncodeMsgpack(scene)
	}
	return nil, fmt.Errorf("unsupported render format %q", f)
}

func EncodeJSON(scene Scene) ([]byte, error) {
	return json.Marshal(scene)
}

// EncodeMsgpack uses the json field names so both encodings share one shape.
func EncodeMsgpack(scene Scene) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(scene); err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeSVG draws the scene on the nominal pixel canvas.
func EncodeSVG(scene Scene) string {
	canvas := geometry.Canvas{Width: scene.Width, Height: scene.Height}.OrNominal()

	var elements []string
	var defs []string
	for _, z := range scene.Zones {
		elements = append(elements, zoneSVG(canvas, z)...)
	}
	for i, inf := range scene.Influences {
		id := "influence-" + strconv.Itoa(i)
		defs = append(defs, gradientSVG(id, inf))
		elements = append(elements, influenceSVG(canvas, id, inf)...)
	}
	for _, st := range scene.Stalls {
		elements = append(elements, stallSVG(canvas, st)...)
	}
	if scene.Preview != nil {
		elements = append(elements, previewSVG(canvas, *scene.Preview))
	}
	if scene.Placeholder != nil {
		elements = append(elements, placeholderSVG(canvas, *scene.Placeholder)...)
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(canvas.Width), formatFloat(canvas.Height), formatFloat(canvas.Width), formatFloat(canvas.Height)))
	builder.WriteString("\n")

	if len(defs) > 0 {
		builder.WriteString("  <defs>\n")
		for _, d := range defs {
			builder.WriteString("    ")
			builder.WriteString(d)
			builder.WriteString("\n")
		}
		builder.WriteString("  </defs>\n")
	}

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

func zoneSVG(c geometry.Canvas, z ZoneShape) []string {
	r := c.RectToPixels(z.Rect)
	stroke := "none"
	if z.Highlight {
		stroke = colorHighlight
	}
	out := []string{fmt.Sprintf(`<rect data-ref="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s" stroke="%s" />`,
		esc(z.Ref.String()), formatFloat(r.X), formatFloat(r.Y), formatFloat(r.W), formatFloat(r.H), z.Fill, formatFloat(z.Opacity), stroke)}
	if z.Label != "" {
		out = append(out, textSVG(r.X+r.W/2, r.Y+r.H/2, 12, "#374151", z.Label))
	}
	return out
}

func gradientSVG(id string, inf InfluenceShape) string {
	var stops strings.Builder
	stops.WriteString(fmt.Sprintf(`<stop offset="%d%%" stop-color="%s" stop-opacity="1" />`, inf.GradientStop, inf.Color))
	if inf.Falloff == string(model.FalloffExponential) {
		mid := (inf.GradientStop + inf.FadeStop) / 2
		stops.WriteString(fmt.Sprintf(`<stop offset="%d%%" stop-color="%s" stop-opacity="0.3" />`, mid, inf.Color))
	}
	stops.WriteString(fmt.Sprintf(`<stop offset="%d%%" stop-color="%s" stop-opacity="0" />`, inf.FadeStop, inf.Color))
	return fmt.Sprintf(`<radialGradient id="%s">%s</radialGradient>`, id, stops.String())
}

func influenceSVG(c geometry.Canvas, id string, inf InfluenceShape) []string {
	px := c.ToPixels(geometry.Circle{Center: inf.Center, Radius: inf.Radius})
	out := []string{fmt.Sprintf(`<circle data-ref="%s" cx="%s" cy="%s" r="%s" fill="url(#%s)" fill-opacity="%s" pointer-events="none" />`,
		esc(inf.Ref.String()), formatFloat(px.X), formatFloat(px.Y), formatFloat(px.Radius), id, formatFloat(inf.Opacity))}
	if inf.Handle != nil {
		h := c.RectToPixels(*inf.Handle)
		stroke := inf.Color
		if inf.Highlight {
			stroke = colorHighlight
		}
		out = append(out, fmt.Sprintf(`<rect data-ref="%s" x="%s" y="%s" width="%s" height="%s" fill="#FFFFFF" stroke="%s" />`,
			esc(inf.Ref.String()), formatFloat(h.X), formatFloat(h.Y), formatFloat(h.W), formatFloat(h.H), stroke))
	}
	return out
}

func stallSVG(c geometry.Canvas, st StallShape) []string {
	r := c.RectToPixels(st.Rect)
	width := "1"
	if st.Highlight {
		width = "2"
	}
	out := []string{fmt.Sprintf(`<rect data-ref="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="%s" />`,
		esc(st.Ref.String()), formatFloat(r.X), formatFloat(r.Y), formatFloat(r.W), formatFloat(r.H), st.Fill, formatFloat(st.Opacity), st.Stroke, width)}
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	if st.PriceLabel == "" {
		return append(out, textSVG(cx, cy, 10, "#111827", st.Name))
	}
	return append(out,
		textSVG(cx, cy-6, 10, "#111827", st.Name),
		textSVG(cx, cy+8, 9, "#374151", st.PriceLabel),
	)
}

func previewSVG(c geometry.Canvas, p PreviewShape) string {
	dash := ""
	if p.Dashed {
		dash = ` stroke-dasharray="4 2"`
	}
	if p.Circle != nil {
		px := c.ToPixels(*p.Circle)
		return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="0.1" stroke="%s"%s />`,
			formatFloat(px.X), formatFloat(px.Y), formatFloat(px.Radius), p.Stroke, p.Stroke, dash)
	}
	r := c.RectToPixels(*p.Rect)
	return fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="0.1" stroke="%s"%s />`,
		formatFloat(r.X), formatFloat(r.Y), formatFloat(r.W), formatFloat(r.H), p.Stroke, p.Stroke, dash)
}

func placeholderSVG(c geometry.Canvas, p Placeholder) []string {
	return []string{
		textSVG(c.Width/2, c.Height/2-10, 18, "#6B7280", p.Title),
		textSVG(c.Width/2, c.Height/2+14, 12, "#9CA3AF", p.Subtitle),
	}
}

func textSVG(x, y, size float64, fill, text string) string {
	return fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`,
		formatFloat(x), formatFloat(y), formatFloat(size), fill, esc(text))
}

func esc(s string) string {
	return html.EscapeString(s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
