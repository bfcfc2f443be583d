// Package render projects designer state into a Scene of drawable shapes.
// Rendering is strictly downstream of the state and never changes it.
package render

import (
	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
)

type ViewMode string

const (
	ViewEdit    ViewMode = "edit"
	ViewPreview ViewMode = "preview"
)

func (v ViewMode) Valid() bool {
	return v == ViewEdit || v == ViewPreview
}

// Scene is the layered output, in percentage units. Layers are listed bottom
// to top: zones, influences, stalls, then the draw preview.
type Scene struct {
	View        ViewMode         `json:"view"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Zones       []ZoneShape      `json:"zones"`
	Influences  []InfluenceShape `json:"influences"`
	Stalls      []StallShape     `json:"stalls"`
	Preview     *PreviewShape    `json:"preview,omitempty"`
	Placeholder *Placeholder     `json:"placeholder,omitempty"`
}

type ZoneShape struct {
	Ref       state.EntityRef `json:"ref"`
	Rect      geometry.Rect   `json:"rect"`
	Fill      string          `json:"fill"`
	Opacity   float64         `json:"opacity"`
	Label     string          `json:"label"`
	Highlight bool            `json:"highlight,omitempty"`
}

// InfluenceShape is a radial gradient from Color at GradientStop percent of
// the radius, fading to transparent at FadeStop percent.
type InfluenceShape struct {
	Ref          state.EntityRef `json:"ref"`
	Center       geometry.Point  `json:"center"`
	Radius       float64         `json:"radius"`
	Color        string          `json:"color"`
	Opacity      float64         `json:"opacity"`
	GradientStop int             `json:"gradientStop"`
	FadeStop     int             `json:"fadeStop"`
	Falloff      string          `json:"falloff"`
	Handle       *geometry.Rect  `json:"handle,omitempty"`
	Highlight    bool            `json:"highlight,omitempty"`
}

type StallShape struct {
	Ref        state.EntityRef `json:"ref"`
	Rect       geometry.Rect   `json:"rect"`
	Fill       string          `json:"fill"`
	Stroke     string          `json:"stroke"`
	Opacity    float64         `json:"opacity"`
	Name       string          `json:"name"`
	PriceLabel string          `json:"priceLabel,omitempty"`
	Highlight  bool            `json:"highlight,omitempty"`
}

// PreviewShape is the in-progress draw. Circle is set instead of Rect when
// the draw mode is INFLUENCE.
type PreviewShape struct {
	Rect   *geometry.Rect   `json:"rect,omitempty"`
	Circle *geometry.Circle `json:"circle,omitempty"`
	Stroke string           `json:"stroke"`
	Dashed bool             `json:"dashed"`
}

type Placeholder struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

var EmptyPlaceholder = Placeholder{Title: "Empty Layout", Subtitle: "Draw to add elements"}
