// Package state is the designer's entity registry and interaction
// controller. All mutation goes through Reducer.Reduce, a pure
// (State, Action) -> State transformation.
package state

import (
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

type DrawMode string

const (
	DrawStall     DrawMode = "STALL"
	DrawZone      DrawMode = "ZONE"
	DrawInfluence DrawMode = "INFLUENCE"
)

func (m DrawMode) Valid() bool {
	return m == DrawStall || m == DrawZone || m == DrawInfluence
}

// Mode is what the next committed draw gesture produces.
type Mode struct {
	Draw          DrawMode            `json:"drawMode"`
	ZoneType      model.ZoneType      `json:"zoneType"`
	InfluenceType model.InfluenceType `json:"influenceType"`
}

var DefaultMode = Mode{
	Draw:          DrawStall,
	ZoneType:      model.ZoneWalkway,
	InfluenceType: model.InfluenceTraffic,
}

// Hall scopes the registry. It is read, never changed, by the designer.
type Hall struct {
	EventID   int64  `json:"eventId"`
	EventName string `json:"eventName"`
	Name      string `json:"hallName"`
}

// DrawGesture tracks a rectangle being drawn over empty canvas.
type DrawGesture struct {
	Start   geometry.Point `json:"start"`
	Current geometry.Point `json:"current"`
}

func (d DrawGesture) Rect() geometry.Rect {
	return geometry.RectFromDrag(d.Start, d.Current)
}

// DragGesture tracks an entity being moved. Offset is pointer minus entity
// origin at grab time.
type DragGesture struct {
	Target EntityRef      `json:"target"`
	Offset geometry.Point `json:"offset"`
}

// Gesture is idle when both variants are nil. At most one is ever set.
type Gesture struct {
	Drawing  *DrawGesture `json:"drawing,omitempty"`
	Dragging *DragGesture `json:"dragging,omitempty"`
}

func (g Gesture) Idle() bool {
	return g.Drawing == nil && g.Dragging == nil
}

func (g Gesture) Name() string {
	switch {
	case g.Drawing != nil:
		return "drawing"
	case g.Dragging != nil:
		return "dragging"
	default:
		return "idle"
	}
}

func drawing(start geometry.Point) Gesture {
	return Gesture{Drawing: &DrawGesture{Start: start, Current: start}}
}

func dragging(target EntityRef, offset geometry.Point) Gesture {
	return Gesture{Dragging: &DragGesture{Target: target, Offset: offset}}
}

// State is the whole editing state of one hall. Collections are treated as
// immutable: every change produces new slices.
type State struct {
	Hall       Hall        `json:"hall"`
	Stalls     []Stall     `json:"stalls"`
	Zones      []Zone      `json:"zones"`
	Influences []Influence `json:"influences"`
	Selected   *EntityRef  `json:"selected,omitempty"`
	Mode       Mode        `json:"mode"`
	Gesture    Gesture     `json:"gesture"`
}

// New returns an empty registry for the hall with the default mode.
func New(hall Hall) State {
	return State{
		Hall:       hall,
		Stalls:     []Stall{},
		Zones:      []Zone{},
		Influences: []Influence{},
		Mode:       DefaultMode,
	}
}

func (s State) Empty() bool {
	return len(s.Stalls) == 0 && len(s.Zones) == 0 && len(s.Influences) == 0
}

func (s State) Stall(id int64) (Stall, bool) {
	for _, st := range s.Stalls {
		if st.ID == id {
			return st, true
		}
	}
	return Stall{}, false
}

func (s State) Zone(id string) (Zone, bool) {
	for _, z := range s.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

func (s State) Influence(id string) (Influence, bool) {
	for _, inf := range s.Influences {
		if inf.ID == id {
			return inf, true
		}
	}
	return Influence{}, false
}

// Exists reports whether ref names an entity in the registry.
func (s State) Exists(ref EntityRef) bool {
	switch ref.Kind {
	case KindStall:
		id, ok := ref.StallID()
		if !ok {
			return false
		}
		_, ok = s.Stall(id)
		return ok
	case KindZone:
		_, ok := s.Zone(ref.ID)
		return ok
	case KindInfluence:
		_, ok := s.Influence(ref.ID)
		return ok
	}
	return false
}

func (s State) IsSelected(ref EntityRef) bool {
	return s.Selected != nil && *s.Selected == ref
}
