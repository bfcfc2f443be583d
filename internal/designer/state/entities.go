package state

import (
	"strconv"

	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

// TempIDThreshold separates temporary stall ids, minted from a millisecond
// clock, from durable ids assigned by the layout store.
const TempIDThreshold int64 = 10_000_000_000

func IsTempID(id int64) bool {
	return id > TempIDThreshold
}

type Stall struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Geometry    geometry.Rect       `json:"geometry"`
	PriceCents  int64               `json:"priceCents"`
	Size        model.StallSize     `json:"size"`
	Category    model.StallCategory `json:"category"`
	IsAvailable bool                `json:"isAvailable"`
	SqFt        *int                `json:"sqFt,omitempty"`
}

func (s Stall) Ref() EntityRef {
	return StallRef(s.ID)
}

type Zone struct {
	ID       string         `json:"id"`
	Type     model.ZoneType `json:"type"`
	Geometry geometry.Rect  `json:"geometry"`
	Label    string         `json:"label"`
}

func (z Zone) Ref() EntityRef {
	return EntityRef{Kind: KindZone, ID: z.ID}
}

// Influence is a heatmap source. X, Y and Radius are percentage units.
type Influence struct {
	ID        string              `json:"id"`
	Type      model.InfluenceType `json:"type"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Radius    float64             `json:"radius"`
	Intensity int                 `json:"intensity"`
	Falloff   model.Falloff       `json:"falloff"`
}

func (i Influence) Ref() EntityRef {
	return EntityRef{Kind: KindInfluence, ID: i.ID}
}

func (i Influence) Circle() geometry.Circle {
	return geometry.Circle{Center: geometry.Point{X: i.X, Y: i.Y}, Radius: i.Radius}
}

// Origin is the top-left corner of the influence's bounding square, the
// point a drag offset is measured from.
func (i Influence) Origin() geometry.Point {
	return geometry.Point{X: i.X - i.Radius, Y: i.Y - i.Radius}
}

type EntityKind string

const (
	KindStall     EntityKind = "stall"
	KindZone      EntityKind = "zone"
	KindInfluence EntityKind = "influence"
)

func (k EntityKind) Valid() bool {
	return k == KindStall || k == KindZone || k == KindInfluence
}

// EntityRef identifies one entity in the registry. Stall ids are rendered
// in decimal.
type EntityRef struct {
	Kind EntityKind `json:"kind" validate:"required,oneof=stall zone influence"`
	ID   string     `json:"id" validate:"required"`
}

func StallRef(id int64) EntityRef {
	return EntityRef{Kind: KindStall, ID: strconv.FormatInt(id, 10)}
}

// StallID parses the stall id of a stall reference.
func (r EntityRef) StallID() (int64, bool) {
	if r.Kind != KindStall {
		return 0, false
	}
	id, err := strconv.ParseInt(r.ID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (r EntityRef) String() string {
	return string(r.Kind) + ":" + r.ID
}
