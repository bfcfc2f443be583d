package model

import (
	"encoding/json"
	"stallmap/pkg/geometry"
	"time"
)

// Event is the event document owned by the layout store. LayoutConfig holds
// the serialized LayoutConfig blob shared by every hall of the event.
type Event struct {
	ID           int64     `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Venue        string    `json:"venue,omitempty" bson:"venue,omitempty" validate:"omitempty,max=200"`
	Halls        []string  `json:"halls,omitempty" bson:"halls,omitempty" validate:"omitempty,max=50,dive,hall_name"`
	StartsAt     time.Time `json:"startsAt,omitempty" bson:"starts_at,omitempty"`
	EndsAt       time.Time `json:"endsAt,omitempty" bson:"ends_at,omitempty"`
	LayoutConfig string    `json:"layoutConfig" bson:"layout_config" validate:"omitempty,layout_config"`
	CreatedAt    time.Time `json:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty" bson:"updated_at"`
}

// EventUpdate is the PATCH body for an event. Nil fields are left untouched.
type EventUpdate struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Venue        *string    `json:"venue,omitempty" validate:"omitempty,max=200"`
	Halls        []string   `json:"halls,omitempty" validate:"omitempty,max=50,dive,hall_name"`
	StartsAt     *time.Time `json:"startsAt,omitempty"`
	EndsAt       *time.Time `json:"endsAt,omitempty"`
	LayoutConfig *string    `json:"layoutConfig,omitempty" validate:"omitempty,layout_config"`
}

// UpdateFromEvent builds an update that resends every field of e with the
// given layout configuration.
func UpdateFromEvent(e Event, layoutConfig string) EventUpdate {
	u := EventUpdate{
		Name:         &e.Name,
		Venue:        &e.Venue,
		Halls:        e.Halls,
		LayoutConfig: &layoutConfig,
	}
	if !e.StartsAt.IsZero() {
		u.StartsAt = &e.StartsAt
	}
	if !e.EndsAt.IsZero() {
		u.EndsAt = &e.EndsAt
	}
	return u
}

// Stall is the stored stall document. Position is its index in the last
// full replace so the event map keeps request order.
type Stall struct {
	ID         int64         `json:"id" bson:"_id"`
	EventID    int64         `json:"eventId" bson:"event_id"`
	Name       string        `json:"name" bson:"name"`
	HallName   string        `json:"hallName" bson:"hall_name"`
	Geometry   string        `json:"geometry" bson:"geometry"`
	PriceCents int64         `json:"priceCents" bson:"price_cents"`
	Size       StallSize     `json:"size,omitempty" bson:"size,omitempty"`
	Category   StallCategory `json:"type,omitempty" bson:"category,omitempty"`
	SqFt       *int          `json:"sqFt,omitempty" bson:"sq_ft,omitempty"`
	Reserved   bool          `json:"reserved" bson:"reserved"`
	Blocked    bool          `json:"blocked" bson:"blocked"`
	Position   int           `json:"-" bson:"position"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updated_at"`
}

// ToMapStall projects the stored stall into its event map shape. A stall
// blocked by an operator shows as reserved.
func (s Stall) ToMapStall() MapStall {
	geom, _ := json.Marshal(s.Geometry)
	return MapStall{
		ID:         s.ID,
		Name:       s.Name,
		HallName:   s.HallName,
		Geometry:   geom,
		PriceCents: s.PriceCents,
		Type:       s.Category,
		Size:       s.Size,
		SqFt:       s.SqFt,
		Reserved:   s.Reserved || s.Blocked,
	}
}

// MapStall is a stall as returned in the event map. Geometry is kept as the
// raw JSON it arrived in: either a serialized string or an object.
type MapStall struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	HallName   string          `json:"hallName"`
	Geometry   json.RawMessage `json:"geometry"`
	PriceCents int64           `json:"priceCents"`
	Type       StallCategory   `json:"type,omitempty"`
	Size       StallSize       `json:"size,omitempty"`
	SqFt       *int            `json:"sqFt,omitempty"`
	Reserved   bool            `json:"reserved"`
}

// EventMap is the read model of an event layout. Zones is the serialized
// LayoutConfig.
type EventMap struct {
	EventID   int64      `json:"eventId"`
	EventName string     `json:"eventName"`
	Stalls    []MapStall `json:"stalls"`
	Zones     string     `json:"zones"`
}

// StallSaveRequest is one item of the full-replace stall payload. A nil ID
// asks the store to assign one.
type StallSaveRequest struct {
	ID              *int64        `json:"id,omitempty" validate:"omitempty,gt=0"`
	Name            string        `json:"name" validate:"required,max=100"`
	HallName        string        `json:"hallName" validate:"required,hall_name"`
	Geometry        string        `json:"geometry"`
	FinalPriceCents int64         `json:"finalPriceCents" validate:"gte=0"`
	Size            StallSize     `json:"size,omitempty" validate:"omitempty,stall_size"`
	Category        StallCategory `json:"category,omitempty" validate:"omitempty,stall_category"`
	SqFt            *int          `json:"sqFt,omitempty" validate:"omitempty,gte=0"`
	IsAvailable     *bool         `json:"isAvailable,omitempty"`
}

// LayoutConfig is the event-scoped zones and influences blob. Influence
// coordinates are pixels against Width x Height; zone geometry is in percent.
type LayoutConfig struct {
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Entrances  []json.RawMessage `json:"entrances"`
	Zones      []LayoutZone      `json:"zones"`
	Influences []LayoutInfluence `json:"influences"`
}

// EmptyLayoutConfig is the configuration of an event with no zones and no
// influences on the nominal canvas.
func EmptyLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:      geometry.NominalWidth,
		Height:     geometry.NominalHeight,
		Entrances:  []json.RawMessage{},
		Zones:      []LayoutZone{},
		Influences: []LayoutInfluence{},
	}
}

type LayoutZone struct {
	Type     ZoneType      `json:"type"`
	Geometry geometry.Rect `json:"geometry"`
	Metadata ZoneMetadata  `json:"metadata"`
}

type ZoneMetadata struct {
	Label string `json:"label,omitempty"`
}

type LayoutInfluence struct {
	ID        string        `json:"id"`
	Type      InfluenceType `json:"type"`
	Intensity float64       `json:"intensity"`
	Falloff   Falloff       `json:"falloff"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Radius    float64       `json:"radius"`
}

// LayoutUpdated is published after a stall replace or layout config update.
type LayoutUpdated struct {
	EventID   int64     `json:"eventId"`
	Source    string    `json:"source"`
	SessionID string    `json:"sessionId,omitempty"`
	Stalls    int       `json:"stalls"`
	Kind      string    `json:"kind"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	LayoutUpdateStalls = "stalls"
	LayoutUpdateConfig = "layout_config"
)
