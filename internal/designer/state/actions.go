package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

// Action is one input to the reducer.
type Action interface {
	Type() string
}

type SetDrawMode struct {
	Mode DrawMode `json:"mode" validate:"required,draw_mode"`
}

// SetZoneType also switches the draw mode to ZONE.
type SetZoneType struct {
	ZoneType model.ZoneType `json:"zoneType" validate:"required,zone_type"`
}

// SetInfluenceType also switches the draw mode to INFLUENCE.
type SetInfluenceType struct {
	InfluenceType model.InfluenceType `json:"influenceType" validate:"required,influence_type"`
}

// Pointer actions carry the canvas bounds measured for that very event.
type PointerDown struct {
	Event  geometry.PointerEvent `json:"event"`
	Bounds geometry.Bounds       `json:"bounds"`
}

type PointerMove struct {
	Event  geometry.PointerEvent `json:"event"`
	Bounds geometry.Bounds       `json:"bounds"`
}

// PointerUp with zero bounds commits at the last tracked position.
type PointerUp struct {
	Event  geometry.PointerEvent `json:"event"`
	Bounds geometry.Bounds       `json:"bounds" validate:"-"`
}

// PointerCancel abandons a draw and ends a drag.
type PointerCancel struct{}

type Select struct {
	Ref EntityRef `json:"ref"`
}

type ClearSelection struct{}

type UpdateEntity struct {
	Ref   EntityRef   `json:"ref"`
	Patch EntityPatch `json:"patch"`
}

type DeleteEntity struct {
	Ref EntityRef `json:"ref"`
}

// AssignStallIDs replaces temporary stall ids with durable ones after a save.
type AssignStallIDs struct {
	IDs map[int64]int64 `json:"ids"`
}

func (SetDrawMode) Type() string      { return "set_draw_mode" }
func (SetZoneType) Type() string      { return "set_zone_type" }
func (SetInfluenceType) Type() string { return "set_influence_type" }
func (PointerDown) Type() string      { return "pointer_down" }
func (PointerMove) Type() string      { return "pointer_move" }
func (PointerUp) Type() string        { return "pointer_up" }
func (PointerCancel) Type() string    { return "pointer_cancel" }
func (Select) Type() string           { return "select" }
func (ClearSelection) Type() string   { return "clear_selection" }
func (UpdateEntity) Type() string     { return "update_entity" }
func (DeleteEntity) Type() string     { return "delete_entity" }
func (AssignStallIDs) Type() string   { return "assign_stall_ids" }

var ErrUnknownAction = errors.New("unknown action type")

// DecodeAction reads a {"type": "...", ...} envelope into its action.
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	var action Action
	switch envelope.Type {
	case "set_draw_mode":
		action = &SetDrawMode{}
	case "set_zone_type":
		action = &SetZoneType{}
	case "set_influence_type":
		action = &SetInfluenceType{}
	case "pointer_down":
		action = &PointerDown{}
	case "pointer_move":
		action = &PointerMove{}
	case "pointer_up":
		action = &PointerUp{}
	case "pointer_cancel":
		return PointerCancel{}, nil
	case "select":
		action = &Select{}
	case "clear_selection":
		return ClearSelection{}, nil
	case "update_entity":
		action = &UpdateEntity{}
	case "delete_entity":
		action = &DeleteEntity{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Type)
	}

	if err := json.Unmarshal(data, action); err != nil {
		return nil, fmt.Errorf("decode %s: %w", envelope.Type, err)
	}
	return deref(action), nil
}

func deref(a Action) Action {
	switch v := a.(type) {
	case *SetDrawMode:
		return *v
	case *SetZoneType:
		return *v
	case *SetInfluenceType:
		return *v
	case *PointerDown:
		return *v
	case *PointerMove:
		return *v
	case *PointerUp:
		return *v
	case *Select:
		return *v
	case *UpdateEntity:
		return *v
	case *DeleteEntity:
		return *v
	}
	return a
}
