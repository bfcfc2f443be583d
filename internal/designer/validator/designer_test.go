package validator

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
	"stallmap/pkg/logger"
	"stallmap/pkg/model"
	"stallmap/pkg/validation"
)

func newValidator() *DesignerValidator {
	return NewDesignerValidator(logger.New(logger.Config{Output: io.Discard, Service: "test"}))
}

func TestValidateOpen(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name      string
		req       OpenSessionRequest
		wantError bool
	}{
		{name: "valid", req: OpenSessionRequest{EventID: 7, HallName: "Hall A"}},
		{name: "missing event", req: OpenSessionRequest{HallName: "Hall A"}, wantError: true},
		{name: "negative event", req: OpenSessionRequest{EventID: -1, HallName: "Hall A"}, wantError: true},
		{name: "blank hall", req: OpenSessionRequest{EventID: 7, HallName: "  "}, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateOpen(&tt.req)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	v := newValidator()
	bounds := geometry.Bounds{Width: 1000, Height: 600}
	badSize := model.StallSize("HUGE")
	goodFalloff := model.FalloffExponential

	tests := []struct {
		name      string
		action    state.Action
		wantError bool
	}{
		{name: "draw mode", action: state.SetDrawMode{Mode: state.DrawZone}},
		{name: "unknown draw mode", action: state.SetDrawMode{Mode: "CIRCLE"}, wantError: true},
		{name: "zone type", action: state.SetZoneType{ZoneType: model.ZoneStage}},
		{name: "unknown zone type", action: state.SetZoneType{ZoneType: "POOL"}, wantError: true},
		{name: "unknown influence type", action: state.SetInfluenceType{InfluenceType: "SMELL"}, wantError: true},
		{name: "pointer down", action: state.PointerDown{Bounds: bounds}},
		{name: "pointer down without bounds", action: state.PointerDown{}, wantError: true},
		{name: "pointer up without bounds", action: state.PointerUp{}},
		{name: "pointer cancel", action: state.PointerCancel{}},
		{name: "select", action: state.Select{Ref: state.StallRef(3)}},
		{name: "select unknown kind", action: state.Select{Ref: state.EntityRef{Kind: "door", ID: "1"}}, wantError: true},
		{name: "patch", action: state.UpdateEntity{Ref: state.StallRef(3), Patch: state.EntityPatch{Falloff: &goodFalloff}}},
		{name: "patch bad size", action: state.UpdateEntity{Ref: state.StallRef(3), Patch: state.EntityPatch{Size: &badSize}}, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAction(tt.action)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAction_Messages(t *testing.T) {
	err := newValidator().ValidateAction(state.SetDrawMode{Mode: "CIRCLE"})

	var verrs validation.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "draw mode must be one of STALL, ZONE, INFLUENCE", verrs[0].Message)
}
