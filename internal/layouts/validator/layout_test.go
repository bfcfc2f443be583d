package validator

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stallmap/pkg/logger"
	"stallmap/pkg/model"
	"stallmap/pkg/validation"
)

func newValidator() *LayoutsValidator {
	return NewLayoutsValidator(logger.New(logger.Config{Output: io.Discard, Service: "test"}))
}

func ptr[T any](v T) *T { return &v }

func TestValidateEvent(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name      string
		event     model.Event
		wantError bool
	}{
		{name: "valid", event: model.Event{Name: "Colombo Expo", Halls: []string{"Hall A", "Hall B"}}},
		{name: "valid with config", event: model.Event{Name: "Colombo Expo", LayoutConfig: `{"width":1000,"height":600,"zones":[]}`}},
		{name: "short name", event: model.Event{Name: "X"}, wantError: true},
		{name: "blank hall", event: model.Event{Name: "Colombo Expo", Halls: []string{" "}}, wantError: true},
		{name: "broken config", event: model.Event{Name: "Colombo Expo", LayoutConfig: `{"zones":`}, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateEvent(&tt.event)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEventUpdate(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateEventUpdate(&model.EventUpdate{}))
	assert.NoError(t, v.ValidateEventUpdate(&model.EventUpdate{LayoutConfig: ptr("")}))
	assert.Error(t, v.ValidateEventUpdate(&model.EventUpdate{LayoutConfig: ptr("[1,2")}))
	assert.Error(t, v.ValidateEventUpdate(&model.EventUpdate{Name: ptr("X")}))
}

func TestValidateStalls(t *testing.T) {
	v := newValidator()
	valid := model.StallSaveRequest{Name: "A1", HallName: "Hall A", FinalPriceCents: 500000, Size: model.SizeMedium}

	tests := []struct {
		name      string
		stalls    []model.StallSaveRequest
		wantField string
	}{
		{name: "valid", stalls: []model.StallSaveRequest{valid}},
		{name: "empty batch", stalls: nil},
		{
			name:      "missing name",
			stalls:    []model.StallSaveRequest{valid, {HallName: "Hall A"}},
			wantField: "StallBatch.Stalls[1].Name",
		},
		{
			name:      "negative price",
			stalls:    []model.StallSaveRequest{{Name: "A1", HallName: "Hall A", FinalPriceCents: -1}},
			wantField: "StallBatch.Stalls[0].FinalPriceCents",
		},
		{
			name:      "unknown size",
			stalls:    []model.StallSaveRequest{{Name: "A1", HallName: "Hall A", Size: "HUGE"}},
			wantField: "StallBatch.Stalls[0].Size",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStalls(tt.stalls)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := verrs.Details()["fields"].(map[string]string)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
