package validator

import (
	"github.com/go-playground/validator/v10"

	"stallmap/pkg/logger"
	"stallmap/pkg/model"
	"stallmap/pkg/validation"
)

const MaxStallsPerEvent = 5000

// StallBatch wraps a full-replace payload so the items can be validated with
// dive.
type StallBatch struct {
	Stalls []model.StallSaveRequest `validate:"max=5000,dive"`
}

var messages = map[string]string{
	"hall_name":     "hall name must be non-empty and at most 100 characters",
	"layout_config": "layoutConfig must be a valid layout configuration JSON document",
}

type LayoutsValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewLayoutsValidator(log *logger.Logger) *LayoutsValidator {
	v := validator.New()

	if err := validation.RegisterLayoutTags(v); err != nil {
		log.Fatal("Failed to register layout validators", "error", err)
	}

	log.Info("Layouts validator initialized successfully")

	return &LayoutsValidator{
		validate: v,
		logger:   log,
	}
}

func (v *LayoutsValidator) ValidateEvent(e *model.Event) error {
	return validation.Struct(v.validate, e, messages)
}

func (v *LayoutsValidator) ValidateEventUpdate(u *model.EventUpdate) error {
	return validation.Struct(v.validate, u, messages)
}

func (v *LayoutsValidator) ValidateStalls(stalls []model.StallSaveRequest) error {
	return validation.Struct(v.validate, &StallBatch{Stalls: stalls}, messages)
}
