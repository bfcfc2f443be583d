package validator

import (
	"github.com/go-playground/validator/v10"

	"stallmap/internal/designer/state"
	"stallmap/pkg/logger"
	"stallmap/pkg/validation"
)

// OpenSessionRequest starts editing one hall of an event.
type OpenSessionRequest struct {
	EventID  int64  `json:"eventId" validate:"required,gt=0"`
	HallName string `json:"hallName" validate:"required,hall_name"`
}

// SetFieldRequest is a raw draft value for one panel field.
type SetFieldRequest struct {
	Value string `json:"value" validate:"max=200"`
}

var messages = map[string]string{
	"draw_mode": "draw mode must be one of STALL, ZONE, INFLUENCE",
}

type DesignerValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDesignerValidator(log *logger.Logger) *DesignerValidator {
	v := validator.New()

	if err := validation.RegisterLayoutTags(v); err != nil {
		log.Fatal("Failed to register layout validators", "error", err)
	}
	if err := v.RegisterValidation("draw_mode", validateDrawMode); err != nil {
		log.Fatal("Failed to register 'draw_mode' validator", "error", err)
	}

	log.Info("Designer validator initialized successfully")

	return &DesignerValidator{
		validate: v,
		logger:   log,
	}
}

func validateDrawMode(fl validator.FieldLevel) bool {
	return state.DrawMode(fl.Field().String()).Valid()
}

func (v *DesignerValidator) ValidateOpen(req *OpenSessionRequest) error {
	return validation.Struct(v.validate, req, messages)
}

func (v *DesignerValidator) ValidateField(req *SetFieldRequest) error {
	return validation.Struct(v.validate, req, messages)
}

// ValidateAction checks the payload of a decoded action. Actions without
// fields always pass.
func (v *DesignerValidator) ValidateAction(a state.Action) error {
	return validation.Struct(v.validate, a, messages)
}
