// Package validation holds the validator tags shared by the designer and the
// layout store, and the field-level error shape both return.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"stallmap/pkg/model"
)

const MaxHallNameLength = 100

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details is the AppError details form of the errors.
func (v ValidationErrors) Details() map[string]any {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

var layoutTags = map[string]validator.Func{
	"stall_size":     enumTag(func(s string) bool { return model.StallSize(s).Valid() }),
	"stall_category": enumTag(func(s string) bool { return model.StallCategory(s).Valid() }),
	"zone_type":      enumTag(func(s string) bool { return model.ZoneType(s).Valid() }),
	"influence_type": enumTag(func(s string) bool { return model.InfluenceType(s).Valid() }),
	"falloff":        enumTag(func(s string) bool { return model.Falloff(s).Valid() }),
	"hall_name":      validateHallName,
	"layout_config":  validateLayoutConfig,
}

// RegisterLayoutTags adds the layout vocabulary tags to v.
func RegisterLayoutTags(v *validator.Validate) error {
	for tag, fn := range layoutTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q: %w", tag, err)
		}
	}
	return nil
}

func enumTag(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	}
}

func validateHallName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name != "" && utf8.RuneCountInString(name) <= MaxHallNameLength
}

func validateLayoutConfig(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}
	var cfg model.LayoutConfig
	return json.Unmarshal([]byte(raw), &cfg) == nil
}

// Struct validates obj and translates failures into ValidationErrors. messages
// overrides the text for custom tags.
func Struct(v *validator.Validate, obj any, messages map[string]string) error {
	err := v.Struct(obj)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	return Translate(validationErrs, messages)
}

func Translate(errs validator.ValidationErrors, messages map[string]string) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		default:
			if m, ok := messages[err.Tag()]; ok {
				message = m
			} else if m, ok := defaultMessages[err.Tag()]; ok {
				message = m
			}
		}

		out = append(out, ValidationError{
			Field:   err.Namespace(),
			Message: message,
		})
	}
	return out
}

var defaultMessages = map[string]string{
	"stall_size":     "size must be one of SMALL, MEDIUM, LARGE",
	"stall_category": "category must be one of RETAIL, FOOD, SPONSOR, ANCHOR",
	"zone_type":      "zone type must be one of WALKWAY, STAGE, ENTRANCE",
	"influence_type": "influence type must be one of NOISE, TRAFFIC, FACILITY",
	"falloff":        "falloff must be one of linear, exponential",
	"hall_name":      fmt.Sprintf("hall name must be non-empty and at most %d characters", MaxHallNameLength),
	"layout_config":  "layoutConfig must be a JSON layout configuration",
}
