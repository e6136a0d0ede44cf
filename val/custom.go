package val

import (
	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"

	"github.com/rise-and-shine/dataresource/elemset"
)

// Custom validation tags.
const (
	TagSetKind      = "set_kind"
	TagResourceType = "resource_type"
)

// IsSetKind checks if s names an element set kind ("observation" or "feature").
func IsSetKind(s string) bool {
	_, err := elemset.ParseKind(s)
	return err == nil
}

// RegisterStringValidation registers fn under tag for string fields.
// Use it to bind checks that need runtime state, like the resource type registry.
func RegisterStringValidation(tag string, fn func(string) bool) error {
	err := getValidator().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		return errx.Wrap(err)
	}
	return nil
}

func registerBuiltinValidations(v *validator.Validate) {
	_ = v.RegisterValidation(TagSetKind, func(fl validator.FieldLevel) bool {
		return IsSetKind(fl.Field().String())
	})
}
