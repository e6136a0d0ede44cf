// Package val provides request validation based on struct tags.
package val

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate //nolint: gochecknoglobals // shared by every handler

func init() { //nolint: gochecknoinits // tag names and builtin tags are fixed at startup
	validate = validator.New()
	validate.RegisterTagNameFunc(getTagName)
	registerBuiltinValidations(validate)
}

func getValidator() *validator.Validate {
	return validate
}

// getTagName returns the name of a struct field based on its struct tags.
// It checks 'json', 'query', and 'params' tags in that order, and falls back
// to the field name if none of those tags have a non-empty name component.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "query", "params"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name != "" {
			return name
		}
	}

	return fld.Name
}
