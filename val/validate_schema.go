package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

// CodeValidationFailed is the code of every request validation error.
const CodeValidationFailed = "VALIDATION_FAILED"

// ValidateSchema validates a request struct and reports every failed field
// under its wire name.
func ValidateSchema(schema any) error {
	err := getValidator().Struct(schema)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errx.New(
			fmt.Sprintf("Unknown validation error: %s", err.Error()),
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
		)
	}

	fields := make(errx.M, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = Describe(fieldErr)
	}

	return errx.New(
		"Validation failed. See fields for details.",
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
		errx.WithFields(fields),
	)
}

// fixedDescriptions covers tags whose message does not depend on the param.
var fixedDescriptions = map[string]string{
	"required":      "This field is required",
	"required_if":   "This field is required",
	"uuid":          "Must be a valid UUID",
	"url":           "Must be a valid URL",
	"uri":           "Must be a valid URI",
	"hostname":      "Must be a valid hostname",
	"hostname_port": "Must be a valid host:port",
	"json":          "Must be valid JSON",
	"numeric":       "Must be a valid number",
	"alphanum":      "Must contain only alphanumeric characters",
	TagSetKind:      "Must be one of: observation, feature",
	TagResourceType: "Must be a known resource type",
}

// Describe renders a human readable message for a failed validation.
func Describe(fieldErr validator.FieldError) string {
	tag, param := fieldErr.Tag(), fieldErr.Param()
	if desc, ok := fixedDescriptions[tag]; ok {
		return desc
	}

	isString := fieldErr.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if isString {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "len":
		if isString {
			return fmt.Sprintf("Must be exactly %s characters", param)
		}
		return fmt.Sprintf("Must have exactly %s items", param)
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", param)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", param)
	case "lt":
		return fmt.Sprintf("Must be less than %s", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	}

	return fmt.Sprintf("Failed validation: %s", tag)
}
