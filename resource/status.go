package resource

import (
	"fmt"
	"strings"
)

// Status messages shown to users. StatusReady is intentionally empty.
const (
	StatusReady      = ""
	StatusValidating = "Validating..."
	StatusProcessing = "Processing..."

	StatusUnexpectedValidationError = "There was an unexpected error during validation."
	StatusUnexpectedStorageError    = "An unexpected error occurred during upload and storage."
)

// FailedStatus is set when a never-typed resource fails validation.
func FailedStatus(requestedType string) string {
	return fmt.Sprintf("Failed validation for resource type %s", requestedType)
}

// RevertedStatus is set when a typed resource fails validation as another type.
// Both arguments are human readable type names.
func RevertedStatus(requested, original string) string {
	return fmt.Sprintf(
		`Failed validation for type "%s". Reverting back to the valid type of "%s".`,
		requested, original,
	)
}

// UnknownExtensionStatus is set when the file name does not fit the requested type.
func UnknownExtensionStatus(filename, readableType string, extensions []string) string {
	return fmt.Sprintf(
		`File extension for file "%s" is not consistent`+
			" with the requested resource type (%s). "+
			"Acceptable extensions are: %s",
		filename, readableType, strings.Join(extensions, ","),
	)
}
