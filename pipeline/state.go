package pipeline

import (
	"github.com/google/uuid"
)

// State is the terminal class of one pipeline run.
type State int

const (
	Ready State = iota
	UnknownExtension
	ValidationFailedReverted
	ValidationFailedNoPriorType
	UnexpectedValidationError
	UnexpectedStorageError
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case UnknownExtension:
		return "unknown_extension"
	case ValidationFailedReverted:
		return "validation_failed_reverted"
	case ValidationFailedNoPriorType:
		return "validation_failed_no_prior_type"
	case UnexpectedValidationError:
		return "unexpected_validation_error"
	case UnexpectedStorageError:
		return "unexpected_storage_error"
	default:
		return "unknown"
	}
}

// Failed reports whether s is anything but Ready.
func (s State) Failed() bool { return s != Ready }

// Result describes how a run ended. Status is the message stored on the
// resource; Err keeps the failure that led to it, if any.
type Result struct {
	ResourceID uuid.UUID
	State      State
	Status     string
	Path       string
	Err        error
}
