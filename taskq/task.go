package taskq

import (
	"context"

	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/pipeline"
	"github.com/rise-and-shine/dataresource/restype"
)

type Kind string

const (
	KindValidateAndStore Kind = "validate_and_store"
	KindValidate         Kind = "validate"
	KindDeleteFile       Kind = "delete_file"
)

// Task is the JSON payload of one queued unit of work.
type Task struct {
	Kind         Kind          `json:"kind"`
	ResourceID   uuid.UUID     `json:"resource_id,omitzero"`
	ResourceType *restype.Code `json:"resource_type,omitempty"`
	Path         string        `json:"path,omitempty"`
}

// partitionKey keeps every task of one resource on one partition.
func (t Task) partitionKey() string {
	if t.Kind == KindDeleteFile {
		return t.Path
	}
	return t.ResourceID.String()
}

// Runner executes tasks. *pipeline.Pipeline satisfies it.
type Runner interface {
	ValidateAndStore(ctx context.Context, id uuid.UUID, requested *restype.Code) (pipeline.Result, error)
	Validate(ctx context.Context, id uuid.UUID, requested *restype.Code) (pipeline.Result, error)
	DeleteFile(ctx context.Context, path string) error
}

var _ Runner = (*pipeline.Pipeline)(nil)
