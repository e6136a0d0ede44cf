// Package outputconv turns the file paths produced by an executed operation
// into resources owned by the operation's owner.
package outputconv

import (
	"context"
	"path"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/pipeline"
	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/restype"
)

// DataResourceAttribute marks outputs that are files.
const DataResourceAttribute = "DataResource"

// ExecutedOperation is the part of a finished job the conversion needs.
type ExecutedOperation struct {
	ID      uuid.UUID
	Owner   uuid.UUID
	JobName string
}

// OutputSpec declares one output of an operation.
type OutputSpec struct {
	AttributeType string        `json:"attribute_type"`
	Many          bool          `json:"many"`
	ResourceType  *restype.Code `json:"resource_type"`
}

// Committer validates and stores a freshly created resource.
type Committer interface {
	ValidateAndStoreResource(ctx context.Context, r *resource.Resource, requested *restype.Code) pipeline.Result
}

type Converter struct {
	store     resource.Store
	committer Committer
	logger    logger.Logger
}

func New(store resource.Store, committer Committer, log logger.Logger) *Converter {
	return &Converter{store: store, committer: committer, logger: log.Named("outputconv")}
}

// ConvertOutput replaces a data resource output with the id of the resource
// created for it, or a list of ids when spec.Many is set. Other outputs are
// returned unchanged. A nil workspace creates resources outside any workspace.
func (c *Converter) ConvertOutput(
	ctx context.Context,
	op ExecutedOperation,
	workspace *uuid.UUID,
	spec OutputSpec,
	value any,
) (any, error) {
	if spec.AttributeType != DataResourceAttribute {
		return value, nil
	}
	if spec.ResourceType == nil {
		return nil, errx.New(
			"data resource output declares no resource type",
			errx.WithCode(CodeMissingOutputType),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"operation_id": op.ID.String()}),
		)
	}

	paths, err := outputPaths(spec.Many, value)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"operation_id": op.ID.String()}))
	}

	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		id, convErr := c.convertPath(ctx, op, workspace, *spec.ResourceType, p)
		if convErr != nil {
			return nil, convErr
		}
		ids = append(ids, id.String())
	}

	if !spec.Many {
		return ids[0], nil
	}
	return ids, nil
}

func (c *Converter) convertPath(
	ctx context.Context,
	op ExecutedOperation,
	workspace *uuid.UUID,
	code restype.Code,
	p string,
) (uuid.UUID, error) {
	name := DisplayName(op.JobName, p)

	var workspaces []uuid.UUID
	if workspace != nil {
		workspaces = append(workspaces, *workspace)
	}
	r := resource.New(op.Owner, p, name, workspaces...)
	r.Status = resource.StatusProcessing

	c.logger.WithContext(ctx).With("path", p, "name", name, "resource_id", r.ID).
		Info("creating resource from operation output")

	if err := c.store.Create(ctx, r); err != nil {
		return uuid.Nil, errx.Wrap(err)
	}

	res := c.committer.ValidateAndStoreResource(ctx, r, code.Ptr())
	if res.State.Failed() {
		c.logger.WithContext(ctx).
			With("resource_id", r.ID, "state", res.State.String(), "status", res.Status).
			Warn("operation output did not validate")
	}

	if err := c.linkParent(ctx, r.ID, op.ID); err != nil {
		return uuid.Nil, err
	}
	return r.ID, nil
}

func (c *Converter) linkParent(ctx context.Context, resourceID, operationID uuid.UUID) error {
	md, err := c.store.GetMetadata(ctx, resourceID)
	if err != nil {
		if !errx.IsCodeIn(err, resource.CodeMetadataNotFound) {
			return errx.Wrap(err)
		}
		md = resource.NewMetadata(resourceID, restype.Metadata{})
	}
	md.ParentOperation = &operationID

	if err = c.store.SaveMetadata(ctx, md); err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// DisplayName is the name users see: <job>.<basename>, or the basename when
// the job is unnamed.
func DisplayName(jobName, p string) string {
	base := path.Base(filepath.ToSlash(p))
	if jobName == "" {
		return base
	}
	return jobName + "." + base
}

func outputPaths(many bool, value any) ([]string, error) {
	if !many {
		p, ok := value.(string)
		if !ok || p == "" {
			return nil, invalidValue("a single output must be a non-empty path")
		}
		return []string{p}, nil
	}

	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		paths := make([]string, 0, len(v))
		for _, item := range v {
			p, ok := item.(string)
			if !ok || p == "" {
				return nil, invalidValue("every output path must be a non-empty string")
			}
			paths = append(paths, p)
		}
		return paths, nil
	default:
		return nil, invalidValue("a multiple output must be a list of paths")
	}
}

func invalidValue(msg string) error {
	return errx.New(msg, errx.WithCode(CodeInvalidOutputValue), errx.WithType(errx.T_Validation))
}
