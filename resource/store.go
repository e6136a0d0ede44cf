package resource

import (
	"context"

	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/sorter"
)

// Store persists resources and their metadata. Implementations return errx
// errors coded CodeResourceNotFound or CodeMetadataNotFound for missing rows.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Resource, error)
	Create(ctx context.Context, r *Resource) error
	// Save writes every field of r, workspace links included.
	Save(ctx context.Context, r *Resource) error
	// List returns one page of resources and the total count matching q.
	List(ctx context.Context, q ListQuery) ([]*Resource, int, error)
	// ListByWorkspace returns every resource linked to workspaceID in creation order.
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Resource, error)

	GetMetadata(ctx context.Context, id uuid.UUID) (*Metadata, error)
	// SaveMetadata creates the row or replaces its contents.
	SaveMetadata(ctx context.Context, md *Metadata) error
}

// Fields a listing may be sorted by.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortBySize      = "size"
)

// SortFields lists every sortable field.
var SortFields = []string{SortByName, SortByCreatedAt, SortBySize}

// ListQuery selects resources. A nil Owner matches every owner. Without
// sort options rows come in creation order.
type ListQuery struct {
	Owner  uuid.UUID
	Sort   sorter.SortOpts
	Limit  int
	Offset int
}
