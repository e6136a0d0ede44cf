// Package resource holds the file-backed Resource entity, its metadata row,
// the lifecycle status messages and the storage contract for both.
package resource

import (
	"slices"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/pg"
	"github.com/rise-and-shine/dataresource/restype"
)

// Resource is a tracked data file.
type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r" json:"-"`
	pg.Timestamps

	ID    uuid.UUID `bun:"id,pk,type:uuid"            json:"id"`
	Owner uuid.UUID `bun:"owner_id,type:uuid,notnull" json:"owner"`
	Name  string    `bun:"name,notnull"               json:"name"`

	// Path is a local path or a scheme://bucket/key URI.
	Path string `bun:"path,notnull" json:"path"`

	// ResourceType is nil until the file passes validation for some type.
	ResourceType *restype.Code `bun:"resource_type"     json:"resource_type"`
	Status       string        `bun:"status,notnull"    json:"status"`
	IsActive     bool          `bun:"is_active,notnull" json:"is_active"`
	Size         int64         `bun:"size,notnull"      json:"size"`

	WorkspaceIDs []uuid.UUID `bun:"-" json:"workspaces"`
}

// New returns an inactive, untyped resource with a fresh id.
func New(owner uuid.UUID, path, name string, workspaces ...uuid.UUID) *Resource {
	return &Resource{
		ID:           uuid.New(),
		Owner:        owner,
		Name:         name,
		Path:         path,
		IsActive:     false,
		WorkspaceIDs: slices.Clone(workspaces),
	}
}

// Clone returns a deep copy.
func (r *Resource) Clone() *Resource {
	c := *r
	if r.ResourceType != nil {
		c.ResourceType = r.ResourceType.Ptr()
	}
	c.WorkspaceIDs = slices.Clone(r.WorkspaceIDs)
	return &c
}
