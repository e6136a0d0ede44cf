package resource

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/elemset"
	"github.com/rise-and-shine/dataresource/pg"
	"github.com/rise-and-shine/dataresource/restype"
)

// Metadata is the one-to-one description of a resource. A row whose sets are
// both nil records that extraction ran but the type describes nothing.
type Metadata struct {
	bun.BaseModel `bun:"table:resource_metadata,alias:rm" json:"-"`
	pg.Timestamps

	ResourceID      uuid.UUID    `bun:"resource_id,pk,type:uuid"   json:"resource"`
	ObservationSet  *elemset.Set `bun:"observation_set,type:jsonb" json:"observation_set"`
	FeatureSet      *elemset.Set `bun:"feature_set,type:jsonb"     json:"feature_set"`
	ParentOperation *uuid.UUID   `bun:"parent_operation,type:uuid" json:"parent_operation"`
}

// NewMetadata builds a row for id from what a handler extracted.
func NewMetadata(id uuid.UUID, md restype.Metadata) *Metadata {
	return &Metadata{
		ResourceID:     id,
		ObservationSet: md.ObservationSet,
		FeatureSet:     md.FeatureSet,
	}
}

// Typed restores the set kinds lost in storage.
func (m *Metadata) Typed() *Metadata {
	m.ObservationSet = m.ObservationSet.WithKind(elemset.Observation)
	m.FeatureSet = m.FeatureSet.WithKind(elemset.Feature)
	return m
}

// Clone returns a copy sharing the sets, which are not modified after extraction.
func (m *Metadata) Clone() *Metadata {
	c := *m
	if m.ParentOperation != nil {
		op := *m.ParentOperation
		c.ParentOperation = &op
	}
	return &c
}
