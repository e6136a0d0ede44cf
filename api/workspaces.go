package api

import (
	"context"

	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/elemset"
	"github.com/rise-and-shine/dataresource/resource"
)

// WorkspaceRequest addresses one workspace by path param.
type WorkspaceRequest struct {
	ID string `params:"id" json:"-" validate:"required"`
}

// WorkspaceMetadata is the union of the metadata of every resource in a
// workspace. Both sets are null when none of them has metadata yet.
type WorkspaceMetadata struct {
	ObservationSet *elemset.Set `json:"observation_set"`
	FeatureSet     *elemset.Set `json:"feature_set"`
}

type WorkspaceObservations struct {
	ObservationSet *elemset.Set `json:"observation_set"`
}

type WorkspaceFeatures struct {
	FeatureSet *elemset.Set `json:"feature_set"`
}

type getWorkspaceMetadata struct {
	store resource.Store
}

func (*getWorkspaceMetadata) OperationID() string { return "workspace-metadata-get" }

func (uc *getWorkspaceMetadata) Execute(ctx context.Context, in *WorkspaceRequest) (*WorkspaceMetadata, error) {
	all, err := workspaceMetadata(ctx, uc.store, in.ID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return &WorkspaceMetadata{}, nil
	}

	obs, err := mergeSets(all, elemset.Observation)
	if err != nil {
		return nil, err
	}
	features, err := mergeSets(all, elemset.Feature)
	if err != nil {
		return nil, err
	}
	return &WorkspaceMetadata{ObservationSet: obs, FeatureSet: features}, nil
}

type getWorkspaceObservations struct {
	store resource.Store
}

func (*getWorkspaceObservations) OperationID() string { return "workspace-observations-get" }

func (uc *getWorkspaceObservations) Execute(ctx context.Context, in *WorkspaceRequest) (*WorkspaceObservations, error) {
	all, err := workspaceMetadata(ctx, uc.store, in.ID)
	if err != nil {
		return nil, err
	}
	obs, err := mergeSets(all, elemset.Observation)
	if err != nil {
		return nil, err
	}
	return &WorkspaceObservations{ObservationSet: obs}, nil
}

type getWorkspaceFeatures struct {
	store resource.Store
}

func (*getWorkspaceFeatures) OperationID() string { return "workspace-features-get" }

func (uc *getWorkspaceFeatures) Execute(ctx context.Context, in *WorkspaceRequest) (*WorkspaceFeatures, error) {
	all, err := workspaceMetadata(ctx, uc.store, in.ID)
	if err != nil {
		return nil, err
	}
	features, err := mergeSets(all, elemset.Feature)
	if err != nil {
		return nil, err
	}
	return &WorkspaceFeatures{FeatureSet: features}, nil
}

// workspaceMetadata loads the metadata of every resource in the workspace,
// skipping resources whose metadata was never extracted.
func workspaceMetadata(ctx context.Context, store resource.Store, rawID string) ([]*resource.Metadata, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errx.New(
			"workspace id must be a UUID",
			errx.WithCode(CodeInvalidWorkspaceID),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"id": rawID}),
		)
	}

	resources, err := store.ListByWorkspace(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	all := make([]*resource.Metadata, 0, len(resources))
	for _, r := range resources {
		md, err := store.GetMetadata(ctx, r.ID)
		if errx.IsCodeIn(err, resource.CodeMetadataNotFound) {
			continue
		}
		if err != nil {
			return nil, errx.Wrap(err)
		}
		all = append(all, md.Typed())
	}
	return all, nil
}

// mergeSets unions the sets of one kind. Without any it returns an empty set.
func mergeSets(all []*resource.Metadata, kind elemset.Kind) (*elemset.Set, error) {
	sets := make([]*elemset.Set, 0, len(all))
	for _, md := range all {
		s := md.FeatureSet
		if kind == elemset.Observation {
			s = md.ObservationSet
		}
		if s != nil {
			sets = append(sets, s)
		}
	}
	if len(sets) == 0 {
		return elemset.New(kind, true)
	}

	merged, err := elemset.UnionAll(sets...)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return merged, nil
}
