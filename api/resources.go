package api

import (
	"context"
	"net/http"

	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/pagination"
	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/restype"
	"github.com/rise-and-shine/dataresource/sorter"
	"github.com/rise-and-shine/dataresource/storage"
)

// ResourceRequest addresses one resource by path param.
type ResourceRequest struct {
	ID string `params:"id" json:"-" validate:"required"`
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errx.New(
			"resource id must be a UUID",
			errx.WithCode(CodeInvalidResourceID),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"id": s}),
		)
	}
	return id, nil
}

type getResource struct {
	store resource.Store
}

func (*getResource) OperationID() string { return "resource-get" }

func (uc *getResource) Execute(ctx context.Context, in *ResourceRequest) (*resource.Resource, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	r, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return r, nil
}

// ListRequest pages resources, optionally of a single owner.
// Sort takes "field:direction" pairs, e.g. "size:desc,name".
type ListRequest struct {
	Owner    string `query:"owner"     json:"owner"     validate:"omitempty,uuid"`
	Sort     string `query:"sort"      json:"sort"`
	Page     int    `query:"page"      json:"page"      validate:"omitempty,gte=1,lte=1000000"`
	PageSize int    `query:"page_size" json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type listResources struct {
	store resource.Store
}

func (*listResources) OperationID() string { return "resource-list" }

func (uc *listResources) Execute(
	ctx context.Context,
	in *ListRequest,
) (*pagination.Response[*resource.Resource], error) {
	sort, err := sorter.Parse(in.Sort, resource.SortFields...)
	if err != nil {
		return nil, err
	}

	q := resource.ListQuery{Sort: sort}
	if in.Owner != "" {
		q.Owner = uuid.MustParse(in.Owner)
	}

	page := pagination.Request{Page: in.Page, PageSize: in.PageSize}
	page.Normalize()
	q.Limit, q.Offset = page.Limit(), page.Offset()

	items, total, err := uc.store.List(ctx, q)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	resp := pagination.NewResponse(items, total, page)
	return &resp, nil
}

type getMetadata struct {
	store resource.Store
}

func (*getMetadata) OperationID() string { return "resource-metadata-get" }

func (uc *getMetadata) Execute(ctx context.Context, in *ResourceRequest) (*resource.Metadata, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	md, err := uc.store.GetMetadata(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return md.Typed(), nil
}

// ValidateRequest asks for a resource to be validated as ResourceType.
// A null type resets the resource to untyped.
type ValidateRequest struct {
	ID           string  `params:"id"            json:"-"             validate:"required"`
	ResourceType *string `json:"resource_type" validate:"omitempty,resource_type"`
}

// ValidateResponse acknowledges a queued validation.
type ValidateResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func (*ValidateResponse) HTTPStatus() int { return http.StatusAccepted }

type requestValidation struct {
	store    resource.Store
	registry *restype.Registry
	tasks    Enqueuer
}

func (*requestValidation) OperationID() string { return "resource-validate" }

func (uc *requestValidation) Execute(ctx context.Context, in *ValidateRequest) (*ValidateResponse, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}

	var requested *restype.Code
	if in.ResourceType != nil {
		code, err := uc.registry.Parse(*in.ResourceType)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		requested = code.Ptr()
	}

	r, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if !r.IsActive {
		return nil, errx.New(
			"resource is being processed",
			errx.WithCode(CodeResourceInactive),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(errx.D{"resource_id": id.String(), "status": r.Status}),
		)
	}

	if storage.Committed(r) {
		err = uc.tasks.EnqueueValidate(ctx, id, requested)
	} else {
		err = uc.tasks.EnqueueValidateAndStore(ctx, id, requested)
	}
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &ValidateResponse{ID: id, Status: resource.StatusValidating}, nil
}

// ContentsRequest selects a page of a resource preview.
type ContentsRequest struct {
	ID       string `params:"id"        json:"-"         validate:"required"`
	Page     int    `query:"page"       json:"page"      validate:"omitempty,gte=1,lte=1000000"`
	PageSize int    `query:"page_size"  json:"page_size" validate:"omitempty,gte=1,lte=1000"`
}

type getContents struct {
	store    resource.Store
	backend  storage.Backend
	registry *restype.Registry
}

func (*getContents) OperationID() string { return "resource-contents-get" }

func (uc *getContents) Execute(ctx context.Context, in *ContentsRequest) (*restype.Contents, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}

	r, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if r.ResourceType == nil {
		return nil, errx.New(
			"resource has no type to preview",
			errx.WithCode(CodeResourceUntyped),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"resource_id": id.String()}),
		)
	}

	h, err := uc.registry.Get(*r.ResourceType)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	local, err := uc.backend.LocalPath(ctx, r)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	c, err := h.GetContents(ctx, local, restype.ContentQuery{Page: in.Page, PageSize: in.PageSize})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return c, nil
}

type listTypes struct {
	registry *restype.Registry
}

// ListTypesRequest takes no parameters.
type ListTypesRequest struct{}

func (*listTypes) OperationID() string { return "resource-types-list" }

func (uc *listTypes) Execute(context.Context, *ListTypesRequest) ([]restype.Info, error) {
	return uc.registry.List(), nil
}
