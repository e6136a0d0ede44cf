// Package api exposes resources, validation requests and metadata
// combination over HTTP.
package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/forward"
	"github.com/rise-and-shine/dataresource/metaops"
	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/restype"
	"github.com/rise-and-shine/dataresource/storage"
	"github.com/rise-and-shine/dataresource/val"
)

// Enqueuer schedules validation of a resource in the background.
type Enqueuer interface {
	// EnqueueValidateAndStore commits a fresh file, then validates it.
	EnqueueValidateAndStore(ctx context.Context, id uuid.UUID, requested *restype.Code) error
	// EnqueueValidate re-types a file that already sits in durable storage.
	EnqueueValidate(ctx context.Context, id uuid.UUID, requested *restype.Code) error
}

// API holds the dependencies of the HTTP handlers.
type API struct {
	store    resource.Store
	backend  storage.Backend
	registry *restype.Registry
	tasks    Enqueuer
}

// New builds the API and binds the resource_type validation tag to registry.
func New(store resource.Store, backend storage.Backend, registry *restype.Registry, tasks Enqueuer) (*API, error) {
	err := val.RegisterStringValidation(val.TagResourceType, func(s string) bool {
		_, err := registry.Parse(s)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return &API{
		store:    store,
		backend:  backend,
		registry: registry,
		tasks:    tasks,
	}, nil
}

// Register mounts every route under /api/v1.
func (a *API) Register(r fiber.Router) {
	v1 := r.Group("/api/v1")

	v1.Post("/metadata/union", forward.ToUserAction(metaops.NewUnion()))
	v1.Post("/metadata/intersect", forward.ToUserAction(metaops.NewIntersect()))

	v1.Get("/resource-types", forward.ToUserAction(&listTypes{registry: a.registry}))

	v1.Get("/resources", forward.ToUserAction(&listResources{store: a.store}))
	v1.Get("/resources/:id", forward.ToUserAction(&getResource{store: a.store}))
	v1.Get("/resources/:id/metadata", forward.ToUserAction(&getMetadata{store: a.store}))
	v1.Get("/resources/:id/contents", forward.ToUserAction(&getContents{
		store:    a.store,
		backend:  a.backend,
		registry: a.registry,
	}))
	v1.Get("/workspaces/:id/metadata", forward.ToUserAction(&getWorkspaceMetadata{store: a.store}))
	v1.Get("/workspaces/:id/observations", forward.ToUserAction(&getWorkspaceObservations{store: a.store}))
	v1.Get("/workspaces/:id/features", forward.ToUserAction(&getWorkspaceFeatures{store: a.store}))

	v1.Post("/resources/:id/validate", forward.ToUserAction(&requestValidation{
		store:    a.store,
		registry: a.registry,
		tasks:    a.tasks,
	}))
}
