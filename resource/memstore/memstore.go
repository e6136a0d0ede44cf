// Package memstore is an in-process resource.Store for tests and single node deployments.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"

	"github.com/rise-and-shine/dataresource/resource"
)

// Store keeps copies of every row so callers never share memory with it.
type Store struct {
	mu        sync.RWMutex
	resources map[uuid.UUID]*resource.Resource
	metadata  map[uuid.UUID]*resource.Metadata
}

var _ resource.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		resources: make(map[uuid.UUID]*resource.Resource),
		metadata:  make(map[uuid.UUID]*resource.Metadata),
	}
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[id]
	if !ok {
		return nil, notFound(resource.CodeResourceNotFound, id)
	}
	return r.Clone(), nil
}

func (s *Store) Create(_ context.Context, r *resource.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[r.ID]; ok {
		return errx.New(
			"resource already exists",
			errx.WithCode(resource.CodeResourceExists),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(errx.D{"resource_id": r.ID.String()}),
		)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.resources[r.ID] = r.Clone()
	return nil
}

func (s *Store) Save(_ context.Context, r *resource.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[r.ID]; !ok {
		return notFound(resource.CodeResourceNotFound, r.ID)
	}
	s.resources[r.ID] = r.Clone()
	return nil
}

func (s *Store) List(_ context.Context, q resource.ListQuery) ([]*resource.Resource, int, error) {
	s.mu.RLock()
	matched := make([]*resource.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if q.Owner == uuid.Nil || r.Owner == q.Owner {
			matched = append(matched, r.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b *resource.Resource) int {
		if c := q.Sort.Compare(func(field string) int { return compareField(a, b, field) }); c != 0 {
			return c
		}
		return byCreation(a, b)
	})

	total := len(matched)
	start := min(max(q.Offset, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

func (s *Store) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]*resource.Resource, error) {
	s.mu.RLock()
	matched := make([]*resource.Resource, 0)
	for _, r := range s.resources {
		if slices.Contains(r.WorkspaceIDs, workspaceID) {
			matched = append(matched, r.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, byCreation)
	return matched, nil
}

func byCreation(a, b *resource.Resource) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

func compareField(a, b *resource.Resource, field string) int {
	switch field {
	case resource.SortByName:
		return strings.Compare(a.Name, b.Name)
	case resource.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case resource.SortBySize:
		return cmp.Compare(a.Size, b.Size)
	}
	return 0
}

func (s *Store) GetMetadata(_ context.Context, id uuid.UUID) (*resource.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	md, ok := s.metadata[id]
	if !ok {
		return nil, notFound(resource.CodeMetadataNotFound, id)
	}
	return md.Clone(), nil
}

func (s *Store) SaveMetadata(_ context.Context, md *resource.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[md.ResourceID]; !ok {
		return notFound(resource.CodeResourceNotFound, md.ResourceID)
	}
	s.metadata[md.ResourceID] = md.Clone()
	return nil
}

func notFound(code string, id uuid.UUID) error {
	return errx.New(
		"not found",
		errx.WithCode(code),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"resource_id": id.String()}),
	)
}
