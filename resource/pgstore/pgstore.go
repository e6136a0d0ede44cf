// Package pgstore is the PostgreSQL resource.Store built on bun.
package pgstore

import (
	"context"
	"database/sql"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/pg"
	"github.com/rise-and-shine/dataresource/repogen"
	"github.com/rise-and-shine/dataresource/resource"
)

// workspaceLink is one row of the resource/workspace many-to-many table.
type workspaceLink struct {
	bun.BaseModel `bun:"table:resource_workspaces,alias:rw"`

	ResourceID  uuid.UUID `bun:"resource_id,pk,type:uuid"`
	WorkspaceID uuid.UUID `bun:"workspace_id,pk,type:uuid"`
}

type Store struct {
	db        *bun.DB
	schema    string
	resources *repogen.PgRepo[resource.Resource]
	metadata  *repogen.PgRepo[resource.Metadata]
}

var _ resource.Store = (*Store)(nil)

func New(db *bun.DB, schema string) *Store {
	return &Store{
		db:     db,
		schema: schema,
		resources: repogen.NewPgRepo[resource.Resource](
			db, schema, resource.CodeResourceNotFound,
			map[string]string{"resources_pkey": resource.CodeResourceExists},
		),
		metadata: repogen.NewPgRepo[resource.Metadata](db, schema, resource.CodeMetadataNotFound, nil),
	}
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	r, err := s.resources.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("r.id = ?", id)
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	var links []workspaceLink
	q := s.db.NewSelect().Model(&links).
		ModelTableExpr("?.resource_workspaces AS rw", bun.Ident(s.schema)).
		Where("rw.resource_id = ?", id).
		OrderExpr("rw.workspace_id")
	if err = q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	r.WorkspaceIDs = lo.Map(links, func(l workspaceLink, _ int) uuid.UUID { return l.WorkspaceID })

	return r, nil
}

// List pages resources and loads the workspace links of the page in one query.
func (s *Store) List(ctx context.Context, lq resource.ListQuery) ([]*resource.Resource, int, error) {
	rows, total, err := s.resources.ListWithCount(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		if lq.Owner != uuid.Nil {
			q = q.Where("r.owner_id = ?", lq.Owner)
		}
		for _, o := range lq.Sort {
			q = q.OrderExpr("r." + o.ToSQL())
		}
		q = q.OrderExpr("r.created_at ASC").OrderExpr("r.id ASC")
		if lq.Limit > 0 {
			q = q.Limit(lq.Limit)
		}
		return q.Offset(lq.Offset)
	})
	if err != nil {
		return nil, 0, errx.Wrap(err)
	}
	if len(rows) == 0 {
		return []*resource.Resource{}, total, nil
	}

	page, err := s.withLinks(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// ListByWorkspace returns every resource linked to workspaceID in creation order.
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*resource.Resource, error) {
	rows, err := s.resources.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		linked := s.db.NewSelect().
			TableExpr("?.resource_workspaces AS rw", bun.Ident(s.schema)).
			Column("rw.resource_id").
			Where("rw.workspace_id = ?", workspaceID)
		return q.Where("r.id IN (?)", linked).
			OrderExpr("r.created_at ASC").
			OrderExpr("r.id ASC")
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if len(rows) == 0 {
		return []*resource.Resource{}, nil
	}
	return s.withLinks(ctx, rows)
}

// withLinks loads the workspace links of rows in one query.
func (s *Store) withLinks(ctx context.Context, rows []resource.Resource) ([]*resource.Resource, error) {
	page := lo.Map(rows, func(_ resource.Resource, i int) *resource.Resource { return &rows[i] })
	ids := lo.Map(page, func(r *resource.Resource, _ int) uuid.UUID { return r.ID })

	var links []workspaceLink
	q := s.db.NewSelect().Model(&links).
		ModelTableExpr("?.resource_workspaces AS rw", bun.Ident(s.schema)).
		Where("rw.resource_id IN (?)", bun.In(ids)).
		OrderExpr("rw.workspace_id")
	if err := q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	byResource := lo.GroupBy(links, func(l workspaceLink) uuid.UUID { return l.ResourceID })
	for _, r := range page {
		r.WorkspaceIDs = lo.Map(byResource[r.ID], func(l workspaceLink, _ int) uuid.UUID { return l.WorkspaceID })
	}
	return page, nil
}

func (s *Store) Create(ctx context.Context, r *resource.Resource) error {
	return s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.resources.WithIDB(tx).Create(ctx, r); err != nil {
			return errx.Wrap(err)
		}
		return s.insertLinks(ctx, tx, r)
	})
}

// Save updates the row and replaces its workspace links in one transaction.
func (s *Store) Save(ctx context.Context, r *resource.Resource) error {
	return s.inTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.resources.WithIDB(tx).Update(ctx, r); err != nil {
			return errx.Wrap(err)
		}
		q := tx.NewDelete().Model((*workspaceLink)(nil)).
			ModelTableExpr("?.resource_workspaces AS rw", bun.Ident(s.schema)).
			Where("rw.resource_id = ?", r.ID)
		if _, err := q.Exec(ctx); err != nil {
			return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
		}
		return s.insertLinks(ctx, tx, r)
	})
}

func (s *Store) GetMetadata(ctx context.Context, id uuid.UUID) (*resource.Metadata, error) {
	md, err := s.metadata.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("rm.resource_id = ?", id)
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return md.Typed(), nil
}

func (s *Store) SaveMetadata(ctx context.Context, md *resource.Metadata) error {
	err := s.metadata.Upsert(ctx, md,
		[]string{"resource_id"},
		[]string{"observation_set", "feature_set", "parent_operation", "updated_at"},
	)
	if err != nil {
		return errx.Wrap(err)
	}
	return nil
}

func (s *Store) insertLinks(ctx context.Context, tx bun.Tx, r *resource.Resource) error {
	if len(r.WorkspaceIDs) == 0 {
		return nil
	}
	links := lo.Map(lo.Uniq(r.WorkspaceIDs), func(ws uuid.UUID, _ int) workspaceLink {
		return workspaceLink{ResourceID: r.ID, WorkspaceID: ws}
	})
	q := tx.NewInsert().Model(&links).
		ModelTableExpr("?.resource_workspaces AS rw", bun.Ident(s.schema))
	if _, err := q.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, fn)
}
