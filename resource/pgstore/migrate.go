package pgstore

import (
	"context"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/pg"
	"github.com/rise-and-shine/dataresource/resource"
)

const workspaceIndex = "resource_workspaces_workspace_idx"

// Migrate creates the schema and the resource tables when they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS ?", bun.Ident(s.schema)); err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"schema": s.schema}))
	}

	for _, model := range []any{
		(*resource.Resource)(nil),
		(*resource.Metadata)(nil),
		(*workspaceLink)(nil),
	} {
		q := s.db.NewCreateTable().Model(model).IfNotExists()
		table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // model is always a table model
		q = q.ModelTableExpr("?.?", bun.Ident(s.schema), bun.Ident(table.Name))
		if _, err := q.Exec(ctx); err != nil {
			return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
		}
	}

	// CreateIndexQuery cannot render itself, so the index name stands in for the query text.
	q := s.db.NewCreateIndex().Model((*workspaceLink)(nil)).
		ModelTableExpr("?.resource_workspaces", bun.Ident(s.schema)).
		Index(workspaceIndex).
		IfNotExists().
		Column("workspace_id")
	if _, err := q.Exec(ctx); err != nil {
		details := pg.GetPgErrorDetails(err, nil)
		details["index"] = workspaceIndex
		return errx.Wrap(err, errx.WithDetails(details))
	}
	return nil
}
