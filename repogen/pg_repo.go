// Package repogen provides a generic bun repository for a single table.
package repogen

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/pg"
)

const (
	codeMultipleRowsFound      = "MULTIPLE_ROWS_FOUND"
	codeIncorrectRowsAffection = "INCORRECT_ROWS_AFFECTION"
)

// PgRepo reads and writes entities of type E in a fixed schema.
type PgRepo[E any] struct {
	idb          bun.IDB
	schemaName   string
	notFoundCode string

	// conflictCodes maps constraint names to error codes, e.g. "resources_pkey" -> "RESOURCE_ALREADY_EXISTS".
	conflictCodes map[string]string
}

func NewPgRepo[E any](idb bun.IDB, schemaName, notFoundCode string, conflictCodes map[string]string) *PgRepo[E] {
	return &PgRepo[E]{
		idb:           idb,
		schemaName:    schemaName,
		notFoundCode:  notFoundCode,
		conflictCodes: conflictCodes,
	}
}

// WithIDB returns a copy bound to idb, typically a transaction.
func (r *PgRepo[E]) WithIDB(idb bun.IDB) *PgRepo[E] {
	c := *r
	c.idb = idb
	return &c
}

// Get returns the single entity selected by filter.
func (r *PgRepo[E]) Get(ctx context.Context, filter func(q *bun.SelectQuery) *bun.SelectQuery) (*E, error) {
	entities := make([]E, 0)
	q := r.idb.NewSelect().Model(&entities).Limit(2) //nolint:mnd // two rows are enough to detect duplicates
	q = r.selectTableExpr(q)
	q = filter(q)

	if err := q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	switch len(entities) {
	case 0:
		return nil, errx.New(
			fmt.Sprintf("no %s found", nameOf[E]()),
			errx.WithCode(r.notFoundCode),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(pg.GetPgErrorDetails(nil, q)),
		)
	case 1:
		return &entities[0], nil
	default:
		return nil, errx.New(
			fmt.Sprintf("multiple %s found", nameOf[E]()),
			errx.WithCode(codeMultipleRowsFound),
			errx.WithDetails(pg.GetPgErrorDetails(nil, q)),
		)
	}
}

// List returns every entity selected by filter.
func (r *PgRepo[E]) List(ctx context.Context, filter func(q *bun.SelectQuery) *bun.SelectQuery) ([]E, error) {
	entities := make([]E, 0)
	q := r.idb.NewSelect().Model(&entities)
	q = r.selectTableExpr(q)
	q = filter(q)

	if err := q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return entities, nil
}

// ListWithCount returns the entities selected by filter and the count of all
// rows matching it, ignoring any limit or offset the filter applied.
func (r *PgRepo[E]) ListWithCount(
	ctx context.Context,
	filter func(q *bun.SelectQuery) *bun.SelectQuery,
) ([]E, int, error) {
	entities := make([]E, 0)
	q := r.idb.NewSelect().Model(&entities)
	q = r.selectTableExpr(q)
	q = filter(q)

	if err := q.Scan(ctx); err != nil {
		return nil, 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	count, err := q.Offset(0).Limit(0).Count(ctx)
	if err != nil {
		return nil, 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return entities, count, nil
}

func (r *PgRepo[E]) Create(ctx context.Context, entity *E) error {
	q := r.idb.NewInsert().Model(entity)
	q = r.insertTableExpr(q)
	if _, err := q.Exec(ctx); err != nil {
		return r.wrapWrite(err, q, "creating")
	}
	return nil
}

// Update writes every column of entity and fails with the not-found code when no row matches.
func (r *PgRepo[E]) Update(ctx context.Context, entity *E) error {
	q := r.idb.NewUpdate().Model(entity).WherePK()
	q = r.updateTableExpr(q)
	result, err := q.Exec(ctx)
	if err != nil {
		return r.wrapWrite(err, q, "updating")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	if affected != 1 {
		return errx.New(
			fmt.Sprintf("no %s found to update", nameOf[E]()),
			errx.WithCode(r.notFoundCode),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"rows_affected": affected}),
		)
	}
	return nil
}

// Upsert inserts entity or, on a conflict over conflictColumns, overwrites updateColumns.
func (r *PgRepo[E]) Upsert(ctx context.Context, entity *E, conflictColumns, updateColumns []string) error {
	q := r.idb.NewInsert().Model(entity).
		On(fmt.Sprintf("CONFLICT (%s) DO UPDATE", strings.Join(conflictColumns, ", ")))
	for _, col := range updateColumns {
		q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
	}
	q = r.insertTableExpr(q)
	if _, err := q.Exec(ctx); err != nil {
		return r.wrapWrite(err, q, "upserting")
	}
	return nil
}

func (r *PgRepo[E]) wrapWrite(err error, q fmt.Stringer, action string) error {
	if code, ok := r.conflictCodes[pg.ConstraintName(err)]; ok {
		return errx.New(
			fmt.Sprintf("conflict while %s %s", action, nameOf[E]()),
			errx.WithCode(code),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(pg.GetPgErrorDetails(err, q)),
		)
	}
	return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
}

func (r *PgRepo[E]) selectTableExpr(q *bun.SelectQuery) *bun.SelectQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // model is always a table model
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.schemaName), bun.Ident(table.Name), bun.Ident(table.Alias))
}

func (r *PgRepo[E]) insertTableExpr(q *bun.InsertQuery) *bun.InsertQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // model is always a table model
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.schemaName), bun.Ident(table.Name), bun.Ident(table.Alias))
}

func (r *PgRepo[E]) updateTableExpr(q *bun.UpdateQuery) *bun.UpdateQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // model is always a table model
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.schemaName), bun.Ident(table.Name), bun.Ident(table.Alias))
}

func nameOf[E any]() string {
	return reflect.TypeFor[E]().Name()
}
