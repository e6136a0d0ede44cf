// Package pg opens the PostgreSQL connection used by the resource store and
// wraps pgx errors with query details.
package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"

	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/pg/hooks"
)

// NewBunDB opens a bun database over a pgx pool. Query tracing is always on;
// query logging follows cfg.Debug.
func NewBunDB(ctx context.Context, cfg Config, log logger.Logger) (*bun.DB, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())

	db.AddQueryHook(hooks.NewDebugHook(
		log,
		hooks.WithEnabled(cfg.Debug),
		hooks.WithVerbose(true),
	))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.Database)))

	return db, nil
}
