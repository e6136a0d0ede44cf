package hooks_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/pg/hooks"
)

func TestDebugHook_AfterQuery(t *testing.T) {
	tests := []struct {
		name string
		opts []hooks.DebugHookOption
		err  error
	}{
		{name: "disabled", opts: []hooks.DebugHookOption{hooks.WithEnabled(false)}},
		{name: "verbose success"},
		{name: "quiet success", opts: []hooks.DebugHookOption{hooks.WithVerbose(false)}},
		{name: "no rows", err: sql.ErrNoRows},
		{name: "failure", err: assert.AnError},
		{name: "slow", opts: []hooks.DebugHookOption{hooks.WithSlowQueryThreshold(time.Nanosecond)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hooks.NewDebugHook(logger.NewNop(), tt.opts...)
			event := &bun.QueryEvent{
				Query:     `SELECT "r"."id" FROM "resources" AS "r"`,
				StartTime: time.Now().Add(-time.Millisecond),
				Err:       tt.err,
			}
			ctx := h.BeforeQuery(t.Context(), event)
			assert.NotPanics(t, func() { h.AfterQuery(ctx, event) })
		})
	}
}
