// Package hooks holds bun query hooks.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/observability/logger"
)

var _ bun.QueryHook = (*DebugHook)(nil)

// DebugHook logs queries. Failed and slow queries are always logged when the
// hook is enabled; successful ones only in verbose mode.
type DebugHook struct {
	log                logger.Logger
	enabled            bool
	verbose            bool
	slowQueryThreshold time.Duration
}

type DebugHookOption func(*DebugHook)

// NewDebugHook returns an enabled, verbose hook with a 100ms slow query threshold.
func NewDebugHook(log logger.Logger, opts ...DebugHookOption) *DebugHook {
	hook := &DebugHook{
		log:                log.Named("bun_debug_hook"),
		enabled:            true,
		verbose:            true,
		slowQueryThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(hook)
	}
	return hook
}

func WithEnabled(enabled bool) DebugHookOption {
	return func(h *DebugHook) { h.enabled = enabled }
}

func WithVerbose(verbose bool) DebugHookOption {
	return func(h *DebugHook) { h.verbose = verbose }
}

// WithSlowQueryThreshold sets the warn threshold. Zero disables slow query detection.
func WithSlowQueryThreshold(threshold time.Duration) DebugHookOption {
	return func(h *DebugHook) { h.slowQueryThreshold = threshold }
}

func (h *DebugHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *DebugHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !h.enabled {
		return
	}

	duration := time.Since(event.StartTime)
	noRows := errors.Is(event.Err, sql.ErrNoRows)
	failed := event.Err != nil && !noRows && !errors.Is(event.Err, sql.ErrTxDone)
	slow := h.slowQueryThreshold > 0 && duration >= h.slowQueryThreshold

	if !h.verbose && !failed && !noRows && !slow {
		return
	}

	entry := h.log.WithContext(ctx).With(
		"query", strings.ReplaceAll(event.Query, `"`, ""),
		"duration", duration.Round(time.Microsecond),
	)
	msg := "[bun-debug] - " + event.Operation()

	switch {
	case failed:
		entry.With("error", event.Err).Error(msg)
	case noRows:
		entry.With("error", event.Err).Warn(msg)
	case slow:
		entry.Warn(msg)
	default:
		entry.Debug(msg)
	}
}
