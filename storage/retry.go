package storage

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"

	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/resource"
)

type RetryConfig struct {
	// Attempts counts the first call. 1 disables retrying.
	Attempts  uint          `yaml:"attempts"   default:"3"     validate:"min=1"`
	Delay     time.Duration `yaml:"delay"      default:"200ms"`
	MaxJitter time.Duration `yaml:"max_jitter" default:"100ms"`
}

type retrying struct {
	next   Backend
	cfg    RetryConfig
	logger logger.Logger
}

// WithRetry retries the network bound operations of next. Missing sources
// are reported at once.
func WithRetry(next Backend, cfg RetryConfig, log logger.Logger) Backend {
	if cfg.Attempts <= 1 {
		return next
	}
	return &retrying{next: next, cfg: cfg, logger: log.Named("storage.retry")}
}

func (r *retrying) LocalPath(ctx context.Context, res *resource.Resource) (string, error) {
	return do(ctx, r, "local_path", func() (string, error) { return r.next.LocalPath(ctx, res) })
}

func (r *retrying) Store(ctx context.Context, res *resource.Resource) (string, error) {
	return do(ctx, r, "store", func() (string, error) { return r.next.Store(ctx, res) })
}

func (r *retrying) Delete(ctx context.Context, path string) error {
	return r.next.Delete(ctx, path)
}

func (r *retrying) Filesize(ctx context.Context, path string) (int64, error) {
	return do(ctx, r, "filesize", func() (int64, error) { return r.next.Filesize(ctx, path) })
}

func do[T any](ctx context.Context, r *retrying, op string, fn func() (T, error)) (T, error) {
	log := r.logger.WithContext(ctx)
	return retry.DoWithData(
		fn,
		retry.Attempts(r.cfg.Attempts),
		retry.Delay(r.cfg.Delay),
		retry.MaxJitter(r.cfg.MaxJitter),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errx.GetType(err) != errx.T_NotFound
		}),
		retry.OnRetry(func(n uint, err error) {
			log.With("operation", op, "attempt", n+1, "max_attempts", r.cfg.Attempts).Warnx(err)
		}),
		retry.Context(ctx),
	)
}
