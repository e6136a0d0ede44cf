package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/code19m/errx"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/afero"

	"github.com/rise-and-shine/dataresource/api"
	"github.com/rise-and-shine/dataresource/cfgloader"
	"github.com/rise-and-shine/dataresource/config"
	"github.com/rise-and-shine/dataresource/filestore"
	"github.com/rise-and-shine/dataresource/filestore/miniowr"
	"github.com/rise-and-shine/dataresource/filestore/s3wr"
	"github.com/rise-and-shine/dataresource/http/server"
	"github.com/rise-and-shine/dataresource/http/server/middleware"
	"github.com/rise-and-shine/dataresource/meta"
	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/observability/tracing"
	"github.com/rise-and-shine/dataresource/pg"
	"github.com/rise-and-shine/dataresource/pipeline"
	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/resource/memstore"
	"github.com/rise-and-shine/dataresource/resource/pgstore"
	"github.com/rise-and-shine/dataresource/restype"
	"github.com/rise-and-shine/dataresource/storage"
	"github.com/rise-and-shine/dataresource/taskq"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := cfgloader.MustLoad[config.Config]()

	logger.SetGlobal(cfg.Logger)
	defer func() { _ = logger.Sync() }()

	meta.SetServiceInfo(cfg.Service.Name, cfg.Service.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatalx(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log := logger.Named("main")
	fs := afero.NewOsFs()

	shutdownTracer, err := tracing.InitGlobalTracer(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(); err != nil {
			log.Errorx(err)
		}
	}()

	backend, err := newBackend(ctx, cfg.Storage, fs)
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := restype.Default(fs)
	pipe := pipeline.New(store, backend, registry, cfg.Pipeline, logger.Named("dataresource"))

	tasks := taskq.New(pipe, cfg.Tasks, logger.Named("dataresource"))
	if err = tasks.Start(ctx); err != nil {
		return err
	}

	handlers, err := api.New(store, backend, registry, tasks)
	if err != nil {
		return err
	}

	srv := server.NewHTTPServer(cfg.HTTPServer, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HTTPServer.HandleTimeout),
		middleware.NewMetaInjectMW(),
		middleware.NewLoggerMW(logger.Named("http")),
		middleware.NewErrorHandlerMW(cfg.HTTPServer.HideErrorDetails),
	})
	srv.RegisterRouter(handlers.Register)

	if cfg.Metrics.LogInterval > 0 {
		go metrics.Log(metrics.DefaultRegistry, cfg.Metrics.LogInterval, metricsLogger{logger.Named("metrics")})
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", cfg.HTTPServer.Address())
		serveErr <- srv.Start()
	}()

	select {
	case err = <-serveErr:
		_ = tasks.Close()
		return errx.Wrap(err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err = srv.Stop(shutdownCtx); err != nil {
		log.Errorx(errx.Wrap(err))
	}
	if err = tasks.Close(); err != nil {
		log.Errorx(errx.Wrap(err))
	}
	return nil
}

func newBackend(ctx context.Context, cfg config.Storage, fs afero.Fs) (storage.Backend, error) {
	var (
		objects filestore.ObjectStore
		err     error
	)

	switch cfg.Backend {
	case config.BackendMinio:
		objects, err = miniowr.New(ctx, *cfg.Minio)
	case config.BackendS3:
		objects, err = s3wr.New(ctx, *cfg.S3)
	default:
		return storage.NewLocal(fs, cfg.Local.RootDir), nil
	}
	if err != nil {
		return nil, err
	}

	bucket := storage.NewBucket(objects, fs, cfg.CacheDir, logger.Named("storage"))
	return storage.WithRetry(bucket, cfg.Retry, logger.Named("storage")), nil
}

func newStore(ctx context.Context, cfg config.Store) (resource.Store, func(), error) {
	if cfg.Driver != config.DriverPostgres {
		return memstore.New(), func() {}, nil
	}

	db, err := pg.NewBunDB(ctx, *cfg.Postgres, logger.Named("pg"))
	if err != nil {
		return nil, nil, err
	}

	store := pgstore.New(db, cfg.Postgres.Schema)
	if err = store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return store, func() { _ = db.Close() }, nil
}

// metricsLogger feeds go-metrics periodic dumps into the service logger.
type metricsLogger struct {
	logger.Logger
}

func (l metricsLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}
