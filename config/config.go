// Package config holds the application configuration loaded by cfgloader.
package config

import (
	"time"

	"github.com/rise-and-shine/dataresource/filestore/miniowr"
	"github.com/rise-and-shine/dataresource/filestore/s3wr"
	"github.com/rise-and-shine/dataresource/http/server"
	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/observability/tracing"
	"github.com/rise-and-shine/dataresource/pg"
	"github.com/rise-and-shine/dataresource/pipeline"
	"github.com/rise-and-shine/dataresource/storage"
	"github.com/rise-and-shine/dataresource/taskq"
)

// Storage backend names.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
	BackendS3    = "s3"
)

// Store driver names.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Service    Service         `yaml:"service"`
	Logger     logger.Config   `yaml:"logger"`
	HTTPServer server.Config   `yaml:"http_server"`
	Storage    Storage         `yaml:"storage"`
	Store      Store           `yaml:"store"`
	Pipeline   pipeline.Config `yaml:"pipeline"`
	Tasks      taskq.Config    `yaml:"tasks"`
	Metrics    Metrics         `yaml:"metrics"`
	Tracing    tracing.Config  `yaml:"tracing"`
}

type Service struct {
	Name    string `yaml:"name"    default:"dataresource"`
	Version string `yaml:"version" default:"dev"`
}

// Storage selects where committed files live.
type Storage struct {
	Backend string `yaml:"backend" default:"local" validate:"oneof=local minio s3"`

	Local Local           `yaml:"local"`
	Minio *miniowr.Config `yaml:"minio" validate:"required_if=Backend minio"`
	S3    *s3wr.Config    `yaml:"s3"    validate:"required_if=Backend s3"`

	// CacheDir keeps local copies of remote objects for validation.
	CacheDir string `yaml:"cache_dir" default:"/tmp/dataresource/cache"`

	Retry storage.RetryConfig `yaml:"retry"`
}

type Local struct {
	RootDir string `yaml:"root_dir" default:"./data/resources"`
}

// Store selects the resource database.
type Store struct {
	Driver   string     `yaml:"driver"   default:"memory" validate:"oneof=memory postgres"`
	Postgres *pg.Config `yaml:"postgres" validate:"required_if=Driver postgres"`
}

type Metrics struct {
	// LogInterval periodically logs every registered metric. Zero disables it.
	LogInterval time.Duration `yaml:"log_interval" default:"1m"`
}
