package config_test

import (
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/cfgloader"
	"github.com/rise-and-shine/dataresource/config"
)

func TestLocalConfigLoads(t *testing.T) {
	cfg, err := cfgloader.Load[config.Config](
		cfgloader.WithConfigDir("."),
		cfgloader.WithEnvironment(cfgloader.EnvLocal),
		cfgloader.WithSilent(),
	)
	require.NoError(t, err)

	assert.Equal(t, config.BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTPServer.HandleTimeout)
	assert.Equal(t, 8, cfg.Tasks.Partitions)
	assert.Equal(t, uint(3), cfg.Storage.Retry.Attempts)
	assert.Equal(t, time.Minute, cfg.Metrics.LogInterval)
	assert.Nil(t, cfg.Storage.Minio)
	assert.True(t, cfg.Tracing.Disable)
	assert.InDelta(t, 1.0, cfg.Tracing.SampleRate, 0)
}

func TestBackendRequiresItsSection(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "test", "http_server:\n  host: 0.0.0.0\n  port: 8080\nstorage:\n  backend: minio\nstore:\n  driver: postgres\n")

	_, err := cfgloader.Load[config.Config](
		cfgloader.WithConfigDir(dir),
		cfgloader.WithEnvironment(cfgloader.EnvTest),
		cfgloader.WithSilent(),
	)
	require.Error(t, err)

	fields := errx.AsErrorX(err).Fields()
	assert.Contains(t, fields, "Config.Storage.Minio")
	assert.Contains(t, fields, "Config.Store.Postgres")
}

func TestTracingRequiresExporterWhenEnabled(t *testing.T) {
	base := "http_server:\n  host: 0.0.0.0\n  port: 8080\n"

	tests := []struct {
		name    string
		tracing string
		missing []string
	}{
		{name: "enabled without exporter", tracing: "tracing:\n  sample_rate: 0.5\n", missing: []string{"Config.Tracing.ExporterHost", "Config.Tracing.ExporterPort"}},
		{name: "sample rate out of range", tracing: "tracing:\n  disable: true\n  sample_rate: 2\n", missing: []string{"Config.Tracing.SampleRate"}},
		{name: "disabled", tracing: "tracing:\n  disable: true\n"},
		{name: "enabled with exporter", tracing: "tracing:\n  exporter_host: otel\n  exporter_port: 4317\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeYAML(t, dir, "test", base+tt.tracing)

			cfg, err := cfgloader.Load[config.Config](
				cfgloader.WithConfigDir(dir),
				cfgloader.WithEnvironment(cfgloader.EnvTest),
				cfgloader.WithSilent(),
			)
			if len(tt.missing) == 0 {
				require.NoError(t, err)
				assert.InDelta(t, 1.0, cfg.Tracing.SampleRate, 0)
				return
			}
			require.Error(t, err)
			fields := errx.AsErrorX(err).Fields()
			for _, f := range tt.missing {
				assert.Contains(t, fields, f)
			}
		})
	}
}
