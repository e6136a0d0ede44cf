package tracing

import "time"

const (
	reconnectionPeriod = 30 * time.Second
	exportTimeout      = 10 * time.Second
	batchTimeout       = 5 * time.Second
	maxQueueSize       = 4096
	maxExportBatchSize = 512
	shutdownTimeout    = 5 * time.Second
)

// Config selects the OTLP collector spans are exported to.
type Config struct {
	// Disable installs a no-op provider; spans are neither sampled nor exported.
	Disable bool `yaml:"disable" default:"false"`

	// SampleRate is the fraction of root traces kept, between 0 and 1. Zero
	// falls back to the default; use Disable to turn tracing off.
	SampleRate float64 `yaml:"sample_rate" default:"1" validate:"gte=0,lte=1"`

	ExporterHost string `yaml:"exporter_host" validate:"required_unless=Disable true"`
	ExporterPort int    `yaml:"exporter_port" validate:"required_unless=Disable true"`

	// Tags are added to every span's resource, e.g. deployment.environment.
	Tags map[string]string `yaml:"tags"`
}
