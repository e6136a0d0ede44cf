package cfgloader

// Options holds configuration options for Load.
type Options struct {
	// Silent disables printing the loaded config.
	Silent bool

	// ConfigDir holds the ${ENVIRONMENT}.yaml files. Defaults to ./config.
	ConfigDir string

	// Environment overrides the ENVIRONMENT variable.
	Environment string
}

// Option is a functional option for configuring Load behavior.
type Option func(*Options)

// WithSilent disables config logging to stdout.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithConfigDir reads config files from dir.
func WithConfigDir(dir string) Option {
	return func(o *Options) {
		o.ConfigDir = dir
	}
}

// WithEnvironment selects env instead of reading ENVIRONMENT.
func WithEnvironment(env string) Option {
	return func(o *Options) {
		o.Environment = env
	}
}

func newOptions(opts []Option) *Options {
	o := &Options{ConfigDir: "./config"}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
