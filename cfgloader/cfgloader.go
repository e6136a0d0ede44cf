// Package cfgloader loads and validates configuration at the start of an application.
package cfgloader

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/dataresource/observability/logger"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

const CodeInvalidConfig = "INVALID_CONFIG"

// Load reads ${ENVIRONMENT}.yaml from the config directory, then expands
// ${VAR} references, applies `default` tags and checks `validate` tags.
// A .env file in the working directory is loaded first when present.
//
// Example:
//
//	type Config struct {
//	    Host     string `yaml:"host" validate:"required"`
//	    Port     int    `yaml:"port" default:"8080"`
//	    LogLevel string `yaml:"log_level" default:"info"`
//	}
func Load[T any](opts ...Option) (T, error) {
	var config T

	o := newOptions(opts)

	if reflect.ValueOf(config).Kind() == reflect.Pointer {
		return config, invalid("type argument must not be a pointer", nil)
	}

	_ = godotenv.Load()

	env, err := defineEnvironment(o)
	if err != nil {
		return config, err
	}

	data, err := readConfigFile(filepath.Join(o.ConfigDir, env+".yaml"))
	if err != nil {
		return config, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return config, invalid(fmt.Sprintf("failed to unmarshal %s config file", env), err)
	}

	err = defaults.Set(&config)
	if err != nil {
		return config, invalid("failed to set default values", err)
	}

	err = validateConfig(&config, env)
	if err != nil {
		return config, err
	}

	if !o.Silent {
		printConfig(config)
	}

	return config, nil
}

// MustLoad is Load that terminates the process on failure.
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		logger.Fatalx(err)
	}
	return config
}

func defineEnvironment(o *Options) (string, error) {
	env := o.Environment
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}

	allowed := []string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}
	if !slices.Contains(allowed, env) {
		return "", errx.New(
			"ENVIRONMENT env variable is not set or invalid",
			errx.WithCode(CodeInvalidConfig),
			errx.WithDetails(errx.D{"environment": env, "choices": strings.Join(allowed, ", ")}),
		)
	}
	return env, nil
}

func readConfigFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errx.New(
			"config file not found, make sure that the yaml file exists for each environment",
			errx.WithCode(CodeInvalidConfig),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeInvalidConfig), errx.WithDetails(errx.D{"path": path}))
	}
	return data, nil
}

func validateConfig(config any, env string) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(config)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors) //nolint: errorlint // validator returns the slice type directly
	if !ok {
		return invalid("config validation failed", err)
	}

	fields := make(errx.M, len(errs))
	for _, fe := range errs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}
		fields[fe.Namespace()] = tag
	}

	return errx.New(
		fmt.Sprintf("invalid fields in %s config", env),
		errx.WithCode(CodeInvalidConfig),
		errx.WithFields(fields),
	)
}

func invalid(msg string, cause error) error {
	if cause != nil {
		return errx.Wrap(cause, errx.WithCode(CodeInvalidConfig), errx.WithDetails(errx.D{"reason": msg}))
	}
	return errx.New(msg, errx.WithCode(CodeInvalidConfig))
}
