package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/cfgloader"
)

type storageConfig struct {
	Backend   string `yaml:"backend"    validate:"required,oneof=local minio s3"`
	SecretKey string `yaml:"secret_key" mask:"true"`
}

type testConfig struct {
	Name    string        `yaml:"name"    validate:"required"`
	Port    int           `yaml:"port"    default:"8080"`
	Timeout time.Duration `yaml:"timeout" default:"5s"`
	Storage storageConfig `yaml:"storage"`
}

func writeConfig(t *testing.T, env, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Setenv("ENVIRONMENT", cfgloader.EnvTest)
	t.Setenv("TEST_SECRET", "s3cr3t")
	dir := writeConfig(t, "test", "name: dataresource\nstorage:\n  backend: minio\n  secret_key: ${TEST_SECRET}\n")

	cfg, err := cfgloader.Load[testConfig](cfgloader.WithConfigDir(dir), cfgloader.WithSilent())
	require.NoError(t, err)

	assert.Equal(t, "dataresource", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "s3cr3t", cfg.Storage.SecretKey)
}

func TestLoad_ExplicitEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	dir := writeConfig(t, "local", "name: x\nport: 9090\nstorage:\n  backend: local\n")

	cfg, err := cfgloader.Load[testConfig](
		cfgloader.WithConfigDir(dir),
		cfgloader.WithEnvironment(cfgloader.EnvLocal),
		cfgloader.WithSilent(),
	)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		content string
		fields  errx.M
	}{
		{name: "invalid environment", env: "qa", content: "name: x\n"},
		{name: "missing file", env: cfgloader.EnvDev},
		{name: "malformed yaml", env: cfgloader.EnvTest, content: "name: [x\n"},
		{
			name:    "validation",
			env:     cfgloader.EnvTest,
			content: "storage:\n  backend: gcs\n",
			fields: errx.M{
				"testConfig.Name":            "required",
				"testConfig.Storage.Backend": "oneof=local minio s3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)

			dir := t.TempDir()
			if tt.content != "" {
				dir = writeConfig(t, tt.env, tt.content)
			}

			_, err := cfgloader.Load[testConfig](cfgloader.WithConfigDir(dir), cfgloader.WithSilent())
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidConfig))
			if tt.fields != nil {
				assert.Equal(t, tt.fields, errx.AsErrorX(err).Fields())
			}
		})
	}
}

func TestLoad_PointerType(t *testing.T) {
	_, err := cfgloader.Load[*testConfig](cfgloader.WithSilent())
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidConfig))
}
