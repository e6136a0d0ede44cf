package logger_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/meta"
	"github.com/rise-and-shine/dataresource/observability/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Config
		wantErr bool
	}{
		{name: "json", cfg: logger.Config{Level: "info", Encoding: "json"}},
		{name: "pretty", cfg: logger.Config{Level: "debug", Encoding: "pretty"}},
		{name: "disabled", cfg: logger.Config{Disable: true}},
		{name: "bad level", cfg: logger.Config{Level: "loud", Encoding: "json"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestLogger_DoesNotPanic(t *testing.T) {
	l, err := logger.New(logger.Config{Level: "debug", Encoding: "pretty"})
	require.NoError(t, err)

	ctx := meta.With(t.Context(), meta.ResourceID, "r-1")
	child := l.Named("test").WithContext(ctx).With("k", "v")

	assert.NotPanics(t, func() {
		child.Debug("debug")
		child.Infof("info %d", 1)
		child.Warnx(errx.New("plain warning", errx.WithCode("SOME_CODE")))
		child.Errorx(assert.AnError)
	})
}
