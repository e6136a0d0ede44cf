package cfgloader

import (
	"github.com/code19m/errx"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/dataresource/mask"
	"github.com/rise-and-shine/dataresource/observability/logger"
)

func printConfig(config any) {
	out, err := renderConfig(config)
	if err != nil {
		logger.Errorx(err)
		return
	}
	logger.Infof("Loaded config:\n%s", out)
}

// renderConfig returns the flattened config as YAML with masked fields hidden.
func renderConfig(config any) (string, error) {
	out, err := yaml.Marshal(mask.StructToMap(config))
	if err != nil {
		return "", errx.Wrap(err)
	}
	return string(out), nil
}
