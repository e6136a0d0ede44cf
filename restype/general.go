package restype

import (
	"context"

	"github.com/code19m/errx"
)

type general struct{}

// NewGeneral returns the wildcard handler. Any file is valid and nothing is extracted.
func NewGeneral() Handler { return general{} }

func (general) Code() Code { return Wildcard }

func (general) Description() string { return "General file" }

func (general) AcceptableExtensions() []string { return []string{"*"} }

func (general) PerformsValidation() bool { return false }

func (general) ValidateType(context.Context, string) (bool, string, error) {
	return true, "", nil
}

func (general) SaveInStandardizedFormat(_ context.Context, localPath, name string) (string, string, error) {
	return localPath, name, nil
}

func (general) ExtractMetadata(context.Context, string) (Metadata, error) {
	return Metadata{}, nil
}

func (general) GetContents(context.Context, string, ContentQuery) (*Contents, error) {
	return nil, errx.New(
		"general files have no preview",
		errx.WithCode(CodeNotPreviewable),
		errx.WithType(errx.T_Validation),
	)
}
