package restype

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/code19m/errx"
	"github.com/spf13/afero"
)

type jsonFile struct {
	fs afero.Fs
}

// NewJSON returns the handler for JSON documents.
func NewJSON(fs afero.Fs) Handler { return jsonFile{fs: fs} }

func (jsonFile) Code() Code { return JSON }

func (jsonFile) Description() string { return "JSON-format file" }

func (jsonFile) AcceptableExtensions() []string { return []string{"json"} }

func (jsonFile) PerformsValidation() bool { return true }

func (h jsonFile) ValidateType(_ context.Context, localPath string) (bool, string, error) {
	data, err := afero.ReadFile(h.fs, localPath)
	if err != nil {
		return false, "", readFailed(err, localPath)
	}
	var v any
	if err = json.Unmarshal(data, &v); err != nil {
		return false, fmt.Sprintf(
			"There was an issue with the JSON formatting. The reported error was: %v", err,
		), nil
	}
	return true, "", nil
}

func (jsonFile) SaveInStandardizedFormat(_ context.Context, localPath, name string) (string, string, error) {
	return localPath, name, nil
}

func (jsonFile) ExtractMetadata(context.Context, string) (Metadata, error) {
	return Metadata{}, nil
}

func (jsonFile) GetContents(context.Context, string, ContentQuery) (*Contents, error) {
	return nil, errx.New(
		"JSON files have no tabular preview",
		errx.WithCode(CodeNotPreviewable),
		errx.WithType(errx.T_Validation),
	)
}

func readFailed(err error, path string) error {
	return errx.Wrap(err, errx.WithCode(CodeReadFailed), errx.WithDetails(errx.D{"path": path}))
}
