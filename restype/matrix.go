package restype

import (
	"context"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/rise-and-shine/dataresource/elemset"
)

// matrix is a table with sample columns and feature rows holding numbers.
// The first header cell labels the row-id column.
type matrix struct {
	table
	integer bool
}

// NewNumericMatrix returns the handler for tables of floating point values.
func NewNumericMatrix(fs afero.Fs) Handler { return matrix{table: table{fs: fs}} }

// NewIntegerMatrix returns the handler for count tables.
func NewIntegerMatrix(fs afero.Fs) Handler { return matrix{table: table{fs: fs}, integer: true} }

func (m matrix) Code() Code {
	if m.integer {
		return IntegerMatrix
	}
	return NumericMatrix
}

func (m matrix) Description() string {
	if m.integer {
		return "Integer table"
	}
	return "Numeric table"
}

func (matrix) AcceptableExtensions() []string { return tableExtensions }

func (matrix) PerformsValidation() bool { return true }

func (m matrix) ValidateType(_ context.Context, localPath string) (bool, string, error) {
	records, problem, err := m.read(localPath)
	if err != nil || problem != "" {
		return false, problem, err
	}
	if _, _, problem = m.parse(records); problem != "" {
		return false, problem, nil
	}
	return true, "", nil
}

func (m matrix) SaveInStandardizedFormat(_ context.Context, localPath, name string) (string, string, error) {
	return m.standardize(localPath, name)
}

func (m matrix) ExtractMetadata(_ context.Context, localPath string) (Metadata, error) {
	records, problem, err := m.read(localPath)
	if err != nil {
		return Metadata{}, err
	}
	samples, features, parseProblem := m.parse(records)
	if problem == "" {
		problem = parseProblem
	}
	if problem != "" {
		return Metadata{}, errx.New(problem, errx.WithCode(CodeReadFailed), errx.WithDetails(errx.D{"path": localPath}))
	}

	obs, err := idSet(elemset.Observation, samples)
	if err != nil {
		return Metadata{}, err
	}
	feat, err := idSet(elemset.Feature, features)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{ObservationSet: obs, FeatureSet: feat}, nil
}

func (m matrix) GetContents(_ context.Context, localPath string, q ContentQuery) (*Contents, error) {
	return m.contents(localPath, q)
}

// parse returns the sample and feature ids or a message describing the first problem found.
func (m matrix) parse(records [][]string) ([]string, []string, string) {
	if len(records) < 2 {
		return nil, nil, "The table must contain a header row and at least one data row."
	}
	samples := records[0][1:]
	if len(samples) == 0 {
		return nil, nil, "The table must contain at least one sample column."
	}
	if dup, ok := firstDuplicate(samples); ok {
		return nil, nil, fmt.Sprintf("The sample identifier %q appears more than once.", dup)
	}

	features := make([]string, 0, len(records)-1)
	for i, row := range records[1:] {
		id := strings.TrimSpace(row[0])
		if id == "" {
			return nil, nil, fmt.Sprintf("Row %d has an empty identifier.", i+2)
		}
		features = append(features, id)
		for j, cell := range row[1:] {
			if !m.numeric(strings.TrimSpace(cell)) {
				return nil, nil, fmt.Sprintf(
					"Row %d, column %d contains the value %q, which is not %s.",
					i+2, j+2, cell, m.expectation(),
				)
			}
		}
	}
	if dup, ok := firstDuplicate(features); ok {
		return nil, nil, fmt.Sprintf("The row identifier %q appears more than once.", dup)
	}
	return samples, features, ""
}

func (m matrix) numeric(cell string) bool {
	if cell == "" {
		return false
	}
	if m.integer {
		_, err := cast.ToInt64E(cell)
		return err == nil
	}
	_, err := cast.ToFloat64E(cell)
	return err == nil
}

func (m matrix) expectation() string {
	if m.integer {
		return "an integer"
	}
	return "a number"
}

func firstDuplicate(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}

func idSet(kind elemset.Kind, ids []string) (*elemset.Set, error) {
	elems := make([]elemset.Element, 0, len(ids))
	for _, id := range ids {
		el, err := elemset.NewElement(id, nil)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	return elemset.New(kind, true, elems...)
}
