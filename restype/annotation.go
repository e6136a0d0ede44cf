package restype

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/rise-and-shine/dataresource/elemset"
)

// annotation is a table with one element per row: the first column holds
// the element id and the remaining columns its attributes.
type annotation struct {
	table
	kind elemset.Kind
}

// NewAnnotationTable returns the handler for sample annotation tables.
func NewAnnotationTable(fs afero.Fs) Handler {
	return annotation{table: table{fs: fs}, kind: elemset.Observation}
}

// NewFeatureTable returns the handler for tables describing one feature per row.
func NewFeatureTable(fs afero.Fs) Handler {
	return annotation{table: table{fs: fs}, kind: elemset.Feature}
}

func (a annotation) Code() Code {
	if a.kind == elemset.Feature {
		return FeatureTable
	}
	return AnnotationTable
}

func (a annotation) Description() string {
	if a.kind == elemset.Feature {
		return "Feature table"
	}
	return "Annotation table"
}

func (annotation) AcceptableExtensions() []string { return tableExtensions }

func (annotation) PerformsValidation() bool { return true }

func (a annotation) ValidateType(_ context.Context, localPath string) (bool, string, error) {
	records, problem, err := a.read(localPath)
	if err != nil || problem != "" {
		return false, problem, err
	}
	if _, problem = a.parse(records); problem != "" {
		return false, problem, nil
	}
	return true, "", nil
}

func (a annotation) SaveInStandardizedFormat(_ context.Context, localPath, name string) (string, string, error) {
	return a.standardize(localPath, name)
}

func (a annotation) ExtractMetadata(_ context.Context, localPath string) (Metadata, error) {
	records, problem, err := a.read(localPath)
	if err != nil {
		return Metadata{}, err
	}
	var set *elemset.Set
	if problem == "" {
		set, problem = a.parse(records)
	}
	if problem != "" {
		return Metadata{}, errx.New(problem, errx.WithCode(CodeReadFailed), errx.WithDetails(errx.D{"path": localPath}))
	}
	if a.kind == elemset.Feature {
		return Metadata{FeatureSet: set}, nil
	}
	return Metadata{ObservationSet: set}, nil
}

func (a annotation) GetContents(_ context.Context, localPath string, q ContentQuery) (*Contents, error) {
	return a.contents(localPath, q)
}

func (a annotation) parse(records [][]string) (*elemset.Set, string) {
	if len(records) < 2 {
		return nil, "The table must contain a header row and at least one data row."
	}
	columns := records[0][1:]
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Sprintf("Column %d has an empty header.", i+2)
		}
	}
	if dup, ok := firstDuplicate(columns); ok {
		return nil, fmt.Sprintf("The column %q appears more than once.", dup)
	}

	set, err := elemset.New(a.kind, true)
	if err != nil {
		return nil, err.Error()
	}
	for i, row := range records[1:] {
		attrs := make(map[string]elemset.Attribute, len(columns))
		for j, cell := range row[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			attrs[columns[j]] = inferAttribute(cell)
		}
		el, elErr := elemset.NewElement(strings.TrimSpace(row[0]), attrs)
		if elErr == nil {
			elErr = set.Add(el)
		}
		if elErr != nil {
			return nil, fmt.Sprintf("Row %d is invalid: %v", i+2, elErr)
		}
	}
	return set, ""
}

// inferAttribute types a cell as an integer, a float, a boolean or free text, in that order.
func inferAttribute(cell string) elemset.Attribute {
	if !strings.ContainsAny(cell, ".eE") {
		if n, err := cast.ToInt64E(cell); err == nil {
			return elemset.Attribute{Type: elemset.Integer, Value: n}
		}
	}
	if f, err := cast.ToFloat64E(cell); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return elemset.Attribute{Type: elemset.Float, Value: f}
	}
	switch strings.ToLower(cell) {
	case "true", "false":
		return elemset.Attribute{Type: elemset.Boolean, Value: strings.EqualFold(cell, "true")}
	}
	return elemset.Attribute{Type: elemset.UnrestrictedString, Value: cell}
}
