// Package restype defines resource type codes and the handlers that validate,
// standardize and describe files of each type.
package restype

import (
	"context"

	"github.com/rise-and-shine/dataresource/elemset"
)

// Code identifies a resource type.
type Code string

const (
	// Wildcard is the general file type. It is never content-checked.
	Wildcard        Code = "*"
	JSON            Code = "JSON"
	AnnotationTable Code = "ANN"
	NumericMatrix   Code = "MTX"
	IntegerMatrix   Code = "I_MTX"
	FeatureTable    Code = "FT"
)

// Ptr returns a pointer to c, for optional type fields.
func (c Code) Ptr() *Code { return &c }

func (c Code) String() string { return string(c) }

// Metadata is what a handler extracts from a file. Either set may be nil.
type Metadata struct {
	ObservationSet *elemset.Set
	FeatureSet     *elemset.Set
}

// ContentQuery selects a page of a file preview.
type ContentQuery struct {
	Page     int
	PageSize int
}

// Contents is a read-only preview of tabular content.
type Contents struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
}

// Handler validates and describes files of one resource type.
type Handler interface {
	Code() Code
	// Description is the human readable type name shown in status messages.
	Description() string
	AcceptableExtensions() []string
	// PerformsValidation is false for types that are trivially valid and need no local copy.
	PerformsValidation() bool
	// ValidateType reports whether the file matches the type. Format problems are
	// returned as (false, reason, nil); only unexpected failures return an error.
	ValidateType(ctx context.Context, localPath string) (bool, string, error)
	// SaveInStandardizedFormat may rewrite the file and returns the new path and
	// name, or the inputs unchanged when no rewrite is needed.
	SaveInStandardizedFormat(ctx context.Context, localPath, name string) (string, string, error)
	// ExtractMetadata returns the sets described by the file; an empty Metadata for types without any.
	ExtractMetadata(ctx context.Context, localPath string) (Metadata, error)
	GetContents(ctx context.Context, localPath string, q ContentQuery) (*Contents, error)
}
