package filestore

import (
	"path/filepath"
	"strings"
)

const (
	ContentTypeTSV    = "text/tab-separated-values"
	ContentTypeCSV    = "text/csv"
	ContentTypeText   = "text/plain"
	ContentTypeJSON   = "application/json"
	ContentTypeGzip   = "application/gzip"
	ContentTypeBinary = "application/octet-stream"
)

// ContentTypeFor guesses the MIME type of an object from its key.
func ContentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".tsv", ".tab":
		return ContentTypeTSV
	case ".csv":
		return ContentTypeCSV
	case ".txt":
		return ContentTypeText
	case ".json":
		return ContentTypeJSON
	case ".gz":
		return ContentTypeGzip
	default:
		return ContentTypeBinary
	}
}
