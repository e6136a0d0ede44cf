package restype

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/afero"

	"github.com/rise-and-shine/dataresource/pagination"
)

//nolint:gochecknoglobals // shared by every delimited text type
var tableExtensions = []string{"tsv", "tab", "csv", "txt"}

// Paging of table previews.
const (
	DefaultContentsPageSize = 50
	MaxContentsPageSize     = 1000
)

// table reads and writes delimited text. CSV input is comma separated, everything else tab separated.
type table struct {
	fs afero.Fs
}

func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

// read returns the records of the file. A malformed file yields a problem
// message and no error; only I/O failures are errors.
func (t table) read(path string) ([][]string, string, error) {
	f, err := t.fs.Open(path)
	if err != nil {
		return nil, "", readFailed(err, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiterFor(path)
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, readErr := r.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(readErr, &parseErr) {
			return nil, fmt.Sprintf("The file could not be parsed as a table: %v", parseErr), nil
		}
		if readErr != nil {
			return nil, "", readFailed(readErr, path)
		}
		records = append(records, rec)
	}
	return records, "", nil
}

// standardize rewrites CSV files as TSV next to the original. Other files are left alone.
func (t table) standardize(path, name string) (string, string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return path, name, nil
	}

	records, problem, err := t.read(path)
	if err != nil {
		return "", "", err
	}
	if problem != "" {
		return "", "", errx.New(problem, errx.WithCode(CodeReadFailed), errx.WithDetails(errx.D{"path": path}))
	}

	newPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".tsv"
	newName := strings.TrimSuffix(name, filepath.Ext(name)) + ".tsv"

	out, err := t.fs.Create(newPath)
	if err != nil {
		return "", "", errx.Wrap(err, errx.WithCode(CodeWriteFailed), errx.WithDetails(errx.D{"path": newPath}))
	}
	w := csv.NewWriter(out)
	w.Comma = '\t'
	if err = w.WriteAll(records); err != nil {
		_ = out.Close()
		return "", "", errx.Wrap(err, errx.WithCode(CodeWriteFailed), errx.WithDetails(errx.D{"path": newPath}))
	}
	if err = out.Close(); err != nil {
		return "", "", errx.Wrap(err, errx.WithCode(CodeWriteFailed), errx.WithDetails(errx.D{"path": newPath}))
	}
	return newPath, newName, nil
}

// contents pages through the data rows of a table with a header.
func (t table) contents(path string, q ContentQuery) (*Contents, error) {
	records, problem, err := t.read(path)
	if err != nil {
		return nil, err
	}
	if problem != "" || len(records) == 0 {
		return nil, errx.New(
			"file has no readable table content",
			errx.WithCode(CodeNotPreviewable),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"path": path}),
		)
	}

	page := pagination.Request{Page: q.Page, PageSize: q.PageSize}
	page.Normalize(
		pagination.WithDefaultPageSize(DefaultContentsPageSize),
		pagination.WithMaxPageSize(MaxContentsPageSize),
	)

	rows := records[1:]
	start, end := page.Window(len(rows))

	return &Contents{
		Columns: records[0],
		Rows:    rows[start:end],
		Total:   len(rows),
		Page:    page.Page,
	}, nil
}
