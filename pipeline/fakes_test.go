package pipeline_test

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/restype"
	"github.com/rise-and-shine/dataresource/storage"
)

// recordingBackend stores everything under /final and records every call.
type recordingBackend struct {
	mu sync.Mutex

	storeErr    error
	localErr    error
	filesizeErr error

	// failStoreAfter fails every Store call after the first n when positive.
	failStoreAfter int

	stores    []string
	locals    []string
	deletes   []string
	filesizes []string
}

func (b *recordingBackend) LocalPath(_ context.Context, r *resource.Resource) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locals = append(b.locals, r.Path)
	if b.localErr != nil {
		return "", b.localErr
	}
	return r.Path, nil
}

func (b *recordingBackend) Store(_ context.Context, r *resource.Resource) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stores = append(b.stores, r.Path)
	if b.storeErr != nil {
		return "", b.storeErr
	}
	if b.failStoreAfter > 0 && len(b.stores) > b.failStoreAfter {
		return "", errx.New("disk full", errx.WithCode(storage.CodeStorageWriteFailed))
	}
	return path.Join("/final", storage.RelativePath(r)), nil
}

func (b *recordingBackend) Delete(_ context.Context, p string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, p)
	return nil
}

func (b *recordingBackend) Filesize(_ context.Context, p string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filesizes = append(b.filesizes, p)
	if b.filesizeErr != nil {
		return 0, b.filesizeErr
	}
	return 128, nil
}

func (b *recordingBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stores) + len(b.locals) + len(b.deletes) + len(b.filesizes)
}

// fakeHandler is a configurable restype.Handler.
type fakeHandler struct {
	code        restype.Code
	description string
	extensions  []string
	validates   bool

	valid       bool
	reason      string
	validateErr error

	// standardize maps a name to its standardized form; nil keeps it.
	standardize func(name string) string
	metadata    restype.Metadata

	mu             sync.Mutex
	validateCalls  int
	inFlight       int
	maxInFlight    int
	onValidate     func()
	extractedPaths []string
}

func (h *fakeHandler) Code() restype.Code { return h.code }

func (h *fakeHandler) Description() string { return h.description }

func (h *fakeHandler) AcceptableExtensions() []string { return h.extensions }

func (h *fakeHandler) PerformsValidation() bool { return h.validates }

func (h *fakeHandler) ValidateType(context.Context, string) (bool, string, error) {
	h.mu.Lock()
	h.validateCalls++
	h.inFlight++
	h.maxInFlight = max(h.maxInFlight, h.inFlight)
	hook := h.onValidate
	h.mu.Unlock()

	if hook != nil {
		hook()
	}

	h.mu.Lock()
	h.inFlight--
	h.mu.Unlock()
	return h.valid, h.reason, h.validateErr
}

func (h *fakeHandler) SaveInStandardizedFormat(_ context.Context, localPath, name string) (string, string, error) {
	if h.standardize == nil {
		return localPath, name, nil
	}
	newName := h.standardize(name)
	return strings.TrimSuffix(localPath, name) + newName, newName, nil
}

func (h *fakeHandler) ExtractMetadata(_ context.Context, p string) (restype.Metadata, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.extractedPaths = append(h.extractedPaths, p)
	return h.metadata, nil
}

func (h *fakeHandler) GetContents(context.Context, string, restype.ContentQuery) (*restype.Contents, error) {
	return &restype.Contents{}, nil
}

func (h *fakeHandler) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.validateCalls
}
