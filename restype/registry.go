package restype

import (
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/afero"
)

// Info describes a registered type for listings.
type Info struct {
	Code                 Code     `json:"code"`
	Description          string   `json:"description"`
	AcceptableExtensions []string `json:"acceptable_extensions"`
}

// Registry maps type codes to handlers. It is built once at startup and read concurrently.
type Registry struct {
	handlers map[Code]Handler
	order    []Code
}

// NewRegistry registers handlers in order. A later handler with the same code replaces an earlier one.
func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[Code]Handler, len(handlers))}
	for _, h := range handlers {
		if _, ok := r.handlers[h.Code()]; !ok {
			r.order = append(r.order, h.Code())
		}
		r.handlers[h.Code()] = h
	}
	return r
}

// Default returns a registry with every built-in type, reading files from fs.
func Default(fs afero.Fs) *Registry {
	return NewRegistry(
		NewGeneral(),
		NewJSON(fs),
		NewAnnotationTable(fs),
		NewFeatureTable(fs),
		NewNumericMatrix(fs),
		NewIntegerMatrix(fs),
	)
}

// Get returns the handler for code.
func (r *Registry) Get(code Code) (Handler, error) {
	h, ok := r.handlers[code]
	if !ok {
		return nil, errx.New(
			"unknown resource type",
			errx.WithCode(CodeUnknownResourceType),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"resource_type": string(code)}),
		)
	}
	return h, nil
}

// Parse converts a client supplied string into a registered code.
func (r *Registry) Parse(s string) (Code, error) {
	if _, err := r.Get(Code(s)); err != nil {
		return "", err
	}
	return Code(s), nil
}

// HumanReadable returns the description of code, or the code itself when unregistered.
func (r *Registry) HumanReadable(code Code) string {
	if h, ok := r.handlers[code]; ok {
		return h.Description()
	}
	return string(code)
}

func (r *Registry) AcceptableExtensions(code Code) []string {
	if h, ok := r.handlers[code]; ok {
		return h.AcceptableExtensions()
	}
	return nil
}

// ExtensionConsistent reports whether filename ends with one of the extensions
// acceptable for code. The wildcard type accepts every name.
func (r *Registry) ExtensionConsistent(code Code, filename string) bool {
	if code == Wildcard {
		return true
	}
	lower := strings.ToLower(filename)
	return slices.ContainsFunc(r.AcceptableExtensions(code), func(ext string) bool {
		return strings.HasSuffix(lower, "."+strings.ToLower(ext))
	})
}

// Codes returns the registered codes in registration order.
func (r *Registry) Codes() []Code {
	return slices.Clone(r.order)
}

// List returns the registered types in registration order.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.order))
	for _, code := range r.order {
		h := r.handlers[code]
		out = append(out, Info{
			Code:                 code,
			Description:          h.Description(),
			AcceptableExtensions: h.AcceptableExtensions(),
		})
	}
	return out
}
