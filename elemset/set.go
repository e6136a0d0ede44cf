// Package elemset implements observation and feature sets and the union and
// intersection algebra over them.
package elemset

import (
	"encoding/json"
	"slices"

	"github.com/code19m/errx"
	"github.com/samber/lo"
)

// Kind tells observation sets (samples) apart from feature sets (genes, variables).
type Kind string

const (
	Observation Kind = "observation"
	Feature     Kind = "feature"
)

// ParseKind accepts "observation" or "feature".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Observation, Feature:
		return k, nil
	default:
		return "", errx.New(
			"set type must be observation or feature",
			errx.WithCode(CodeKindMismatch),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"set_type": s}),
		)
	}
}

// Set is a collection of elements unique by id. A set that is not multiple
// holds at most one element. Sets decoded from JSON without a kind are untyped
// until WithKind is called.
type Set struct {
	kind     Kind
	multiple bool
	elements map[string]Element
}

// New builds a set of the given kind and adds elems in order.
func New(kind Kind, multiple bool, elems ...Element) (*Set, error) {
	s := &Set{kind: kind, multiple: multiple, elements: make(map[string]Element, len(elems))}
	for _, el := range elems {
		if err := s.Add(el); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewObservationSet builds a set of samples.
func NewObservationSet(multiple bool, elems ...Element) (*Set, error) {
	return New(Observation, multiple, elems...)
}

// NewFeatureSet builds a set of features.
func NewFeatureSet(multiple bool, elems ...Element) (*Set, error) {
	return New(Feature, multiple, elems...)
}

// Add inserts el, rejecting empty ids, duplicates and a second element in a singleton set.
func (s *Set) Add(el Element) error {
	if el.ID == "" {
		return errx.New(
			"element id must not be empty",
			errx.WithCode(CodeInvalidElement),
			errx.WithType(errx.T_Validation),
		)
	}
	if _, ok := s.elements[el.ID]; ok {
		return errx.New(
			"duplicate element in set",
			errx.WithCode(CodeDuplicateElement),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"id": el.ID}),
		)
	}
	if !s.multiple && len(s.elements) >= 1 {
		return errx.New(
			"set is not multiple and already holds an element",
			errx.WithCode(CodeTooManyElements),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"id": el.ID}),
		)
	}
	if s.elements == nil {
		s.elements = make(map[string]Element)
	}
	s.elements[el.ID] = el.clone()
	return nil
}

func (s *Set) Kind() Kind { return s.kind }

func (s *Set) Multiple() bool { return s.multiple }

func (s *Set) Len() int { return len(s.elements) }

// WithKind types an untyped set in place and returns it. A typed set is left unchanged.
func (s *Set) WithKind(k Kind) *Set {
	if s != nil && s.kind == "" {
		s.kind = k
	}
	return s
}

// Get returns the element with the given id.
func (s *Set) Get(id string) (Element, bool) {
	el, ok := s.elements[id]
	if !ok {
		return Element{}, false
	}
	return el.clone(), true
}

func (s *Set) Contains(id string) bool {
	_, ok := s.elements[id]
	return ok
}

// IDs returns the element ids in ascending order.
func (s *Set) IDs() []string {
	ids := lo.Keys(s.elements)
	slices.Sort(ids)
	return ids
}

// Elements returns copies of the elements ordered by id.
func (s *Set) Elements() []Element {
	return lo.Map(s.IDs(), func(id string, _ int) Element {
		return s.elements[id].clone()
	})
}

// Difference returns the elements of s whose id is absent from other.
func (s *Set) Difference(other *Set) *Set {
	out := &Set{kind: s.kind, multiple: s.multiple, elements: make(map[string]Element)}
	for id, el := range s.elements {
		if other == nil || !other.Contains(id) {
			out.elements[id] = el.clone()
		}
	}
	return out
}

type setJSON struct {
	Multiple bool      `json:"multiple"`
	Elements []Element `json:"elements"`
}

// MarshalJSON writes {"multiple": bool, "elements": [...]} with elements sorted by id.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(setJSON{Multiple: s.multiple, Elements: s.Elements()})
}

// UnmarshalJSON decodes the payload written by MarshalJSON, keeping the
// receiver's kind if it already has one.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw setJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errx.Wrap(err, errx.WithCode(CodeInvalidPayload), errx.WithType(errx.T_Validation))
	}
	decoded, err := New(s.kind, raw.Multiple, raw.Elements...)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// Decode parses a set payload of the given kind.
func Decode(kind Kind, data []byte) (*Set, error) {
	s := &Set{kind: kind}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errx.Wrap(err)
	}
	return s, nil
}
