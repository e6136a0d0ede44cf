// Package metaops combines element sets sent by clients.
package metaops

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/dataresource/elemset"
	"github.com/rise-and-shine/dataresource/ucdef"
)

// CombineRequest holds the set payloads to fold, left to right.
type CombineRequest struct {
	Sets    []json.RawMessage `json:"sets"     validate:"required,min=1"`
	SetType string            `json:"set_type" validate:"required,set_kind"`
}

type combineFunc func(sets ...*elemset.Set) (*elemset.Set, error)

// Combiner is a use case folding request sets with one operation.
type Combiner struct {
	operationID string
	combine     combineFunc
}

var _ ucdef.UserAction[*CombineRequest, *elemset.Set] = (*Combiner)(nil)

// NewUnion returns the use case computing the union of all request sets.
func NewUnion() *Combiner {
	return &Combiner{operationID: "metadata-union", combine: elemset.UnionAll}
}

// NewIntersect returns the use case computing the intersection of all request sets.
func NewIntersect() *Combiner {
	return &Combiner{operationID: "metadata-intersect", combine: elemset.IntersectAll}
}

func (c *Combiner) OperationID() string { return c.operationID }

func (c *Combiner) Execute(_ context.Context, in *CombineRequest) (*elemset.Set, error) {
	sets, err := DecodeSets(in.SetType, in.Sets)
	if err != nil {
		return nil, err
	}

	out, err := c.combine(sets...)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return out, nil
}

// DecodeSets parses every payload as a set of the named kind.
func DecodeSets(setType string, payloads []json.RawMessage) ([]*elemset.Set, error) {
	kind, err := elemset.ParseKind(setType)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	sets := make([]*elemset.Set, 0, len(payloads))
	for i, raw := range payloads {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return nil, errx.New(
				"set payload must be an object",
				errx.WithCode(CodeInvalidSetPayload),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"index": i}),
			)
		}

		s, err := elemset.Decode(kind, trimmed)
		if err != nil {
			return nil, errx.Wrap(err,
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"index": i}),
			)
		}
		sets = append(sets, s)
	}
	return sets, nil
}
