package elemset

import (
	"encoding/json"
	"maps"

	"github.com/code19m/errx"
)

// Element is a uniquely identified sample or feature with typed attributes.
type Element struct {
	ID         string
	Attributes map[string]Attribute
}

// NewElement builds an element. The id must not be empty.
func NewElement(id string, attrs map[string]Attribute) (Element, error) {
	if id == "" {
		return Element{}, errx.New(
			"element id must not be empty",
			errx.WithCode(CodeInvalidElement),
			errx.WithType(errx.T_Validation),
		)
	}
	return Element{ID: id, Attributes: maps.Clone(attrs)}, nil
}

func (e Element) clone() Element {
	return Element{ID: e.ID, Attributes: maps.Clone(e.Attributes)}
}

// merge returns an element carrying the attributes of e and other; other wins on key collision.
func (e Element) merge(other Element) Element {
	out := e.clone()
	if out.Attributes == nil && len(other.Attributes) > 0 {
		out.Attributes = make(map[string]Attribute, len(other.Attributes))
	}
	maps.Copy(out.Attributes, other.Attributes)
	return out
}

type elementJSON struct {
	ID         string               `json:"id"`
	Attributes map[string]Attribute `json:"attributes"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	attrs := e.Attributes
	if attrs == nil {
		attrs = map[string]Attribute{}
	}
	return json.Marshal(elementJSON{ID: e.ID, Attributes: attrs})
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errx.Wrap(err, errx.WithCode(CodeInvalidPayload), errx.WithType(errx.T_Validation))
	}
	el, err := NewElement(raw.ID, raw.Attributes)
	if err != nil {
		return err
	}
	*e = el
	return nil
}
