package elemset

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
)

// AttributeType is the declared type of an element attribute value.
type AttributeType string

const (
	Integer            AttributeType = "Integer"
	PositiveInteger    AttributeType = "PositiveInteger"
	NonNegativeInteger AttributeType = "NonNegativeInteger"
	Float              AttributeType = "Float"
	String             AttributeType = "String"
	UnrestrictedString AttributeType = "UnrestrictedString"
	Boolean            AttributeType = "Boolean"
)

//nolint:gochecknoglobals // compiled once
var identifierRe = regexp.MustCompile(`^[a-zA-Z]([a-zA-Z0-9\-_.]*\w)?$`)

// NormalizeIdentifier replaces spaces with underscores and checks that the
// result starts with a letter and holds only letters, digits, dashes,
// underscores or dots.
func NormalizeIdentifier(name string) (string, error) {
	normalized := strings.ReplaceAll(name, " ", "_")
	if !identifierRe.MatchString(normalized) {
		return "", errx.New(
			"name does not match the identifier requirements",
			errx.WithCode(CodeInvalidAttribute),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"name": name}),
		)
	}
	return normalized, nil
}

// Attribute is a typed value attached to an element.
type Attribute struct {
	Type  AttributeType
	Value any
}

// NewAttribute checks v against t and stores it in its canonical Go form:
// int64 for the integer types, float64, bool, or a string. String values are
// normalized identifiers, UnrestrictedString values are kept verbatim.
func NewAttribute(t AttributeType, v any) (Attribute, error) {
	value, err := coerce(t, v)
	if err != nil {
		return Attribute{}, errx.Wrap(err, errx.WithDetails(errx.D{
			"attribute_type": string(t),
			"value":          v,
		}))
	}
	return Attribute{Type: t, Value: value}, nil
}

func coerce(t AttributeType, v any) (any, error) {
	switch t {
	case Integer, PositiveInteger, NonNegativeInteger:
		n, err := toInteger(v)
		if err != nil {
			return nil, err
		}
		if t == PositiveInteger && n <= 0 {
			return nil, invalidAttribute("value must be a positive integer")
		}
		if t == NonNegativeInteger && n < 0 {
			return nil, invalidAttribute("value must be a non-negative integer")
		}
		return n, nil
	case Float:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, invalidAttribute("value is not a float")
		}
		return f, nil
	case Boolean:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, invalidAttribute("value is not a boolean")
		}
		return b, nil
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, invalidAttribute("value is not a string")
		}
		return NormalizeIdentifier(s)
	case UnrestrictedString:
		s, ok := v.(string)
		if !ok {
			return nil, invalidAttribute("value is not a string")
		}
		return s, nil
	default:
		return nil, invalidAttribute("unknown attribute type")
	}
}

// toInteger accepts integral numbers only; 1.5 is rejected rather than truncated.
func toInteger(v any) (int64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalidAttribute("value is not an integer")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, invalidAttribute("value is not an integer")
	}
	return int64(f), nil
}

func invalidAttribute(msg string) error {
	return errx.New(msg, errx.WithCode(CodeInvalidAttribute), errx.WithType(errx.T_Validation))
}

type attributeJSON struct {
	Type  AttributeType `json:"attribute_type"`
	Value any           `json:"value"`
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(attributeJSON{Type: a.Type, Value: a.Value})
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var raw attributeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errx.Wrap(err, errx.WithCode(CodeInvalidPayload), errx.WithType(errx.T_Validation))
	}
	parsed, err := NewAttribute(raw.Type, raw.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
