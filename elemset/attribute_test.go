package elemset_test

import (
	"encoding/json"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/elemset"
)

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "SW1_Control", want: "SW1_Control"},
		{name: "spaces become underscores", input: "sample one", want: "sample_one"},
		{name: "dots and dashes", input: "a.b-c_d", want: "a.b-c_d"},
		{name: "single letter", input: "A", want: "A"},
		{name: "leading digit", input: "1abc", wantErr: true},
		{name: "trailing dash", input: "abc-", wantErr: true},
		{name: "illegal char", input: "ab$c", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := elemset.NormalizeIdentifier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errx.IsCodeIn(err, elemset.CodeInvalidAttribute))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAttribute(t *testing.T) {
	tests := []struct {
		name    string
		typ     elemset.AttributeType
		value   any
		want    any
		wantErr bool
	}{
		{name: "integer from int", typ: elemset.Integer, value: 3, want: int64(3)},
		{name: "integer from json float", typ: elemset.Integer, value: float64(-4), want: int64(-4)},
		{name: "integer from string", typ: elemset.Integer, value: "12", want: int64(12)},
		{name: "integer rejects fraction", typ: elemset.Integer, value: 1.5, wantErr: true},
		{name: "positive integer rejects zero", typ: elemset.PositiveInteger, value: 0, wantErr: true},
		{name: "positive integer", typ: elemset.PositiveInteger, value: 7, want: int64(7)},
		{name: "non-negative accepts zero", typ: elemset.NonNegativeInteger, value: 0, want: int64(0)},
		{name: "non-negative rejects negative", typ: elemset.NonNegativeInteger, value: -1, wantErr: true},
		{name: "float", typ: elemset.Float, value: "2.5", want: 2.5},
		{name: "float rejects text", typ: elemset.Float, value: "abc", wantErr: true},
		{name: "boolean", typ: elemset.Boolean, value: "true", want: true},
		{name: "string normalized", typ: elemset.String, value: "wild type", want: "wild_type"},
		{name: "unrestricted string kept", typ: elemset.UnrestrictedString, value: "Left lobe (1)", want: "Left lobe (1)"},
		{name: "string rejects number", typ: elemset.String, value: 4, wantErr: true},
		{name: "unknown type", typ: elemset.AttributeType("Date"), value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := elemset.NewAttribute(tt.typ, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, got.Type)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestAttribute_JSON(t *testing.T) {
	var a elemset.Attribute
	require.NoError(t, json.Unmarshal([]byte(`{"attribute_type":"PositiveInteger","value":5}`), &a))
	assert.Equal(t, int64(5), a.Value)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"attribute_type":"PositiveInteger","value":5}`, string(out))

	err = json.Unmarshal([]byte(`{"attribute_type":"PositiveInteger","value":-5}`), &a)
	require.Error(t, err)
}
