package metaops_test

import (
	"encoding/json"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/elemset"
	"github.com/rise-and-shine/dataresource/metaops"
)

func payload(ids ...string) json.RawMessage {
	elems := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		elems = append(elems, map[string]any{"id": id, "attributes": map[string]any{}})
	}
	raw, _ := json.Marshal(map[string]any{"multiple": true, "elements": elems})
	return raw
}

func TestCombiner_Execute(t *testing.T) {
	tests := []struct {
		name string
		uc   *metaops.Combiner
		sets []json.RawMessage
		want []string
	}{
		{
			name: "union",
			uc:   metaops.NewUnion(),
			sets: []json.RawMessage{payload("A", "B"), payload("B", "C"), payload("D")},
			want: []string{"A", "B", "C", "D"},
		},
		{
			name: "intersect",
			uc:   metaops.NewIntersect(),
			sets: []json.RawMessage{payload("A", "B", "C"), payload("B", "C"), payload("C", "B", "E")},
			want: []string{"B", "C"},
		},
		{
			name: "single set is returned as is",
			uc:   metaops.NewIntersect(),
			sets: []json.RawMessage{payload("A", "B")},
			want: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.uc.Execute(t.Context(), &metaops.CombineRequest{Sets: tt.sets, SetType: "feature"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.IDs())
			assert.Equal(t, elemset.Feature, out.Kind())
		})
	}
}

func TestCombiner_OperationID(t *testing.T) {
	assert.Equal(t, "metadata-union", metaops.NewUnion().OperationID())
	assert.Equal(t, "metadata-intersect", metaops.NewIntersect().OperationID())
}

func TestDecodeSets_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setType  string
		payloads []json.RawMessage
		code     string
	}{
		{
			name:     "unknown kind",
			setType:  "sample",
			payloads: []json.RawMessage{payload("A")},
			code:     elemset.CodeKindMismatch,
		},
		{
			name:     "null payload",
			setType:  "observation",
			payloads: []json.RawMessage{payload("A"), json.RawMessage("null")},
			code:     metaops.CodeInvalidSetPayload,
		},
		{
			name:     "malformed payload",
			setType:  "observation",
			payloads: []json.RawMessage{json.RawMessage(`{"multiple": "yes"}`)},
			code:     elemset.CodeInvalidPayload,
		},
		{
			name:     "duplicate element id",
			setType:  "observation",
			payloads: []json.RawMessage{payload("A", "A")},
			code:     elemset.CodeDuplicateElement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metaops.DecodeSets(tt.setType, tt.payloads)
			require.Error(t, err)
			assert.Equal(t, tt.code, errx.AsErrorX(err).Code())
			assert.Equal(t, errx.T_Validation, errx.GetType(err))
		})
	}
}
