package resource_test

import (
	"encoding/json"
	"testing"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/dataresource/elemset"
	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/restype"
)

func TestNew(t *testing.T) {
	owner := uuid.New()
	ws := uuid.New()

	r := resource.New(owner, "/tmp/a.tsv", "a.tsv", ws)

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.False(t, r.IsActive)
	assert.Nil(t, r.ResourceType)
	assert.Equal(t, []uuid.UUID{ws}, r.WorkspaceIDs)
	assert.Empty(t, resource.New(owner, "/x", "x").WorkspaceIDs)
}

func TestResource_Clone(t *testing.T) {
	r := resource.New(uuid.New(), "/a", "a", uuid.New())
	r.ResourceType = restype.NumericMatrix.Ptr()

	c := r.Clone()
	*c.ResourceType = restype.JSON
	c.WorkspaceIDs[0] = uuid.Nil

	assert.Equal(t, restype.NumericMatrix, *r.ResourceType)
	assert.NotEqual(t, uuid.Nil, r.WorkspaceIDs[0])
}

func TestStatusMessages(t *testing.T) {
	assert.Equal(t, "Failed validation for resource type MTX", resource.FailedStatus("MTX"))
	assert.Equal(t,
		`Failed validation for type "Numeric table". Reverting back to the valid type of "Annotation table".`,
		resource.RevertedStatus("Numeric table", "Annotation table"),
	)
	assert.Equal(t,
		`File extension for file "a.xlsx" is not consistent with the requested resource type (Numeric table). `+
			"Acceptable extensions are: tsv,csv",
		resource.UnknownExtensionStatus("a.xlsx", "Numeric table", []string{"tsv", "csv"}),
	)
	assert.Empty(t, resource.StatusReady)
}

func TestValidateMetadata(t *testing.T) {
	el, err := elemset.NewElement("S1", nil)
	require.NoError(t, err)
	obs, err := elemset.NewObservationSet(true, el)
	require.NoError(t, err)

	md := resource.NewMetadata(uuid.New(), restype.Metadata{ObservationSet: obs})

	require.NoError(t, resource.ValidateMetadata(md, 0))
	require.NoError(t, resource.ValidateMetadata(&resource.Metadata{ResourceID: uuid.New()}, 0))

	err = resource.ValidateMetadata(md, 10)
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, resource.CodeMetadataTooLarge))
}

func TestMetadata_Typed(t *testing.T) {
	var md resource.Metadata
	md.ObservationSet = &elemset.Set{}
	md.Typed()

	assert.Equal(t, elemset.Observation, md.ObservationSet.Kind())
	assert.Nil(t, md.FeatureSet)
}

func TestModels_MaintainTimestamps(t *testing.T) {
	r := resource.New(uuid.New(), "/a.tsv", "a.tsv")
	md := resource.NewMetadata(r.ID, restype.Metadata{})

	for name, hook := range map[string]bun.BeforeAppendModelHook{"resource": r, "metadata": md} {
		require.NoError(t, hook.BeforeAppendModel(t.Context(), &bun.InsertQuery{}), name)
	}

	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
	assert.False(t, md.CreatedAt.IsZero())

	created := r.CreatedAt
	require.NoError(t, r.BeforeAppendModel(t.Context(), &bun.UpdateQuery{}))
	assert.Equal(t, created, r.CreatedAt, "updates keep the creation time")

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"created_at"`)
}
