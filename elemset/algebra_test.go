package elemset_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/elemset"
)

func TestUnionAndIntersection(t *testing.T) {
	a, err := elemset.NewObservationSet(true,
		el(t, "A"),
		el(t, "B", "group", str(t, "control"), "batch", str(t, "b1")),
	)
	require.NoError(t, err)
	b, err := elemset.NewObservationSet(true,
		el(t, "B", "group", str(t, "treated")),
		el(t, "C"),
	)
	require.NoError(t, err)

	union, err := elemset.Union(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, union.IDs())

	merged, ok := union.Get("B")
	require.True(t, ok)
	assert.Equal(t, "treated", merged.Attributes["group"].Value, "right operand wins on collision")
	assert.Equal(t, "b1", merged.Attributes["batch"].Value)

	inter, err := elemset.Intersection(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, inter.IDs())
	merged, _ = inter.Get("B")
	assert.Equal(t, "treated", merged.Attributes["group"].Value)

	reversed, err := elemset.Union(b, a)
	require.NoError(t, err)
	merged, _ = reversed.Get("B")
	assert.Equal(t, "control", merged.Attributes["group"].Value)

	// operands are not mutated
	orig, _ := a.Get("B")
	assert.Equal(t, "control", orig.Attributes["group"].Value)
}

func TestFolds_MembershipIsOrderIndependent(t *testing.T) {
	mk := func(ids ...string) *elemset.Set {
		var elems []elemset.Element
		for _, id := range ids {
			elems = append(elems, el(t, id))
		}
		s, err := elemset.NewFeatureSet(true, elems...)
		require.NoError(t, err)
		return s
	}
	x, y, z := mk("A", "B", "C"), mk("B", "C", "D"), mk("C", "B", "E")

	orders := [][]*elemset.Set{{x, y, z}, {z, y, x}, {y, x, z}}
	for _, sets := range orders {
		u, err := elemset.UnionAll(sets...)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, u.IDs())

		i, err := elemset.IntersectAll(sets...)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C"}, i.IDs())
	}
}

func TestFolds_Errors(t *testing.T) {
	obs, err := elemset.NewObservationSet(true)
	require.NoError(t, err)
	feat, err := elemset.NewFeatureSet(true)
	require.NoError(t, err)

	_, err = elemset.UnionAll()
	assert.True(t, errx.IsCodeIn(err, elemset.CodeNoSets))

	_, err = elemset.IntersectAll(obs, feat)
	assert.True(t, errx.IsCodeIn(err, elemset.CodeKindMismatch))

	_, err = elemset.Union(obs, nil)
	require.Error(t, err)
}

func TestUnion_SingletonsBecomeMultiple(t *testing.T) {
	a, err := elemset.NewObservationSet(false, el(t, "A"))
	require.NoError(t, err)
	b, err := elemset.NewObservationSet(false, el(t, "B"))
	require.NoError(t, err)

	u, err := elemset.Union(a, b)
	require.NoError(t, err)
	assert.True(t, u.Multiple())
	assert.Equal(t, 2, u.Len())

	single, err := elemset.UnionAll(a)
	require.NoError(t, err)
	assert.False(t, single.Multiple())
	assert.Equal(t, []string{"A"}, single.IDs())
}
