package memstore_test

import (
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/resource/memstore"
	"github.com/rise-and-shine/dataresource/sorter"
)

func TestStore_ResourceLifecycle(t *testing.T) {
	ctx := t.Context()
	s := memstore.New()
	r := resource.New(uuid.New(), "/a.tsv", "a.tsv")

	_, err := s.Get(ctx, r.ID)
	assert.True(t, errx.IsCodeIn(err, resource.CodeResourceNotFound))
	assert.True(t, errx.IsCodeIn(s.Save(ctx, r), resource.CodeResourceNotFound))

	require.NoError(t, s.Create(ctx, r))
	assert.True(t, errx.IsCodeIn(s.Create(ctx, r), resource.CodeResourceExists))

	r.Status = "changed"
	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Status, "stored copy is not aliased")

	require.NoError(t, s.Save(ctx, r))
	got, err = s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Status)
}

func TestStore_Metadata(t *testing.T) {
	ctx := t.Context()
	s := memstore.New()
	r := resource.New(uuid.New(), "/a.tsv", "a.tsv")

	err := s.SaveMetadata(ctx, &resource.Metadata{ResourceID: r.ID})
	assert.True(t, errx.IsCodeIn(err, resource.CodeResourceNotFound))

	require.NoError(t, s.Create(ctx, r))

	_, err = s.GetMetadata(ctx, r.ID)
	assert.True(t, errx.IsCodeIn(err, resource.CodeMetadataNotFound))

	op := uuid.New()
	require.NoError(t, s.SaveMetadata(ctx, &resource.Metadata{ResourceID: r.ID, ParentOperation: &op}))

	md, err := s.GetMetadata(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, md.ParentOperation)
	assert.Equal(t, op, *md.ParentOperation)
}

func TestStore_List(t *testing.T) {
	ctx := t.Context()
	s := memstore.New()
	alice, bob := uuid.New(), uuid.New()

	for i, name := range []string{"c.tsv", "a.tsv", "b.tsv"} {
		r := resource.New(alice, "/"+name, name)
		r.Size = int64(10 * (i + 1))
		require.NoError(t, s.Create(ctx, r))
	}
	require.NoError(t, s.Create(ctx, resource.New(bob, "/z.tsv", "z.tsv")))

	names := func(rs []*resource.Resource) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}

	tests := []struct {
		name  string
		query resource.ListQuery
		want  []string
		total int
	}{
		{
			name:  "owner filter sorted by name",
			query: resource.ListQuery{Owner: alice, Sort: sorter.Make(sorter.Opt{F: resource.SortByName, D: sorter.Asc})},
			want:  []string{"a.tsv", "b.tsv", "c.tsv"},
			total: 3,
		},
		{
			name:  "size descending",
			query: resource.ListQuery{Owner: alice, Sort: sorter.Make(sorter.Opt{F: resource.SortBySize, D: sorter.Desc})},
			want:  []string{"b.tsv", "a.tsv", "c.tsv"},
			total: 3,
		},
		{
			name: "paged",
			query: resource.ListQuery{
				Sort:   sorter.Make(sorter.Opt{F: resource.SortByName, D: sorter.Asc}),
				Limit:  2,
				Offset: 2,
			},
			want:  []string{"c.tsv", "z.tsv"},
			total: 4,
		},
		{
			name:  "offset past the end",
			query: resource.ListQuery{Owner: bob, Offset: 5, Limit: 10},
			want:  []string{},
			total: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestStore_ListByWorkspace(t *testing.T) {
	ctx := t.Context()
	s := memstore.New()
	ws, other := uuid.New(), uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, tc := range []struct {
		name       string
		workspaces []uuid.UUID
	}{
		{name: "late.tsv", workspaces: []uuid.UUID{ws}},
		{name: "early.tsv", workspaces: []uuid.UUID{other, ws}},
		{name: "elsewhere.tsv", workspaces: []uuid.UUID{other}},
		{name: "loose.tsv"},
	} {
		r := resource.New(uuid.New(), "/"+tc.name, tc.name)
		r.WorkspaceIDs = tc.workspaces
		r.CreatedAt = start.Add(time.Duration(10-i) * time.Minute)
		require.NoError(t, s.Create(ctx, r))
	}

	tests := []struct {
		name      string
		workspace uuid.UUID
		want      []string
	}{
		{name: "creation order", workspace: ws, want: []string{"early.tsv", "late.tsv"}},
		{name: "shared workspace", workspace: other, want: []string{"elsewhere.tsv", "early.tsv"}},
		{name: "unknown workspace", workspace: uuid.New(), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListByWorkspace(ctx, tt.workspace)
			require.NoError(t, err)

			names := make([]string, 0, len(got))
			for _, r := range got {
				names = append(names, r.Name)
				assert.Contains(t, r.WorkspaceIDs, tt.workspace)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
