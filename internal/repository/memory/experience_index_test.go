package memory

import (
	"context"
	"testing"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exp(source string, vec ...float32) *entity.Experience {
	return &entity.Experience{
		SourceId:    source,
		Title:       source,
		Content:     "content of " + source,
		Metadata:    map[string]interface{}{"type": "job"},
		ContentHash: "hash-" + source,
		Embedding:   vec,
	}
}

func TestSearchRanksByDistance(t *testing.T) {
	ctx := context.Background()
	idx := NewExperienceIndex(2)
	require.NoError(t, idx.Upsert(ctx, exp("far", 10, 10)))
	require.NoError(t, idx.Upsert(ctx, exp("exact", 1, 0)))
	require.NoError(t, idx.Upsert(ctx, exp("near", 1, 1)))

	results, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "exact", results[0].Experience.SourceId)
	assert.Equal(t, 1.0, results[0].Similarity)
	assert.Equal(t, "near", results[1].Experience.SourceId)
	assert.InDelta(t, 0.5, results[1].Similarity, 1e-9)
	assert.Equal(t, "far", results[2].Experience.SourceId)
	for _, r := range results {
		assert.True(t, r.Similarity > 0 && r.Similarity <= 1)
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx := NewExperienceIndex(2)
	for _, s := range []string{"first", "second", "third"} {
		require.NoError(t, idx.Upsert(ctx, exp(s, 0, 1)))
	}

	results, err := idx.Search(ctx, []float32{0, 1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Experience.SourceId)
	assert.Equal(t, "second", results[1].Experience.SourceId)
}

func TestUpsertReplacesBySourceId(t *testing.T) {
	ctx := context.Background()
	idx := NewExperienceIndex(2)

	original := exp("job-a", 1, 0)
	require.NoError(t, idx.Upsert(ctx, original))
	require.NoError(t, idx.Upsert(ctx, exp("job-b", 0, 1)))

	updated := exp("job-a", 0, 1)
	updated.ContentHash = "hash-2"
	require.NoError(t, idx.Upsert(ctx, updated))

	all := idx.All()
	require.Len(t, all, 2)
	assert.Equal(t, "job-a", all[0].SourceId, "update keeps insertion rank")
	assert.Equal(t, original.Id, all[0].Id)
	assert.Equal(t, "hash-2", all[0].ContentHash)
	assert.Equal(t, []float32{0, 1}, all[0].Embedding)
	assert.NotNil(t, all[0].UpdatedAt)
}

func TestUpsertRejectsBadEmbedding(t *testing.T) {
	idx := NewExperienceIndex(3)
	err := idx.Upsert(context.Background(), exp("x", 1, 2))
	assert.ErrorIs(t, err, contract.ErrInvalidEmbedding)

	err = idx.Upsert(context.Background(), exp("y"))
	assert.ErrorIs(t, err, contract.ErrInvalidEmbedding)
	assert.Empty(t, idx.All())
}

func TestDeleteMissing(t *testing.T) {
	ctx := context.Background()
	idx := NewExperienceIndex(1)
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, idx.Upsert(ctx, exp(s, 1)))
	}

	deleted, err := idx.DeleteMissing(ctx, []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	got, err := idx.FindBySourceId(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)

	results, err := idx.Search(ctx, []float32{1}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchReturnsCopies(t *testing.T) {
	ctx := context.Background()
	idx := NewExperienceIndex(1)
	require.NoError(t, idx.Upsert(ctx, exp("a", 1)))

	results, err := idx.Search(ctx, []float32{1}, 1)
	require.NoError(t, err)
	results[0].Experience.Title = "mutated"

	again, err := idx.FindBySourceId(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Title)
}
