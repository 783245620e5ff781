package search

import (
	"context"
	"errors"
	"testing"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/repository/contract"
	"ai-resume-be/internal/repository/memory"
	"ai-resume-be/pkg/embedding"
	"ai-resume-be/pkg/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEmbedder struct {
	vector []float32
	err    error
	tasks  []embedding.TaskType
}

func (f *fixedEmbedder) Embed(_ context.Context, _ string, taskType embedding.TaskType) ([]float32, error) {
	f.tasks = append(f.tasks, taskType)
	return f.vector, f.err
}

type countingIndex struct {
	contract.RetrievalIndex
	fetches []int
}

func (c *countingIndex) Search(ctx context.Context, vector []float32, fetchCount int) ([]*contract.RetrievalResult, error) {
	c.fetches = append(c.fetches, fetchCount)
	return c.RetrievalIndex.Search(ctx, vector, fetchCount)
}

// leadershipIndex holds A at distance 0.25 (similarity 0.80) and B at
// distance 0.15/0.85 (similarity 0.85) from the query vector (1, 0).
func leadershipIndex(t *testing.T) (*memory.ExperienceIndex, *entity.Experience, *entity.Experience) {
	t.Helper()
	idx := memory.NewExperienceIndex(2)
	a := &entity.Experience{SourceId: "jobs/a.md", Title: "A", Embedding: []float32{1.25, 0}}
	b := &entity.Experience{SourceId: "jobs/b.md", Title: "B", Embedding: []float32{1, 0.15 / 0.85}}
	require.NoError(t, idx.Upsert(context.Background(), a))
	require.NoError(t, idx.Upsert(context.Background(), b))
	return idx, a, b
}

func TestSearchWithoutExposure(t *testing.T) {
	idx, _, _ := leadershipIndex(t)
	counting := &countingIndex{RetrievalIndex: idx}
	emb := &fixedEmbedder{vector: []float32{1, 0}}
	o := NewOrchestrator(emb, counting, rag.DefaultDiversityConfig(), logger.NewNopLogger())

	results, err := o.Search(context.Background(), "leadership experience", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].Experience.Title)
	assert.Equal(t, []int{1}, counting.fetches)
	assert.Equal(t, []embedding.TaskType{embedding.TaskQuery}, emb.tasks)
}

func TestSearchOverFetchesAndReranks(t *testing.T) {
	idx, _, b := leadershipIndex(t)
	counting := &countingIndex{RetrievalIndex: idx}
	o := NewOrchestrator(&fixedEmbedder{vector: []float32{1, 0}}, counting, rag.DefaultDiversityConfig(), logger.NewNopLogger())

	shown := map[string]int{b.Id.String(): 2}
	results, err := o.Search(context.Background(), "leadership experience", 2, shown)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []int{4}, counting.fetches)
	assert.Equal(t, []string{"A", "B"}, rag.Titles(results))
	assert.InDelta(t, 0.80, results[0].Similarity, 1e-6)
	assert.InDelta(t, 0.17, results[1].Similarity, 1e-6)
	assert.InDelta(t, 0.85, results[1].RawSimilarity, 1e-6)

	top, err := o.Search(context.Background(), "leadership experience", 1, shown)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, rag.Titles(top), "penalized item is displaced from a cut of one")
}

func TestSearchPropagatesEmbeddingFailure(t *testing.T) {
	idx, _, _ := leadershipIndex(t)
	counting := &countingIndex{RetrievalIndex: idx}
	boom := errors.New("quota exceeded")
	o := NewOrchestrator(&fixedEmbedder{err: boom}, counting, rag.DefaultDiversityConfig(), logger.NewNopLogger())

	_, err := o.Search(context.Background(), "q", 3, nil)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, counting.fetches)
}

func TestSearchZeroLimit(t *testing.T) {
	emb := &fixedEmbedder{vector: []float32{1, 0}}
	idx, _, _ := leadershipIndex(t)
	o := NewOrchestrator(emb, idx, rag.DefaultDiversityConfig(), logger.NewNopLogger())

	results, err := o.Search(context.Background(), "q", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, emb.tasks)
}
