package rag

import (
	"testing"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(title string, similarity float64) *contract.RetrievalResult {
	return &contract.RetrievalResult{
		Experience:    &entity.Experience{Id: uuid.New(), Title: title},
		Similarity:    similarity,
		RawSimilarity: similarity,
	}
}

func TestPenaltyFormula(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.4, 0.5, 1} {
		for _, maxP := range []float64{0, 0.3, 0.9, 1} {
			cfg := DiversityConfig{PenaltyPerShowing: p, MaxPenalty: maxP}
			for count := 0; count <= 6; count++ {
				r := result("x", 0.75)
				out := Rerank([]*contract.RetrievalResult{r}, map[string]int{r.Experience.Id.String(): count}, cfg)

				penalty := p * float64(count)
				if penalty > maxP {
					penalty = maxP
				}
				assert.InDelta(t, 0.75*(1-penalty), out[0].Similarity, 1e-12, "p=%v max=%v count=%d", p, maxP, count)
				assert.GreaterOrEqual(t, out[0].Similarity, 0.0)
				assert.Equal(t, 0.75, out[0].RawSimilarity)
			}
		}
	}
}

func TestPenaltyIsMonotone(t *testing.T) {
	cfg := DefaultDiversityConfig()
	prev := cfg.Penalty(0)
	assert.Equal(t, 0.0, prev)
	for c := 1; c < 10; c++ {
		assert.GreaterOrEqual(t, cfg.Penalty(c), prev)
		prev = cfg.Penalty(c)
	}
	assert.Equal(t, 0.9, cfg.Penalty(100))
	assert.Equal(t, 0.0, cfg.Penalty(-3))
}

func TestRerankLeadershipScenario(t *testing.T) {
	a := result("A", 0.80)
	b := result("B", 0.85)
	input := []*contract.RetrievalResult{b, a}

	out := Rerank(input, map[string]int{b.Experience.Id.String(): 2}, DefaultDiversityConfig())

	require.Len(t, out, 2)
	assert.Equal(t, []string{"A", "B"}, Titles(out))
	assert.InDelta(t, 0.80, out[0].Similarity, 1e-9)
	assert.InDelta(t, 0.17, out[1].Similarity, 1e-9)

	assert.Equal(t, []string{"B", "A"}, Titles(input), "input must not be reordered")
	assert.Equal(t, 0.85, input[0].Similarity)
}

func TestRerankIsIdempotent(t *testing.T) {
	results := []*contract.RetrievalResult{
		result("a", 0.9), result("b", 0.8), result("c", 0.7), result("d", 0.6),
	}
	shown := map[string]int{
		results[0].Experience.Id.String(): 1,
		results[1].Experience.Id.String(): 3,
	}

	once := Rerank(results, shown, DefaultDiversityConfig())
	twice := Rerank(once, shown, DefaultDiversityConfig())

	assert.Equal(t, Titles(once), Titles(twice))
	for i := range once {
		assert.Equal(t, once[i].Similarity, twice[i].Similarity)
	}
}

func TestRerankSortedAndStable(t *testing.T) {
	results := []*contract.RetrievalResult{
		result("first", 0.5), result("shown", 1.0), result("second", 0.5), result("third", 0.5),
	}
	// 1.0 * (1 - 0.5) ties the unshown items and must stay ahead of the ones
	// that followed it.
	shown := map[string]int{results[1].Experience.Id.String(): 1}
	cfg := DiversityConfig{PenaltyPerShowing: 0.5, MaxPenalty: 0.9}

	out := Rerank(results, shown, cfg)
	assert.Equal(t, []string{"first", "shown", "second", "third"}, Titles(out))
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Similarity, out[i].Similarity)
	}
}

func TestRerankWithoutExposureKeepsOrder(t *testing.T) {
	results := []*contract.RetrievalResult{result("a", 0.9), result("b", 0.4)}
	out := Rerank(results, nil, DefaultDiversityConfig())
	assert.Equal(t, []string{"a", "b"}, Titles(out))
	assert.Equal(t, 0.9, out[0].Similarity)
}
