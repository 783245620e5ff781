package rag

import (
	"sort"

	"ai-resume-be/internal/repository/contract"
)

// DiversityConfig controls the cumulative exposure penalty.
type DiversityConfig struct {
	PenaltyPerShowing float64
	MaxPenalty        float64
}

func DefaultDiversityConfig() DiversityConfig {
	return DiversityConfig{PenaltyPerShowing: 0.4, MaxPenalty: 0.9}
}

// Penalty is the fraction removed from the score of an item shown count
// times: min(penaltyPerShowing*count, maxPenalty), never below zero.
func (c DiversityConfig) Penalty(count int) float64 {
	if count <= 0 {
		return 0
	}
	p := c.PenaltyPerShowing * float64(count)
	if p > c.MaxPenalty {
		p = c.MaxPenalty
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Rerank penalizes previously shown experiences and re-sorts descending by
// the adjusted score, keeping input order on ties. Scores are derived from
// each result's base similarity, so reranking a reranked list with the same
// counts changes nothing. The input slice is not modified.
func Rerank(results []*contract.RetrievalResult, shownCounts map[string]int, cfg DiversityConfig) []*contract.RetrievalResult {
	out := make([]*contract.RetrievalResult, len(results))
	for i, r := range results {
		base := r.BaseSimilarity()
		adjusted := base
		if r.Experience != nil {
			adjusted = base * (1 - cfg.Penalty(shownCounts[r.Experience.Id.String()]))
		}
		out[i] = &contract.RetrievalResult{
			Experience:    r.Experience,
			Similarity:    adjusted,
			RawSimilarity: base,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}
