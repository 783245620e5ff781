package search

import (
	"context"
	"fmt"

	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/repository/contract"
	"ai-resume-be/pkg/embedding"
	"ai-resume-be/pkg/rag"
)

const logModule = "RAG"

// Embedder turns a query into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string, taskType embedding.TaskType) ([]float32, error)
}

// Orchestrator runs diversity-aware similarity search.
type Orchestrator struct {
	embedder  Embedder
	index     contract.RetrievalIndex
	diversity rag.DiversityConfig
	logger    logger.ILogger
}

func NewOrchestrator(embedder Embedder, index contract.RetrievalIndex, diversity rag.DiversityConfig, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		embedder:  embedder,
		index:     index,
		diversity: diversity,
		logger:    log,
	}
}

// Search embeds query and returns at most limit results. With exposure data
// it over-fetches 2x before re-ranking so penalized items can be displaced.
func (o *Orchestrator) Search(ctx context.Context, query string, limit int, shownCounts map[string]int) ([]*contract.RetrievalResult, error) {
	if limit <= 0 {
		return []*contract.RetrievalResult{}, nil
	}

	vector, err := o.embedder.Embed(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	fetch := limit
	if len(shownCounts) > 0 {
		fetch = limit * 2
	}

	results, err := o.index.Search(ctx, vector, fetch)
	if err != nil {
		o.logger.Error(logModule, "Vector search failed", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("vector search: %w", err)
	}

	o.logger.Info(logModule, "Search completed", map[string]interface{}{
		"query":        truncate(query, 120),
		"fetched":      len(results),
		"shown_unique": len(shownCounts),
	})

	if len(shownCounts) > 0 {
		results = rag.Rerank(results, shownCounts, o.diversity)
		for _, r := range results {
			if r.Similarity != r.RawSimilarity {
				o.logger.Debug(logModule, "Diversity penalty applied", map[string]interface{}{
					"title":    r.Experience.Title,
					"shown":    shownCounts[r.Experience.Id.String()],
					"original": r.RawSimilarity,
					"adjusted": r.Similarity,
				})
			}
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
