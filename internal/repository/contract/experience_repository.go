package contract

import (
	"context"
	"errors"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/repository/specification"
)

var ErrInvalidEmbedding = errors.New("experience embedding is missing or has the wrong dimension")

// RetrievalResult is one ranked hit. Similarity is in [0,1]; an identical
// vector scores 1. RawSimilarity is the index score before any re-ranking
// penalty; indexes set both fields to the same value.
type RetrievalResult struct {
	Experience    *entity.Experience
	Similarity    float64
	RawSimilarity float64
}

// BaseSimilarity is the unpenalized score.
func (r *RetrievalResult) BaseSimilarity() float64 {
	if r.RawSimilarity > 0 {
		return r.RawSimilarity
	}
	return r.Similarity
}

// RetrievalIndex answers nearest-neighbour queries. Results are ordered by
// descending similarity, ties in insertion order, and hold at most fetchCount
// entries.
type RetrievalIndex interface {
	Search(ctx context.Context, vector []float32, fetchCount int) ([]*RetrievalResult, error)
}

// ExperienceStore is the write side used by ingestion.
type ExperienceStore interface {
	FindBySourceId(ctx context.Context, sourceId string) (*entity.Experience, error)
	// Upsert inserts or replaces the record with the same SourceId. The
	// embedding is stored in the same row, so an update never leaves a
	// stale vector behind.
	Upsert(ctx context.Context, experience *entity.Experience) error
	// DeleteMissing removes every record whose SourceId is not in keep.
	DeleteMissing(ctx context.Context, keep []string) (int64, error)
}

// VectorStore is the part shared by the database repository and the
// in-memory index.
type VectorStore interface {
	RetrievalIndex
	ExperienceStore
}

type ExperienceRepository interface {
	VectorStore
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Experience, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Experience, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// Similarity converts an L2 distance to a score in (0,1]. It is strictly
// decreasing in distance and maps zero distance to 1.
func Similarity(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return 1.0 / (1.0 + distance)
}
