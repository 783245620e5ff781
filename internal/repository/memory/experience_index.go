package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/repository/contract"

	"github.com/google/uuid"
)

// ExperienceIndex is a brute-force in-process index. It backs tests, the
// debug CLI and database-less development.
type ExperienceIndex struct {
	mu         sync.RWMutex
	items      []*entity.Experience
	dimensions int
}

func NewExperienceIndex(dimensions int) *ExperienceIndex {
	return &ExperienceIndex{dimensions: dimensions}
}

func clone(e *entity.Experience) *entity.Experience {
	c := *e
	c.Skills = append([]string(nil), e.Skills...)
	c.Embedding = append([]float32(nil), e.Embedding...)
	c.Metadata = make(map[string]interface{}, len(e.Metadata))
	for k, v := range e.Metadata {
		c.Metadata[k] = v
	}
	return &c
}

func (x *ExperienceIndex) indexOf(sourceId string) int {
	for i, item := range x.items {
		if item.SourceId == sourceId {
			return i
		}
	}
	return -1
}

func (x *ExperienceIndex) FindBySourceId(_ context.Context, sourceId string) (*entity.Experience, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if i := x.indexOf(sourceId); i >= 0 {
		return clone(x.items[i]), nil
	}
	return nil, nil
}

// Upsert replaces in place, so an updated record keeps its insertion rank.
func (x *ExperienceIndex) Upsert(_ context.Context, experience *entity.Experience) error {
	if len(experience.Embedding) != x.dimensions {
		return contract.ErrInvalidEmbedding
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	now := time.Now()
	stored := clone(experience)
	if i := x.indexOf(experience.SourceId); i >= 0 {
		stored.Id = x.items[i].Id
		stored.CreatedAt = x.items[i].CreatedAt
		stored.UpdatedAt = &now
		x.items[i] = stored
	} else {
		if stored.Id == uuid.Nil {
			stored.Id = uuid.New()
		}
		stored.CreatedAt = now
		x.items = append(x.items, stored)
	}

	*experience = *clone(stored)
	return nil
}

func (x *ExperienceIndex) DeleteMissing(_ context.Context, keep []string) (int64, error) {
	wanted := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		wanted[id] = struct{}{}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	kept := x.items[:0]
	var deleted int64
	for _, item := range x.items {
		if _, ok := wanted[item.SourceId]; ok {
			kept = append(kept, item)
		} else {
			deleted++
		}
	}
	x.items = kept
	return deleted, nil
}

func (x *ExperienceIndex) Search(_ context.Context, vector []float32, fetchCount int) ([]*contract.RetrievalResult, error) {
	if fetchCount <= 0 {
		return []*contract.RetrievalResult{}, nil
	}
	if len(vector) != x.dimensions {
		return nil, contract.ErrInvalidEmbedding
	}

	x.mu.RLock()
	results := make([]*contract.RetrievalResult, len(x.items))
	for i, item := range x.items {
		similarity := contract.Similarity(l2(vector, item.Embedding))
		results[i] = &contract.RetrievalResult{
			Experience:    clone(item),
			Similarity:    similarity,
			RawSimilarity: similarity,
		}
	}
	x.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > fetchCount {
		results = results[:fetchCount]
	}
	return results, nil
}

// All returns every record in insertion order.
func (x *ExperienceIndex) All() []*entity.Experience {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*entity.Experience, len(x.items))
	for i, item := range x.items {
		out[i] = clone(item)
	}
	return out
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
