package implementation

import (
	"context"
	"errors"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/mapper"
	"ai-resume-be/internal/model"
	"ai-resume-be/internal/repository/contract"
	"ai-resume-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExperienceRepositoryImpl struct {
	db         *gorm.DB
	mapper     *mapper.ExperienceMapper
	dimensions int
}

func NewExperienceRepository(db *gorm.DB, dimensions int) contract.ExperienceRepository {
	return &ExperienceRepositoryImpl{
		db:         db,
		mapper:     mapper.NewExperienceMapper(),
		dimensions: dimensions,
	}
}

func (r *ExperienceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ExperienceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Experience, error) {
	var m model.Experience
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ExperienceRepositoryImpl) FindBySourceId(ctx context.Context, sourceId string) (*entity.Experience, error) {
	return r.FindOne(ctx, specification.BySourceId{SourceId: sourceId})
}

func (r *ExperienceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Experience, error) {
	var models []*model.Experience
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Experience, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ExperienceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Experience{}).Count(&count).Error
	return count, err
}

func (r *ExperienceRepositoryImpl) Upsert(ctx context.Context, experience *entity.Experience) error {
	if len(experience.Embedding) != r.dimensions {
		return contract.ErrInvalidEmbedding
	}

	m := r.mapper.ToModel(experience)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "content", "skills", "metadata", "content_hash", "embedding", "updated_at",
			}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}

	*experience = *r.mapper.ToEntity(m)
	return nil
}

func (r *ExperienceRepositoryImpl) DeleteMissing(ctx context.Context, keep []string) (int64, error) {
	db := r.db.WithContext(ctx)
	if len(keep) == 0 {
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		db = db.Where("source_id NOT IN ?", keep)
	}
	res := db.Delete(&model.Experience{})
	return res.RowsAffected, res.Error
}

// Search ranks by L2 distance (pgvector <->). created_at breaks ties so equal
// distances come back in insertion order.
func (r *ExperienceRepositoryImpl) Search(ctx context.Context, vector []float32, fetchCount int) ([]*contract.RetrievalResult, error) {
	if fetchCount <= 0 {
		return []*contract.RetrievalResult{}, nil
	}
	if len(vector) != r.dimensions {
		return nil, contract.ErrInvalidEmbedding
	}

	type result struct {
		model.Experience
		Distance float64
	}
	var rows []result

	err := r.db.WithContext(ctx).
		Table("experiences").
		Select("experiences.*, embedding <-> ? AS distance", pgvector.NewVector(vector)).
		Order("distance ASC").
		Order("created_at ASC").
		Limit(fetchCount).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]*contract.RetrievalResult, len(rows))
	for i, row := range rows {
		similarity := contract.Similarity(row.Distance)
		results[i] = &contract.RetrievalResult{
			Experience:    r.mapper.ToEntity(&row.Experience),
			Similarity:    similarity,
			RawSimilarity: similarity,
		}
	}
	return results, nil
}
