package mapper

import (
	"time"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ExperienceMapper struct{}

func NewExperienceMapper() *ExperienceMapper {
	return &ExperienceMapper{}
}

func (m *ExperienceMapper) ToEntity(e *model.Experience) *entity.Experience {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	skills := []string(e.Skills)
	if skills == nil {
		skills = []string{}
	}
	metadata := map[string]interface{}(e.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	return &entity.Experience{
		Id:          e.Id,
		SourceId:    e.SourceId,
		Title:       e.Title,
		Content:     e.Content,
		Skills:      skills,
		Metadata:    metadata,
		ContentHash: e.ContentHash,
		Embedding:   e.Embedding.Slice(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ExperienceMapper) ToModel(e *entity.Experience) *model.Experience {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Experience{
		Id:          e.Id,
		SourceId:    e.SourceId,
		Title:       e.Title,
		Content:     e.Content,
		Skills:      datatypes.JSONSlice[string](e.Skills),
		Metadata:    datatypes.JSONMap(e.Metadata),
		ContentHash: e.ContentHash,
		Embedding:   pgvector.NewVector(e.Embedding),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
