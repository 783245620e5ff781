package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// EmbeddingDimensions must match the configured embedding model output.
const EmbeddingDimensions = 768

type Experience struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceId    string                      `gorm:"type:text;not null;uniqueIndex"`
	Title       string                      `gorm:"type:text;not null"`
	Content     string                      `gorm:"type:text;not null"`
	Skills      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Metadata    datatypes.JSONMap           `gorm:"type:jsonb"`
	ContentHash string                      `gorm:"type:varchar(64);not null"`
	Embedding   pgvector.Vector             `gorm:"type:vector(768);not null"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

func (Experience) TableName() string {
	return "experiences"
}
