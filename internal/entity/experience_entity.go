package entity

import (
	"time"

	"github.com/google/uuid"
)

// Experience is one job or project record with its document embedding.
type Experience struct {
	Id          uuid.UUID
	SourceId    string
	Title       string
	Content     string
	Skills      []string
	Metadata    map[string]interface{}
	ContentHash string
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Type is the metadata "type" value ("job", "project"), or "unknown".
func (e *Experience) Type() string {
	if t, ok := e.Metadata["type"].(string); ok && t != "" {
		return t
	}
	return "unknown"
}
