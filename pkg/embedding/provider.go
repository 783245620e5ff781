package embedding

import (
	"context"
	"errors"
	"fmt"
)

// TaskType tells the backend what the vector is for. Document and query
// vectors are tuned differently, so the distinction is kept end to end.
type TaskType string

const (
	TaskDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskQuery    TaskType = "RETRIEVAL_QUERY"
)

var (
	ErrEmptyText         = errors.New("embedding: text is empty")
	ErrDimensionMismatch = errors.New("embedding: unexpected vector dimension")
	ErrZeroVector        = errors.New("embedding: provider returned a zero vector")
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType TaskType) (*EmbeddingResponse, error)
}

// Service is the single embedding entry point for ingestion and search. It
// never returns a degenerate vector: provider failures, wrong dimensions and
// all-zero vectors are errors.
type Service struct {
	provider   EmbeddingProvider
	dimensions int
}

func NewService(provider EmbeddingProvider, dimensions int) *Service {
	return &Service{provider: provider, dimensions: dimensions}
}

func (s *Service) Dimensions() int {
	return s.dimensions
}

func (s *Service) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	res, err := s.provider.Generate(ctx, text, taskType)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", taskType, err)
	}
	values := res.Embedding.Values
	if len(values) != s.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(values), s.dimensions)
	}
	for _, v := range values {
		if v != 0 {
			return values, nil
		}
	}
	return nil, ErrZeroVector
}
