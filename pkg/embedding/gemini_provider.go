package embedding

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	models     *genai.Models
	model      string
	dimensions int32
}

// NewGeminiProvider embeds through an existing genai models service so the
// embedding and fallback chat paths share one client.
func NewGeminiProvider(models *genai.Models, model string, dimensions int) EmbeddingProvider {
	return &GeminiProvider{
		models:     models,
		model:      model,
		dimensions: int32(dimensions),
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType TaskType) (*EmbeddingResponse, error) {
	cfg := &genai.EmbedContentConfig{
		TaskType: string(taskType),
	}
	if p.dimensions > 0 {
		cfg.OutputDimensionality = genai.Ptr(p.dimensions)
	}

	res, err := p.models.EmbedContent(ctx, p.model, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, errors.New("gemini embed: no embeddings in response")
	}

	values := res.Embeddings[0].Values
	if p.dimensions > 0 && p.dimensions < 3072 {
		// Truncated gemini-embedding vectors are not unit length.
		values = normalizeVector(values)
	}
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: values}}, nil
}
