// Package cerebras talks to the Cerebras inference API through its
// OpenAI-compatible chat completions endpoint.
package cerebras

import (
	"context"
	"errors"
	"fmt"
	"math"

	"ai-resume-be/pkg/llm"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.cerebras.ai/v1"

type Config struct {
	APIKey  string
	BaseURL string
	// RequestsPerSecond throttles outgoing requests; zero disables it.
	RequestsPerSecond float64
}

type Client struct {
	client  *openai.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL

	c := &Client{client: openai.NewClientWithConfig(clientConfig)}
	if cfg.RequestsPerSecond > 0 {
		burst := int(math.Ceil(cfg.RequestsPerSecond))
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

func (c *Client) Name() string {
	return "cerebras"
}

func (c *Client) Complete(ctx context.Context, prompt, systemInstruction string, opts ...llm.Option) (string, error) {
	o := llm.ApplyOptions(opts...)
	return c.create(ctx, c.request(prompt, systemInstruction, o))
}

func (c *Client) CompleteStructured(ctx context.Context, prompt, systemInstruction string, schema *llm.Schema, opts ...llm.Option) (string, error) {
	o := llm.ApplyOptions(opts...)
	req := c.request(prompt, systemInstruction, o)
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   schema.Name,
			Strict: true,
			Schema: &schema.Definition,
		},
	}
	return c.create(ctx, req)
}

func (c *Client) request(prompt, systemInstruction string, o llm.Options) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemInstruction})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	temperature := float32(o.Temperature)
	if temperature == 0 {
		// The request field is omitempty, so an exact zero would be dropped
		// and the server default used instead.
		temperature = math.SmallestNonzeroFloat32
	}

	return openai.ChatCompletionRequest{
		Model:       o.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   o.MaxTokens,
	}
}

func (c *Client) create(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if req.Model == "" {
		return "", errors.New("cerebras: model is required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("cerebras: rate limit wait: %w", err)
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("cerebras: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("cerebras: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
