package gemini

import (
	"context"
	"errors"
	"fmt"

	"ai-resume-be/pkg/llm"

	"google.golang.org/genai"
)

type Client struct {
	client *genai.Client
}

// NewClient connects to the Gemini API. baseURL is only set by tests.
func NewClient(ctx context.Context, apiKey, baseURL string) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: client}, nil
}

// Models exposes the underlying models service to the embedding provider so
// both share one client.
func (c *Client) Models() *genai.Models {
	return c.client.Models
}

func (c *Client) Name() string {
	return "gemini"
}

func (c *Client) Complete(ctx context.Context, prompt, systemInstruction string, opts ...llm.Option) (string, error) {
	o := llm.ApplyOptions(opts...)
	return c.generate(ctx, prompt, o, c.config(systemInstruction, o))
}

func (c *Client) CompleteStructured(ctx context.Context, prompt, systemInstruction string, schema *llm.Schema, opts ...llm.Option) (string, error) {
	o := llm.ApplyOptions(opts...)
	cfg := c.config(systemInstruction, o)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseJsonSchema = &schema.Definition
	return c.generate(ctx, prompt, o, cfg)
}

func (c *Client) config(systemInstruction string, o llm.Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(o.Temperature)),
	}
	if systemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}
	if o.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(o.MaxTokens)
	}
	return cfg
}

func (c *Client) generate(ctx context.Context, prompt string, o llm.Options, cfg *genai.GenerateContentConfig) (string, error) {
	if o.Model == "" {
		return "", errors.New("gemini: model is required")
	}
	resp, err := c.client.Models.GenerateContent(ctx, o.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
