package cerebras

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-resume-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat *struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string          `json:"name"`
			Strict bool            `json:"strict"`
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   captured.Model,
			"choices": []map[string]interface{}{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestCompleteSendsSystemAndPrompt(t *testing.T) {
	var captured capturedRequest
	srv := newServer(t, "hello there", &captured)
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	got, err := c.Complete(context.Background(), "Visitor: hi", "be brief", llm.WithModel("llama3.1-8b"))
	require.NoError(t, err)

	assert.Equal(t, "hello there", got)
	assert.Equal(t, "llama3.1-8b", captured.Model)
	assert.InDelta(t, llm.DefaultTemperature, captured.Temperature, 1e-6)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "be brief", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Nil(t, captured.ResponseFormat)
}

type sample struct {
	Label string `json:"label"`
}

func TestCompleteStructuredSendsStrictSchema(t *testing.T) {
	var captured capturedRequest
	srv := newServer(t, `{"label":"x"}`, &captured)
	defer srv.Close()

	schema, err := llm.SchemaFor[sample]()
	require.NoError(t, err)

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	got, err := c.CompleteStructured(context.Background(), "go", "", schema, llm.WithModel("qwen-3-32b"), llm.WithTemperature(0))
	require.NoError(t, err)

	assert.JSONEq(t, `{"label":"x"}`, got)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_schema", captured.ResponseFormat.Type)
	assert.Equal(t, "sample", captured.ResponseFormat.JSONSchema.Name)
	assert.True(t, captured.ResponseFormat.JSONSchema.Strict)
	assert.Contains(t, string(captured.ResponseFormat.JSONSchema.Schema), `"label"`)
	assert.Less(t, captured.Temperature, 1e-6)
	require.Len(t, captured.Messages, 1)
}

func TestCompleteSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hi", "", llm.WithModel("m"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cerebras")
}

func TestCompleteRequiresModel(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key", BaseURL: "http://127.0.0.1:0"})
	_, err := c.Complete(context.Background(), "hi", "")
	assert.Error(t, err)
}
