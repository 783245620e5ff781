package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-resume-be/internal/dto"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResumeService struct {
	chatReq  *dto.ChatRequest
	blockErr error
}

func (s *stubResumeService) Chat(_ context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.chatReq = req
	msg := "Tell me about your role"
	return &dto.ChatResponse{State: "GATHERING", Message: &msg}, nil
}

func (s *stubResumeService) GenerateBlock(_ context.Context, _ *dto.GenerateBlockRequest) (*dto.GenerateBlockResponse, error) {
	if s.blockErr != nil {
		return nil, s.blockErr
	}
	return &dto.GenerateBlockResponse{Html: "<div/>", BlockSummary: "s", ExperienceIds: []string{"a"}}, nil
}

func (s *stubResumeService) GenerateButtons(_ context.Context, _ *dto.GenerateButtonsRequest) (*dto.GenerateButtonsResponse, error) {
	return &dto.GenerateButtonsResponse{Buttons: []dto.SuggestedButton{{Label: "Go", Prompt: "Show Go"}}}, nil
}

func newTestApp(svc *stubResumeService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	NewResumeController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	status, body := do(t, newTestApp(&stubResumeService{}), "GET", "/api/health", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{"status": "ok"}, body["data"])
}

func TestChatParsesHistory(t *testing.T) {
	svc := &stubResumeService{}
	status, body := do(t, newTestApp(svc), "POST", "/api/chat",
		`{"message":"hi","history":[{"role":"assistant","content":"Hello"}]}`)
	require.Equal(t, 200, status)

	require.NotNil(t, svc.chatReq)
	assert.Equal(t, "hi", svc.chatReq.Message)
	assert.Len(t, svc.chatReq.History, 1)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "GATHERING", data["state"])
	assert.Equal(t, "Tell me about your role", data["message"])
	assert.Nil(t, data["visitor_summary"])
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	status, body := do(t, newTestApp(&stubResumeService{}), "POST", "/api/chat", `{"message":`)
	assert.Equal(t, 400, status)
	assert.Equal(t, false, body["success"])
}

func TestGenerateBlockRequiresVisitorSummary(t *testing.T) {
	status, body := do(t, newTestApp(&stubResumeService{}), "POST", "/api/generate-block", `{"action_value":"Go"}`)
	assert.Equal(t, 400, status)
	fields := body["data"].(map[string]interface{})
	assert.Equal(t, "required", fields["GenerateBlockRequest.VisitorSummary"])
}

func TestGenerateBlockFailureIsServerError(t *testing.T) {
	svc := &stubResumeService{blockErr: errors.New("all providers exhausted")}
	status, body := do(t, newTestApp(svc), "POST", "/api/generate-block", `{"visitor_summary":"CTO"}`)
	assert.Equal(t, 500, status)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestGenerateButtons(t *testing.T) {
	status, body := do(t, newTestApp(&stubResumeService{}), "POST", "/api/generate-buttons", `{}`)
	require.Equal(t, 200, status)
	buttons := body["data"].(map[string]interface{})["buttons"].([]interface{})
	assert.Len(t, buttons, 1)
}
