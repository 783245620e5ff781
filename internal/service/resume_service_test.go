package service

import (
	"context"
	"errors"
	"testing"

	"ai-resume-be/internal/constant"
	"ai-resume-be/internal/dto"
	"ai-resume-be/pkg/ai/pipeline"
	"ai-resume-be/pkg/rag/history"
	"ai-resume-be/pkg/rag/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	chat    *pipeline.ChatOutcome
	block   *pipeline.BlockResult
	buttons []pipeline.SuggestedButton
	err     error

	turnCount int
	turns     []history.Turn
	cc        pipeline.ConversationContext
	action    string
}

func (f *fakeEngine) Chat(_ context.Context, _ string, turns []history.Turn, turnCount int) (*pipeline.ChatOutcome, error) {
	f.turns, f.turnCount = turns, turnCount
	return f.chat, f.err
}

func (f *fakeEngine) GenerateBlock(_ context.Context, _ string, actionValue string, cc pipeline.ConversationContext) (*pipeline.BlockResult, error) {
	f.action, f.cc = actionValue, cc
	return f.block, f.err
}

func (f *fakeEngine) GenerateButtons(_ context.Context, _ string, turns []history.Turn, cc pipeline.ConversationContext) ([]pipeline.SuggestedButton, error) {
	f.turns, f.cc = turns, cc
	return f.buttons, f.err
}

type recordedEvents struct {
	ready    []string
	blocks   []bool
	buttons  []bool
	usedIds  [][]string
	turnSeen []int
}

func (r *recordedEvents) PublishVisitorReady(_ context.Context, turns int, summary string) {
	r.turnSeen = append(r.turnSeen, turns)
	r.ready = append(r.ready, summary)
}

func (r *recordedEvents) PublishBlockGenerated(_ context.Context, _ string, ids []string, fallbackSummary bool) {
	r.usedIds = append(r.usedIds, ids)
	r.blocks = append(r.blocks, fallbackSummary)
}

func (r *recordedEvents) PublishButtonsServed(_ context.Context, _ []string, static bool) {
	r.buttons = append(r.buttons, static)
}

func TestChatCountsVisitorTurnsAndPublishesReady(t *testing.T) {
	engine := &fakeEngine{chat: &pipeline.ChatOutcome{State: state.StateReady, Ready: true, VisitorSummary: "Hiring manager"}}
	events := &recordedEvents{}
	svc := NewResumeService(engine, events)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message: "I lead a platform team",
		History: []dto.ChatTurn{
			{Role: "assistant", Content: "Hi!"},
			{Role: "user", Content: "Hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, engine.turnCount)
	assert.Len(t, engine.turns, 2)
	assert.True(t, res.Ready)
	assert.Equal(t, "READY", res.State)
	require.NotNil(t, res.VisitorSummary)
	assert.Equal(t, "Hiring manager", *res.VisitorSummary)
	assert.Nil(t, res.Message)
	assert.Equal(t, []string{"Hiring manager"}, events.ready)
	assert.Equal(t, []int{2}, events.turnSeen)
}

func TestChatGatheringPublishesNothing(t *testing.T) {
	engine := &fakeEngine{chat: &pipeline.ChatOutcome{State: state.StateGathering, Message: "Tell me more"}}
	events := &recordedEvents{}
	res, err := NewResumeService(engine, events).Chat(context.Background(), &dto.ChatRequest{})
	require.NoError(t, err)

	require.NotNil(t, res.Message)
	assert.Equal(t, "Tell me more", *res.Message)
	assert.Nil(t, res.VisitorSummary)
	assert.Empty(t, events.ready)
}

func TestGenerateBlockMapsContextAndFlagsFallbackSummary(t *testing.T) {
	engine := &fakeEngine{block: &pipeline.BlockResult{
		HTML:    "<div>Go</div>",
		Summary: constant.FallbackBlockSummary,
		Focus:   "Go",
	}}
	events := &recordedEvents{}
	res, err := NewResumeService(engine, events).GenerateBlock(context.Background(), &dto.GenerateBlockRequest{
		VisitorSummary: "CTO",
		ActionValue:    "Show Go work",
		Context: &dto.ConversationContext{
			ShownExperienceCounts: map[string]int{"a": 2},
		},
		PreviousBlockSummary: "Showed leadership",
	})
	require.NoError(t, err)

	assert.Equal(t, "Show Go work", engine.action)
	assert.Equal(t, map[string]int{"a": 2}, engine.cc.ShownExperienceCounts)
	assert.Equal(t, "Showed leadership", engine.cc.PreviousBlockSummary)
	assert.Equal(t, "<div>Go</div>", res.Html)
	assert.Equal(t, []string{}, res.ExperienceIds)
	assert.Equal(t, []bool{true}, events.blocks)
}

func TestGenerateBlockErrorPublishesNothing(t *testing.T) {
	engine := &fakeEngine{err: errors.New("all providers failed")}
	events := &recordedEvents{}
	_, err := NewResumeService(engine, events).GenerateBlock(context.Background(), &dto.GenerateBlockRequest{VisitorSummary: "x"})
	require.Error(t, err)
	assert.Empty(t, events.blocks)
}

func TestGenerateButtonsFlagsStaticSuggestions(t *testing.T) {
	engine := &fakeEngine{buttons: pipeline.StaticButtons()}
	events := &recordedEvents{}
	svc := NewResumeService(engine, events)

	res, err := svc.GenerateButtons(context.Background(), &dto.GenerateButtonsRequest{
		ChatHistory: []dto.ChatTurn{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Buttons, len(constant.FallbackButtons))
	assert.Len(t, engine.turns, 1)

	engine.buttons = []pipeline.SuggestedButton{{Label: "Kafka", Prompt: "Show Kafka work"}}
	_, err = svc.GenerateButtons(context.Background(), &dto.GenerateButtonsRequest{})
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false}, events.buttons)
}
