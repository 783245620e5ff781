package service

import (
	"context"

	"ai-resume-be/internal/constant"
	"ai-resume-be/internal/dto"
	"ai-resume-be/internal/mapper"
	"ai-resume-be/pkg/ai/pipeline"
	"ai-resume-be/pkg/events"
	"ai-resume-be/pkg/rag/history"
)

// ConversationEngine is the stateless conversation pipeline.
type ConversationEngine interface {
	Chat(ctx context.Context, message string, turns []history.Turn, turnCount int) (*pipeline.ChatOutcome, error)
	GenerateBlock(ctx context.Context, visitorSummary, actionValue string, cc pipeline.ConversationContext) (*pipeline.BlockResult, error)
	GenerateButtons(ctx context.Context, visitorSummary string, turns []history.Turn, cc pipeline.ConversationContext) ([]pipeline.SuggestedButton, error)
}

type IResumeService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GenerateBlock(ctx context.Context, req *dto.GenerateBlockRequest) (*dto.GenerateBlockResponse, error)
	GenerateButtons(ctx context.Context, req *dto.GenerateButtonsRequest) (*dto.GenerateButtonsResponse, error)
}

type resumeService struct {
	engine    ConversationEngine
	mapper    *mapper.ConversationMapper
	publisher events.Publisher
}

func NewResumeService(engine ConversationEngine, publisher events.Publisher) IResumeService {
	return &resumeService{
		engine:    engine,
		mapper:    mapper.NewConversationMapper(),
		publisher: publisher,
	}
}

func (s *resumeService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	turns := s.mapper.ToTurns(req.History)
	turnCount := history.CountVisitorTurns(turns, req.Message)

	outcome, err := s.engine.Chat(ctx, req.Message, turns, turnCount)
	if err != nil {
		return nil, err
	}
	if outcome.Ready {
		s.publisher.PublishVisitorReady(ctx, turnCount, outcome.VisitorSummary)
	}
	return s.mapper.ToChatResponse(outcome), nil
}

func (s *resumeService) GenerateBlock(ctx context.Context, req *dto.GenerateBlockRequest) (*dto.GenerateBlockResponse, error) {
	cc := s.mapper.ToContext(req.Context, req.PreviousBlockSummary)

	block, err := s.engine.GenerateBlock(ctx, req.VisitorSummary, req.ActionValue, cc)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishBlockGenerated(ctx, block.Focus, block.UsedExperienceIds, block.Summary == constant.FallbackBlockSummary)
	return s.mapper.ToBlockResponse(block), nil
}

func (s *resumeService) GenerateButtons(ctx context.Context, req *dto.GenerateButtonsRequest) (*dto.GenerateButtonsResponse, error) {
	turns := s.mapper.ToTurns(req.ChatHistory)
	cc := s.mapper.ToContext(req.Context, "")

	buttons, err := s.engine.GenerateButtons(ctx, req.VisitorSummary, turns, cc)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(buttons))
	for i, b := range buttons {
		labels[i] = b.Label
	}
	s.publisher.PublishButtonsServed(ctx, labels, isStatic(buttons))
	return s.mapper.ToButtonsResponse(buttons), nil
}

func isStatic(buttons []pipeline.SuggestedButton) bool {
	static := constant.FallbackButtons
	if len(buttons) != len(static) {
		return false
	}
	for i, b := range buttons {
		if b.Label != static[i].Label || b.Prompt != static[i].Prompt {
			return false
		}
	}
	return true
}
