package mapper

import (
	"ai-resume-be/internal/dto"
	"ai-resume-be/pkg/ai/pipeline"
	"ai-resume-be/pkg/rag/history"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToTurns(turns []dto.ChatTurn) []history.Turn {
	out := make([]history.Turn, len(turns))
	for i, t := range turns {
		out[i] = history.Turn{Role: t.Role, Content: t.Content}
	}
	return out
}

// ToContext maps the request context. previousBlockSummary is the legacy
// single-summary field some clients still send at the top level.
func (m *ConversationMapper) ToContext(c *dto.ConversationContext, previousBlockSummary string) pipeline.ConversationContext {
	out := pipeline.ConversationContext{PreviousBlockSummary: previousBlockSummary}
	if c == nil {
		return out
	}
	out.BlockSummaries = c.BlockSummaries
	out.ShownExperienceCounts = c.ShownExperienceCounts
	out.TopicsCovered = c.TopicsCovered
	out.ShownExperienceIds = c.ShownExperienceIds
	return out
}

func (m *ConversationMapper) ToChatResponse(o *pipeline.ChatOutcome) *dto.ChatResponse {
	res := &dto.ChatResponse{Ready: o.Ready, State: string(o.State)}
	if o.Ready {
		summary := o.VisitorSummary
		res.VisitorSummary = &summary
	} else {
		message := o.Message
		res.Message = &message
	}
	return res
}

func (m *ConversationMapper) ToBlockResponse(b *pipeline.BlockResult) *dto.GenerateBlockResponse {
	ids := b.UsedExperienceIds
	if ids == nil {
		ids = []string{}
	}
	return &dto.GenerateBlockResponse{
		Html:          b.HTML,
		BlockSummary:  b.Summary,
		ExperienceIds: ids,
	}
}

func (m *ConversationMapper) ToButtonsResponse(buttons []pipeline.SuggestedButton) *dto.GenerateButtonsResponse {
	out := make([]dto.SuggestedButton, len(buttons))
	for i, b := range buttons {
		out[i] = dto.SuggestedButton{Label: b.Label, Prompt: b.Prompt}
	}
	return &dto.GenerateButtonsResponse{Buttons: out}
}
