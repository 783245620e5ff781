package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-resume-be/internal/constant"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/repository/contract"
	"ai-resume-be/pkg/ai/router"
	"ai-resume-be/pkg/llm"
	"ai-resume-be/pkg/rag"
	"ai-resume-be/pkg/rag/history"
	"ai-resume-be/pkg/rag/prompt"
	"ai-resume-be/pkg/rag/state"
)

const logModule = "PIPELINE"

// Searcher is the diversity-aware retrieval used by every stage.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, shownCounts map[string]int) ([]*contract.RetrievalResult, error)
}

type Config struct {
	Chat prompt.ChatThresholds
	// RetrievalLimit caps the experiences given to one generation call.
	RetrievalLimit int
	// CandidateLimit is how many experiences the focusing stage chooses from.
	CandidateLimit int
	HistoryWindow  int
	SummaryWindow  int
}

func DefaultConfig() Config {
	return Config{
		Chat:           prompt.ChatThresholds{SuggestWrapUp: 2, Max: 5},
		RetrievalLimit: 5,
		CandidateLimit: 10,
		HistoryWindow:  6,
		SummaryWindow:  5,
	}
}

// ConversationPipeline runs the chat, block and button flows. It keeps no
// state between calls.
type ConversationPipeline struct {
	llm    *llm.Orchestrator
	search Searcher
	state  *state.Manager
	cfg    Config
	logger logger.ILogger
}

func NewConversationPipeline(orchestrator *llm.Orchestrator, search Searcher, cfg Config, log logger.ILogger) *ConversationPipeline {
	if cfg.CandidateLimit < cfg.RetrievalLimit {
		cfg.CandidateLimit = cfg.RetrievalLimit
	}
	return &ConversationPipeline{
		llm:    orchestrator,
		search: search,
		state:  state.NewManager(log),
		cfg:    cfg,
		logger: log,
	}
}

// Chat produces the next onboarding turn. turnCount is the number of visitor
// turns including message.
func (p *ConversationPipeline) Chat(ctx context.Context, message string, turns []history.Turn, turnCount int) (*ChatOutcome, error) {
	if strings.TrimSpace(message) == "" && len(turns) == 0 {
		return gathering(constant.ChatGreeting), nil
	}

	system := prompt.ChatSystem(turnCount, p.cfg.Chat)
	reply, err := p.llm.CallText(ctx, history.Transcript(turns, message), system, router.Large, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn(logModule, "Chat generation failed, asking visitor to continue", map[string]interface{}{
			"turns": turnCount,
			"error": err,
		})
		return gathering(constant.ChatUnavailableMessage), nil
	}

	outcome := p.state.Resolve(reply)
	return &ChatOutcome{
		State:          outcome.State,
		Ready:          outcome.State == state.StateReady,
		Message:        outcome.Message,
		VisitorSummary: outcome.VisitorSummary,
	}, nil
}

func gathering(message string) *ChatOutcome {
	return &ChatOutcome{State: state.StateGathering, Message: message}
}

// GenerateBlock retrieves candidates, plans the block, generates its HTML and
// summarizes it. Only retrieval and HTML generation failures are returned.
func (p *ConversationPipeline) GenerateBlock(ctx context.Context, visitorSummary, actionValue string, cc ConversationContext) (*BlockResult, error) {
	cc = cc.Normalize()
	query := strings.TrimSpace(actionValue)
	if query == "" {
		query = visitorSummary
	}

	candidates, err := p.search.Search(ctx, query, p.cfg.CandidateLimit, cc.ShownExperienceCounts)
	if err != nil {
		return nil, fmt.Errorf("retrieve experiences: %w", err)
	}

	previous := prompt.WithTopics(prompt.BlockSummaries(tail(cc.BlockSummaries, p.cfg.SummaryWindow)), cc.TopicsCovered)
	plan, err := p.plan(ctx, visitorSummary, previous, query, candidates)
	if err != nil {
		return nil, err
	}

	selected := rag.FilterByTitles(candidates, plan.SelectedExperienceTitles)
	if len(selected) == 0 {
		selected = candidates
	}
	if len(selected) > p.cfg.RetrievalLimit {
		selected = selected[:p.cfg.RetrievalLimit]
	}

	raw, err := p.llm.CallText(ctx, constant.BlockInstruction,
		prompt.Block(plan.BlockFocus, plan.SuggestedHTMLStructure, rag.FormatResults(selected)),
		router.Large, 0)
	if err != nil {
		return nil, fmt.Errorf("generate block: %w", err)
	}
	html := llm.StripCodeFences(raw)
	if html == "" {
		return nil, errors.New("generate block: empty content")
	}

	summary := p.summarize(ctx, html, visitorSummary)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	p.logger.Info(logModule, "Block generated", map[string]interface{}{
		"candidates": len(candidates),
		"selected":   rag.Titles(selected),
		"html_bytes": len(html),
	})
	return &BlockResult{
		HTML:              html,
		Summary:           summary,
		Focus:             plan.BlockFocus,
		UsedExperienceIds: rag.IDs(selected),
	}, nil
}

// plan runs the focusing stage. On exhaustion it falls back to the query as
// focus and the top candidates as the selection.
func (p *ConversationPipeline) plan(ctx context.Context, visitorSummary, previous, query string, candidates []*contract.RetrievalResult) (BlockPlan, error) {
	system := prompt.Focus(visitorSummary, previous, query, rag.FormatResults(candidates))
	plan, err := llm.CallStructured[BlockPlan](ctx, p.llm, constant.FocusInstruction, system, router.Medium, 0)
	if err == nil {
		return plan, nil
	}
	if ctx.Err() != nil {
		return BlockPlan{}, ctx.Err()
	}

	p.logger.Warn(logModule, "Focus generation failed, using fallback plan", map[string]interface{}{"error": err})
	top := candidates
	if len(top) > p.cfg.RetrievalLimit {
		top = top[:p.cfg.RetrievalLimit]
	}
	return BlockPlan{BlockFocus: query, SelectedExperienceTitles: rag.Titles(top)}, nil
}

func (p *ConversationPipeline) summarize(ctx context.Context, html, visitorSummary string) string {
	summary, err := p.llm.CallText(ctx, constant.SummaryInstruction, prompt.Summary(html, visitorSummary), router.Small, 0)
	if err != nil {
		p.logger.Warn(logModule, "Summary generation failed, using fallback", map[string]interface{}{"error": err})
		return constant.FallbackBlockSummary
	}
	return strings.TrimSpace(summary)
}

// GenerateButtons suggests the next prompts. Any failure short of
// cancellation yields the static suggestions.
func (p *ConversationPipeline) GenerateButtons(ctx context.Context, visitorSummary string, turns []history.Turn, cc ConversationContext) ([]SuggestedButton, error) {
	cc = cc.Normalize()

	query := strings.TrimSpace(history.Format(history.Window(turns, p.cfg.HistoryWindow)))
	if query == "" {
		query = constant.DefaultButtonsQuery
	}
	if s := strings.TrimSpace(visitorSummary); s != "" {
		query = s + "\n" + query
	}

	results, err := p.search.Search(ctx, query, p.cfg.RetrievalLimit, cc.ShownExperienceCounts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn(logModule, "Button retrieval failed, using static buttons", map[string]interface{}{"error": err})
		return StaticButtons(), nil
	}

	previous := prompt.BlockSummaries(tail(cc.BlockSummaries, p.cfg.SummaryWindow))
	system := prompt.Buttons(visitorSummary, previous, rag.FormatResults(results), ButtonCount)
	list, err := llm.CallStructured[ButtonList](ctx, p.llm, constant.ButtonsInstruction, system, router.Small, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fields := map[string]interface{}{"error": err}
		var soe *llm.StructuredOutputError
		if errors.As(err, &soe) {
			fields["schema"] = soe.Schema
		}
		p.logger.Warn(logModule, "Button generation failed, using static buttons", fields)
		return StaticButtons(), nil
	}
	return list.Buttons, nil
}

// StaticButtons returns a fresh copy of the fallback suggestions.
func StaticButtons() []SuggestedButton {
	out := make([]SuggestedButton, len(constant.FallbackButtons))
	for i, b := range constant.FallbackButtons {
		out[i] = SuggestedButton{Label: b.Label, Prompt: b.Prompt}
	}
	return out
}

func tail(items []string, n int) []string {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
