package pipeline

import (
	"strings"

	"ai-resume-be/pkg/rag/state"
)

// ChatOutcome is the result of one onboarding chat turn. Message is set while
// gathering, VisitorSummary once ready.
type ChatOutcome struct {
	State          state.State
	Ready          bool
	Message        string
	VisitorSummary string
}

// ConversationContext is the client-held session state. The server reads it
// and never stores it.
type ConversationContext struct {
	BlockSummaries        []string       `json:"block_summaries"`
	ShownExperienceCounts map[string]int `json:"shown_experience_counts"`
	TopicsCovered         []string       `json:"topics_covered"`

	// Older clients send boolean exposure and a single summary.
	ShownExperienceIds   []string `json:"shown_experience_ids,omitempty"`
	PreviousBlockSummary string   `json:"previous_block_summary,omitempty"`
}

// Normalize folds the legacy fields into the current ones and drops
// non-positive counts. The receiver is not modified.
func (c ConversationContext) Normalize() ConversationContext {
	out := ConversationContext{
		BlockSummaries:        append([]string(nil), c.BlockSummaries...),
		TopicsCovered:         append([]string(nil), c.TopicsCovered...),
		ShownExperienceCounts: make(map[string]int, len(c.ShownExperienceCounts)+len(c.ShownExperienceIds)),
	}
	for id, n := range c.ShownExperienceCounts {
		if n > 0 {
			out.ShownExperienceCounts[id] = n
		}
	}
	for _, id := range c.ShownExperienceIds {
		if id = strings.TrimSpace(id); id != "" {
			out.ShownExperienceCounts[id]++
		}
	}
	if s := strings.TrimSpace(c.PreviousBlockSummary); s != "" {
		if n := len(out.BlockSummaries); n == 0 || out.BlockSummaries[n-1] != s {
			out.BlockSummaries = append(out.BlockSummaries, s)
		}
	}
	return out
}

// BlockPlan is the structured output of the focusing stage.
type BlockPlan struct {
	BlockFocus               string   `json:"block_focus" validate:"required"`
	SuggestedHTMLStructure   string   `json:"suggested_html_structure"`
	SelectedExperienceTitles []string `json:"selected_experience_titles"`
}

// ButtonCount is the number of suggestions the UI renders.
const ButtonCount = 3

type SuggestedButton struct {
	Label  string `json:"label" validate:"required"`
	Prompt string `json:"prompt" validate:"required"`
}

type ButtonList struct {
	Buttons []SuggestedButton `json:"buttons" validate:"len=3,dive"`
}

// BlockResult is a generated content block.
type BlockResult struct {
	HTML              string
	Summary           string
	Focus             string
	UsedExperienceIds []string
}
