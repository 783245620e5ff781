package dto

type ChatTurn struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// ConversationContext is the session state the browser keeps between calls.
type ConversationContext struct {
	BlockSummaries        []string       `json:"block_summaries"`
	ShownExperienceCounts map[string]int `json:"shown_experience_counts"`
	TopicsCovered         []string       `json:"topics_covered"`
	ShownExperienceIds    []string       `json:"shown_experience_ids,omitempty"`
}

type ChatRequest struct {
	Message string     `json:"message" validate:"max=4000"`
	History []ChatTurn `json:"history" validate:"max=50,dive"`
}

type ChatResponse struct {
	Ready          bool    `json:"ready"`
	State          string  `json:"state"`
	Message        *string `json:"message"`
	VisitorSummary *string `json:"visitor_summary"`
}

type GenerateBlockRequest struct {
	VisitorSummary string               `json:"visitor_summary" validate:"required,max=4000"`
	ActionType     string               `json:"action_type"`
	ActionValue    string               `json:"action_value" validate:"max=2000"`
	Context        *ConversationContext `json:"context"`

	PreviousBlockSummary string `json:"previous_block_summary,omitempty"`
}

type GenerateBlockResponse struct {
	Html          string   `json:"html"`
	BlockSummary  string   `json:"block_summary"`
	ExperienceIds []string `json:"experience_ids"`
}

type GenerateButtonsRequest struct {
	VisitorSummary string               `json:"visitor_summary" validate:"max=4000"`
	ChatHistory    []ChatTurn           `json:"chat_history" validate:"max=50,dive"`
	Context        *ConversationContext `json:"context"`
}

type SuggestedButton struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

type GenerateButtonsResponse struct {
	Buttons []SuggestedButton `json:"buttons"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
