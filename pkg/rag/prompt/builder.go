package prompt

import (
	"fmt"
	"strings"

	"ai-resume-be/internal/constant"
)

// ChatThresholds are the visitor-turn counts at which the chat instruction
// asks for, then demands, the visitor summary.
type ChatThresholds struct {
	SuggestWrapUp int
	Max           int
}

// ChatSystem returns the onboarding instruction for the given visitor turn
// count.
func ChatSystem(turns int, th ChatThresholds) string {
	switch {
	case turns >= th.Max:
		return constant.ChatSystemPrompt + constant.ChatMandatoryDirective
	case turns >= th.SuggestWrapUp:
		return constant.ChatSystemPrompt + constant.ChatWrapUpDirective
	default:
		return constant.ChatSystemPrompt
	}
}

// BlockSummaries renders prior block summaries as a numbered list, most
// recent last.
func BlockSummaries(summaries []string) string {
	var sb strings.Builder
	n := 0
	for _, s := range summaries {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n++
		fmt.Fprintf(&sb, "%d. %s\n", n, s)
	}
	if n == 0 {
		return constant.NoPriorContext
	}
	return strings.TrimRight(sb.String(), "\n")
}

// WithTopics appends the covered topics to a rendered summary list.
func WithTopics(summaries string, topics []string) string {
	if len(topics) == 0 {
		return summaries
	}
	return summaries + "\nTopics already covered: " + strings.Join(topics, ", ")
}

func Focus(visitorSummary, previous, userInput, experiences string) string {
	return fmt.Sprintf(constant.FocusSystemPrompt, visitorSummary, previous, userInput, experiences)
}

func Block(focus, structure, experiences string) string {
	if strings.TrimSpace(structure) == "" {
		structure = "Choose whatever layout best presents the experiences."
	}
	return fmt.Sprintf(constant.BlockSystemPrompt, focus, structure, experiences)
}

func Summary(html, visitorSummary string) string {
	return fmt.Sprintf(constant.SummarySystemPrompt, html, visitorSummary)
}

func Buttons(visitorSummary, previous, experiences string, count int) string {
	return fmt.Sprintf(constant.ButtonsSystemPrompt, visitorSummary, previous, experiences, count)
}
