package history

import (
	"strings"

	"ai-resume-be/internal/constant"
)

// Turn is one entry of the client-supplied chat history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (t Turn) fromVisitor() bool {
	return t.Role == constant.ChatMessageRoleUser
}

// CountVisitorTurns counts visitor entries in turns, plus the pending message
// when it is non-empty.
func CountVisitorTurns(turns []Turn, message string) int {
	count := 0
	for _, t := range turns {
		if t.fromVisitor() {
			count++
		}
	}
	if strings.TrimSpace(message) != "" {
		count++
	}
	return count
}

// Window returns the last n turns. n <= 0 keeps everything.
func Window(turns []Turn, n int) []Turn {
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// Format renders turns as "Visitor:" / "Assistant:" lines. Any role other
// than the visitor's is shown as the assistant.
func Format(turns []Turn) string {
	var sb strings.Builder
	for _, t := range turns {
		label := constant.ChatHistoryAssistantLabel
		if t.fromVisitor() {
			label = constant.ChatHistoryVisitorLabel
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(t.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Transcript is the chat prompt: the formatted history, the pending visitor
// message if any, and a trailing assistant cue.
func Transcript(turns []Turn, message string) string {
	var sb strings.Builder
	sb.WriteString(Format(turns))
	if strings.TrimSpace(message) != "" {
		sb.WriteString(constant.ChatHistoryVisitorLabel)
		sb.WriteString(": ")
		sb.WriteString(message)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(constant.ChatHistoryAssistantLabel)
	sb.WriteString(":")
	return sb.String()
}
