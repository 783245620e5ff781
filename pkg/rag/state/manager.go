package state

import (
	"strings"

	"ai-resume-be/internal/constant"
	"ai-resume-be/internal/pkg/logger"
)

// State is the onboarding chat state. READY is terminal.
type State string

const (
	StateGathering State = "GATHERING"
	StateReady     State = "READY"
)

// Outcome is the result of interpreting one assistant reply.
type Outcome struct {
	State          State
	Message        string
	VisitorSummary string
}

// Manager handles chat state transitions.
type Manager struct {
	logger logger.ILogger
}

// NewManager creates a new state manager
func NewManager(log logger.ILogger) *Manager {
	return &Manager{logger: log}
}

// Resolve moves GATHERING to READY when reply carries a non-empty visitor
// summary marker. Anything else is the next chat turn.
func (m *Manager) Resolve(reply string) Outcome {
	summary, rest, found := extractSummary(reply)
	if found && summary != "" {
		m.logger.Info("STATE", "Transitioned to READY", map[string]interface{}{
			"summary_length": len(summary),
		})
		return Outcome{State: StateReady, VisitorSummary: summary}
	}

	message := strings.TrimSpace(reply)
	if found {
		message = rest
	}
	if message == "" {
		message = constant.ChatUnavailableMessage
	}
	return Outcome{State: StateGathering, Message: message}
}

// extractSummary returns the tag body, the reply with the tag removed, and
// whether an opening tag was present. A missing closing tag takes the rest of
// the reply as the body.
func extractSummary(reply string) (summary, rest string, found bool) {
	start := strings.Index(reply, constant.VisitorSummaryOpenTag)
	if start < 0 {
		return "", reply, false
	}
	bodyStart := start + len(constant.VisitorSummaryOpenTag)
	end := strings.Index(reply[bodyStart:], constant.VisitorSummaryCloseTag)

	var after string
	if end < 0 {
		summary = reply[bodyStart:]
	} else {
		summary = reply[bodyStart : bodyStart+end]
		after = reply[bodyStart+end+len(constant.VisitorSummaryCloseTag):]
	}
	rest = strings.TrimSpace(reply[:start] + after)
	return strings.TrimSpace(summary), rest, true
}
