package llm

import (
	"regexp"
	"strings"
)

const (
	reasoningOpen  = "<think>"
	reasoningClose = "</think>"
)

var reasoningBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes private reasoning segments from model output. A
// dangling close tag means the model omitted the opening one, so everything
// before it is reasoning too.
func StripReasoning(text string) string {
	text = reasoningBlock.ReplaceAllString(text, "")
	if i := strings.LastIndex(text, reasoningClose); i >= 0 && !strings.Contains(text[:i], reasoningOpen) {
		text = text[i+len(reasoningClose):]
	}
	return strings.TrimSpace(text)
}

// StripCodeFences removes markdown fence markers, keeping the fenced body.
// After it returns, the text holds no run of three backticks.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		// Drop the info string of an opening fence (```html, ```json).
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	for _, lang := range []string{"```html", "```json", "```HTML", "```JSON"} {
		text = strings.ReplaceAll(text, lang, "")
	}
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
