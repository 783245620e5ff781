package rag

import (
	"fmt"
	"strings"

	"ai-resume-be/internal/repository/contract"
)

// FormatResults renders results as the context block handed to the model.
func FormatResults(results []*contract.RetrievalResult) string {
	if len(results) == 0 {
		return "No relevant experiences found."
	}

	var sb strings.Builder
	for _, r := range results {
		e := r.Experience
		skills := "N/A"
		if len(e.Skills) > 0 {
			skills = strings.Join(e.Skills, ", ")
		}
		fmt.Fprintf(&sb, "Title: %s\n", e.Title)
		fmt.Fprintf(&sb, "Type: %s\n", e.Type())
		if date, ok := e.Metadata["date"].(string); ok && date != "" {
			fmt.Fprintf(&sb, "Dates: %s\n", date)
		}
		fmt.Fprintf(&sb, "Skills: %s\n", skills)
		fmt.Fprintf(&sb, "Content: %s\n", e.Content)
		sb.WriteString("---\n")
	}
	return sb.String()
}

// Titles lists result titles in rank order.
func Titles(results []*contract.RetrievalResult) []string {
	titles := make([]string, len(results))
	for i, r := range results {
		titles[i] = r.Experience.Title
	}
	return titles
}

// IDs lists result experience ids in rank order.
func IDs(results []*contract.RetrievalResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Experience.Id.String()
	}
	return ids
}

// FilterByTitles keeps results whose title matches one of titles, ignoring
// case and surrounding whitespace. Rank order is preserved.
func FilterByTitles(results []*contract.RetrievalResult, titles []string) []*contract.RetrievalResult {
	wanted := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		wanted[normalizeTitle(t)] = struct{}{}
	}

	var out []*contract.RetrievalResult
	for _, r := range results {
		if _, ok := wanted[normalizeTitle(r.Experience.Title)]; ok {
			out = append(out, r)
		}
	}
	return out
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
