package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is one retrieved source offered to the writing pipeline. Web
// providers fill URL while private library hits leave it empty.
type Result struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Snippets    []string `json:"snippets"`
}

// Provider runs a search query and returns ranked results.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// FormatResults renders results as a numbered block for prompt injection.
// Numbering starts at 1 and matches the citation markers the model is asked
// to emit.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(results))
	for idx, result := range results {
		snippets := result.Snippets
		if len(snippets) == 0 && result.Description != "" {
			snippets = []string{result.Description}
		}

		lines := make([]string, 0, len(snippets))
		for _, snippet := range snippets {
			lines = append(lines, fmt.Sprintf("- %s", snippet))
		}
		formatted = append(formatted, fmt.Sprintf("[%d]", idx+1)+strings.Join(lines, "\n"))
	}

	return strings.Join(formatted, "\n\n")
}
