// Package article holds the text-level model of a generated article: chapter
// chunks delimited by markdown headings, and the numeric [n] citation markers
// that bind chapter text to its reference entries.
package article

import (
	"strings"
)

// Reference is one citation entry attached to a chapter, addressed from the
// chapter text by a numeric [n] marker.
type Reference struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// Chapter is one generated article section together with its references,
// keyed by the stringified marker number.
type Chapter struct {
	Index      int
	Title      string
	Content    string
	References map[string]Reference
}

// SplitChapters cuts article text into chapter chunks. A line starting with a
// heading marker opens a new chunk; prose before the first heading forms its
// own leading chunk.
func SplitChapters(text string) []string {
	var chapters []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") && len(current) > 0 {
			chapters = append(chapters, strings.TrimSpace(strings.Join(current, "\n")))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		if chunk := strings.TrimSpace(strings.Join(current, "\n")); chunk != "" {
			chapters = append(chapters, chunk)
		}
	}
	return chapters
}

// JoinChapters concatenates chapter chunks back into one article string.
func JoinChapters(chapters []string) string {
	nonEmpty := make([]string, 0, len(chapters))
	for _, c := range chapters {
		if strings.TrimSpace(c) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(c))
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

// ChapterTitle returns the text of the first heading line, or the first
// non-empty line when the chunk has no heading.
func ChapterTitle(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	}
	return ""
}
