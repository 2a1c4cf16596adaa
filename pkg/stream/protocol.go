// Package stream implements the newline-delimited article generation
// protocol: tagged lines carrying chapter payloads, chapter errors and the
// terminal completion marker.
package stream

import (
	"encoding/json"

	"ai-writing-be/pkg/article"
)

// Line tags. Every protocol line is one of these, terminated by '\n'.
const (
	TagChapter      = "CHAPTER_DATA:"
	TagChapterError = "CHAPTER_ERROR:"
	TagComplete     = "ARTICLE_COMPLETE"
)

// Error classes carried on chapter error lines.
const (
	ErrorTypeNetwork = "network"
	ErrorTypeOther   = "other"
)

// ChapterPayload is the wire form of a completed chapter.
type ChapterPayload struct {
	Type       string                       `json:"type"`
	Index      int                          `json:"index"`
	Title      string                       `json:"title"`
	Content    string                       `json:"content"`
	References map[string]article.Reference `json:"references"`
	Depth      int                          `json:"depth"`
	Status     string                       `json:"status"`
}

// ChapterError is the wire form of a failed chapter.
type ChapterError struct {
	Type      string `json:"type"`
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Message   string `json:"error"`
	ErrorType string `json:"error_type"`
	Status    string `json:"status"`
}

// EncodeChapter frames a chapter as a protocol line including the trailing
// newline.
func EncodeChapter(ch article.Chapter) ([]byte, error) {
	refs := ch.References
	if refs == nil {
		refs = map[string]article.Reference{}
	}
	payload := ChapterPayload{
		Type:       "chapter",
		Index:      ch.Index,
		Title:      ch.Title,
		Content:    ch.Content,
		References: refs,
		Depth:      1,
		Status:     "completed",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(TagChapter), data...), '\n'), nil
}

// EncodeChapterError frames a chapter failure as a protocol line.
func EncodeChapterError(index int, title, message, errorType string) ([]byte, error) {
	if errorType != ErrorTypeNetwork {
		errorType = ErrorTypeOther
	}
	payload := ChapterError{
		Type:      "chapter_error",
		Index:     index,
		Title:     title,
		Message:   message,
		ErrorType: errorType,
		Status:    "error",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(TagChapterError), data...), '\n'), nil
}

// CompleteLine returns the terminal marker line.
func CompleteLine() []byte {
	return []byte(TagComplete + "\n")
}
