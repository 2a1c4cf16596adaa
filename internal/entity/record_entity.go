package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChapterReference is one resolved citation shown as a tooltip on the
// frontend: the snippet that backs the [n] marker plus where it came from.
type ChapterReference struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// ReferenceMap maps citation number (as string, "1"-based) to its reference.
type ReferenceMap map[string]ChapterReference

// HistoryRecord is one topic/outline/article iteration inside a session.
// ArticleChapters holds the chapter markdown in outline order; ReferencesData
// keys chapter index (stringified) to that chapter's citation map.
type HistoryRecord struct {
	Id               uuid.UUID
	SessionUuid      uuid.UUID
	RecordPosition   int
	Topic            string
	Outline          string
	ArticleChapters  []string
	ReferencesData   map[string]ReferenceMap
	NextMessageOrder int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// Article joins the chapter list into the full article text, skipping
// chapters that were never generated.
func (r *HistoryRecord) Article() string {
	out := ""
	for _, chapter := range r.ArticleChapters {
		if chapter == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += chapter
	}
	return out
}

// HasArticle reports whether at least one chapter has content.
func (r *HistoryRecord) HasArticle() bool {
	for _, chapter := range r.ArticleChapters {
		if chapter != "" {
			return true
		}
	}
	return false
}

// ConversationMessage is one turn of the outline LLM conversation kept per
// record so modify/polish can replay context.
type ConversationMessage struct {
	Id           uuid.UUID
	RecordId     uuid.UUID
	Role         string
	Content      string
	MessageOrder int
	CreatedAt    time.Time
}
