package dto

import (
	"time"

	"github.com/google/uuid"
)

type SetPositionRequest struct {
	Pos *int `json:"pos" validate:"required"`
}

type SaveOutlineRequest struct {
	OutlineContent string `json:"outline_content"`
	Pos            *int   `json:"pos" validate:"required"`
}

// ReferenceInput mirrors one citation entry; all three fields must be
// present on save.
type ReferenceInput struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

type SaveArticleRequest struct {
	ArticleContent string `json:"article_content"`
	// References is keyed by stringified chapter index, then citation marker.
	References map[string]map[string]ReferenceInput `json:"references"`
	Pos        *int                                 `json:"pos" validate:"required"`
	Mode       string                               `json:"mode" validate:"omitempty,oneof=replace append"`
}

type RecordSummary struct {
	Id             uuid.UUID `json:"id"`
	Pos            int       `json:"pos"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	HasOutline     bool      `json:"has_outline"`
	HasArticle     bool      `json:"has_article"`
	HasTopic       bool      `json:"has_topic"`
	TopicPreview   string    `json:"topic_preview"`
	OutlinePreview string    `json:"outline_preview"`
	ArticleCount   int       `json:"article_count"`
	Timestamp      string    `json:"timestamp"`
}

type RecordDetail struct {
	Topic   string `json:"topic"`
	Outline string `json:"outline"`
	Article string `json:"article"`
}
