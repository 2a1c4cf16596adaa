package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishEmbedChunkMessage is the embedding job enqueued per chunk.
type PublishEmbedChunkMessage struct {
	ChunkId uuid.UUID `json:"chunk_id"`
}

type PrivateFileInput struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content"`
}

type UploadPrivateFilesRequest struct {
	Files []PrivateFileInput `json:"files" validate:"required,min=1,dive"`
}

type DeletePrivateFileRequest struct {
	Name string `json:"name" validate:"required"`
}

type PrivateFileInfo struct {
	Name       string    `json:"name"`
	Size       int       `json:"size"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type UploadResult struct {
	Uploaded []string `json:"uploaded"`
	Skipped  []string `json:"skipped"`
}
