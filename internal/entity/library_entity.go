package entity

import (
	"time"

	"github.com/google/uuid"
)

// LibraryDocument is one uploaded private file, scoped to a writing session.
type LibraryDocument struct {
	Id          uuid.UUID
	SessionUuid uuid.UUID
	Name        string
	Content     string
	SizeBytes   int
	ChunkCount  int
	UploadedAt  time.Time
}

// DocumentChunk is one embedded slice of a library document.
type DocumentChunk struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	SessionUuid    uuid.UUID
	Content        string
	ChunkIndex     int
	EmbeddingValue []float32
	CreatedAt      time.Time
}
