package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type LibraryDocument struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionUuid uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_library_session_name,priority:1"`
	Name        string    `gorm:"type:varchar(512);not null;uniqueIndex:idx_library_session_name,priority:2"`
	Content     string    `gorm:"type:text"`
	SizeBytes   int       `gorm:"not null;default:0"`
	ChunkCount  int       `gorm:"not null;default:0"`
	UploadedAt  time.Time `gorm:"autoCreateTime"`
}

func (LibraryDocument) TableName() string {
	return "library_documents"
}

type DocumentChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionUuid    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content        string          `gorm:"type:text"`
	ChunkIndex     int             `gorm:"default:0"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 and nomic-embed-text are 768-dim
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
