package contract

import (
	"context"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LibraryRepository interface {
	CreateDocument(ctx context.Context, doc *entity.LibraryDocument) error
	UpdateDocument(ctx context.Context, doc *entity.LibraryDocument) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	FindDocument(ctx context.Context, specs ...specification.Specification) (*entity.LibraryDocument, error)
	FindDocuments(ctx context.Context, specs ...specification.Specification) ([]*entity.LibraryDocument, error)
	CountDocuments(ctx context.Context, specs ...specification.Specification) (int64, error)

	CreateChunks(ctx context.Context, chunks []*entity.DocumentChunk) error
	FindChunk(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error)
	DeleteChunksByDocument(ctx context.Context, documentId uuid.UUID) error
}
