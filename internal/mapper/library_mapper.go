package mapper

import (
	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type LibraryMapper struct{}

func NewLibraryMapper() *LibraryMapper {
	return &LibraryMapper{}
}

func (m *LibraryMapper) DocumentToEntity(d *model.LibraryDocument) *entity.LibraryDocument {
	if d == nil {
		return nil
	}
	return &entity.LibraryDocument{
		Id:          d.Id,
		SessionUuid: d.SessionUuid,
		Name:        d.Name,
		Content:     d.Content,
		SizeBytes:   d.SizeBytes,
		ChunkCount:  d.ChunkCount,
		UploadedAt:  d.UploadedAt,
	}
}

func (m *LibraryMapper) DocumentToModel(d *entity.LibraryDocument) *model.LibraryDocument {
	if d == nil {
		return nil
	}
	return &model.LibraryDocument{
		Id:          d.Id,
		SessionUuid: d.SessionUuid,
		Name:        d.Name,
		Content:     d.Content,
		SizeBytes:   d.SizeBytes,
		ChunkCount:  d.ChunkCount,
		UploadedAt:  d.UploadedAt,
	}
}

func (m *LibraryMapper) DocumentsToEntities(docs []*model.LibraryDocument) []*entity.LibraryDocument {
	entities := make([]*entity.LibraryDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.DocumentToEntity(d)
	}
	return entities
}

func (m *LibraryMapper) ChunkToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	return &entity.DocumentChunk{
		Id:             c.Id,
		DocumentId:     c.DocumentId,
		SessionUuid:    c.SessionUuid,
		Content:        c.Content,
		ChunkIndex:     c.ChunkIndex,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *LibraryMapper) ChunkToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}
	return &model.DocumentChunk{
		Id:             c.Id,
		DocumentId:     c.DocumentId,
		SessionUuid:    c.SessionUuid,
		Content:        c.Content,
		ChunkIndex:     c.ChunkIndex,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *LibraryMapper) ChunksToEntities(chunks []*model.DocumentChunk) []*entity.DocumentChunk {
	entities := make([]*entity.DocumentChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ChunkToEntity(c)
	}
	return entities
}
