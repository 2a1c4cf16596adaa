package pgvector

import (
	"context"
	"fmt"

	"ai-writing-be/pkg/vectorstore"

	"github.com/google/uuid"
	pgvectorgo "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store keeps vectors in the document_chunks table itself, so Postgres is
// the only moving part. Chunk rows are created by the upload path without
// vectors; Upsert fills them in once the embedding worker gets there.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

type chunkRow struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	SessionUuid    uuid.UUID
	Content        string
	ChunkIndex     int
	EmbeddingValue pgvectorgo.Vector `gorm:"type:vector(768)"`
}

func (chunkRow) TableName() string {
	return "document_chunks"
}

func (s *Store) Upsert(ctx context.Context, chunks []vectorstore.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]chunkRow, 0, len(chunks))
	for _, c := range chunks {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return fmt.Errorf("invalid chunk id %q: %w", c.ID, err)
		}
		docId, err := uuid.Parse(c.DocumentID)
		if err != nil {
			return fmt.Errorf("invalid document id %q: %w", c.DocumentID, err)
		}
		ownerId, err := uuid.Parse(c.OwnerID)
		if err != nil {
			return fmt.Errorf("invalid owner id %q: %w", c.OwnerID, err)
		}
		rows = append(rows, chunkRow{
			Id:             id,
			DocumentId:     docId,
			SessionUuid:    ownerId,
			Content:        c.Content,
			ChunkIndex:     c.ChunkIndex,
			EmbeddingValue: pgvectorgo.NewVector(c.Vector),
		})
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "chunk_index", "embedding_value"}),
		}).
		Create(&rows).Error
}

func (s *Store) Search(ctx context.Context, vector []float32, filter vectorstore.SearchFilter, limit int) ([]vectorstore.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	type searchRow struct {
		Id         uuid.UUID
		DocumentId uuid.UUID
		Content    string
		ChunkIndex int
		Name       string
		Distance   float64
	}

	query := s.db.WithContext(ctx).
		Table("document_chunks dc").
		Select("dc.id, dc.document_id, dc.content, dc.chunk_index, ld.name, dc.embedding_value <-> ? AS distance", pgvectorgo.NewVector(vector)).
		Joins("JOIN library_documents ld ON ld.id = dc.document_id").
		Where("dc.embedding_value IS NOT NULL")

	if filter.OwnerID != "" {
		query = query.Where("dc.session_uuid = ?", filter.OwnerID)
	}
	if filter.DocumentID != "" {
		query = query.Where("dc.document_id = ?", filter.DocumentID)
	}

	var rows []searchRow
	if err := query.Order("distance ASC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]vectorstore.SearchResult, 0, len(rows))
	for _, row := range rows {
		// The <-> operator yields euclidean distance; Score expects it squared.
		score := float32(vectorstore.Score(row.Distance * row.Distance))
		if filter.MinScore > 0 && score < filter.MinScore {
			continue
		}
		results = append(results, vectorstore.SearchResult{
			ID:         row.Id.String(),
			Score:      score,
			Content:    row.Content,
			Title:      row.Name,
			DocumentID: row.DocumentId.String(),
			ChunkIndex: row.ChunkIndex,
		})
	}
	return results, nil
}

func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	return s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&chunkRow{}).Error
}

func (s *Store) Close() error {
	// The gorm handle is shared with the rest of the app; nothing to release.
	return nil
}
