package implementation

import (
	"context"
	"errors"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/mapper"
	"ai-writing-be/internal/model"
	"ai-writing-be/internal/repository/contract"
	"ai-writing-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LibraryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LibraryMapper
}

func NewLibraryRepository(db *gorm.DB) contract.LibraryRepository {
	return &LibraryRepositoryImpl{
		db:     db,
		mapper: mapper.NewLibraryMapper(),
	}
}

func (r *LibraryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LibraryRepositoryImpl) CreateDocument(ctx context.Context, doc *entity.LibraryDocument) error {
	m := r.mapper.DocumentToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.DocumentToEntity(m)
	return nil
}

func (r *LibraryRepositoryImpl) UpdateDocument(ctx context.Context, doc *entity.LibraryDocument) error {
	m := r.mapper.DocumentToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.DocumentToEntity(m)
	return nil
}

func (r *LibraryRepositoryImpl) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LibraryDocument{}, id).Error
}

func (r *LibraryRepositoryImpl) FindDocument(ctx context.Context, specs ...specification.Specification) (*entity.LibraryDocument, error) {
	var m model.LibraryDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DocumentToEntity(&m), nil
}

func (r *LibraryRepositoryImpl) FindDocuments(ctx context.Context, specs ...specification.Specification) ([]*entity.LibraryDocument, error) {
	var models []*model.LibraryDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.DocumentsToEntities(models), nil
}

func (r *LibraryRepositoryImpl) CountDocuments(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LibraryDocument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LibraryRepositoryImpl) CreateChunks(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ChunkToModel(c)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ChunkToEntity(m)
	}
	return nil
}

func (r *LibraryRepositoryImpl) FindChunk(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error) {
	var m model.DocumentChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChunkToEntity(&m), nil
}

func (r *LibraryRepositoryImpl) DeleteChunksByDocument(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentChunk{}).Error
}
