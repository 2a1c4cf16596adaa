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

type RecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecordMapper
}

func NewRecordRepository(db *gorm.DB) contract.RecordRepository {
	return &RecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecordMapper(),
	}
}

func (r *RecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RecordRepositoryImpl) Create(ctx context.Context, record *entity.HistoryRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecordRepositoryImpl) Update(ctx context.Context, record *entity.HistoryRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecordRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("record_id = ?", id).Delete(&model.ConversationMessage{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.HistoryRecord{}, id).Error
}

func (r *RecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HistoryRecord, error) {
	var m model.HistoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HistoryRecord, error) {
	var models []*model.HistoryRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.HistoryRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RecordRepositoryImpl) CreateMessage(ctx context.Context, msg *entity.ConversationMessage) error {
	m := r.mapper.MessageToModel(msg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*msg = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *RecordRepositoryImpl) FindMessages(ctx context.Context, recordId uuid.UUID) ([]*entity.ConversationMessage, error) {
	var models []*model.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordId).
		Order("message_order ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}

func (r *RecordRepositoryImpl) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ConversationMessage{}, id).Error
}
