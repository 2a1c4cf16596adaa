package mapper

import (
	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/model"
)

type GenerationMapper struct{}

func NewGenerationMapper() *GenerationMapper {
	return &GenerationMapper{}
}

func (m *GenerationMapper) ToEntity(j *model.GenerationJob) *entity.GenerationJob {
	if j == nil {
		return nil
	}
	return &entity.GenerationJob{
		Id:                  j.Id,
		SessionUuid:         j.SessionUuid,
		RecordPosition:      j.RecordPosition,
		Status:              entity.GenerationStatus(j.Status),
		OutlineSnapshotHash: j.OutlineSnapshotHash,
		Error:               j.Error,
		StartedAt:           j.StartedAt,
		FinishedAt:          j.FinishedAt,
		CreatedAt:           j.CreatedAt,
	}
}

func (m *GenerationMapper) ToModel(j *entity.GenerationJob) *model.GenerationJob {
	if j == nil {
		return nil
	}
	return &model.GenerationJob{
		Id:                  j.Id,
		SessionUuid:         j.SessionUuid,
		RecordPosition:      j.RecordPosition,
		Status:              string(j.Status),
		OutlineSnapshotHash: j.OutlineSnapshotHash,
		Error:               j.Error,
		StartedAt:           j.StartedAt,
		FinishedAt:          j.FinishedAt,
		CreatedAt:           j.CreatedAt,
	}
}

func (m *GenerationMapper) ToEntities(jobs []*model.GenerationJob) []*entity.GenerationJob {
	entities := make([]*entity.GenerationJob, len(jobs))
	for i, j := range jobs {
		entities[i] = m.ToEntity(j)
	}
	return entities
}
