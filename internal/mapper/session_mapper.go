package mapper

import (
	"time"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.UserSession) *entity.UserSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserSession{
		Uuid:            s.Uuid,
		OwnerUserId:     s.OwnerUserId,
		CurrentRecordId: s.CurrentRecordId,
		LockVersion:     s.LockVersion,
		Status:          entity.SessionStatus(s.Status),
		MaxHistory:      s.MaxHistory,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.UserSession) *model.UserSession {
	if s == nil {
		return nil
	}

	modelSession := &model.UserSession{
		Uuid:            s.Uuid,
		OwnerUserId:     s.OwnerUserId,
		CurrentRecordId: s.CurrentRecordId,
		LockVersion:     s.LockVersion,
		Status:          string(s.Status),
		MaxHistory:      s.MaxHistory,
		CreatedAt:       s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		modelSession.UpdatedAt = *s.UpdatedAt
	}
	return modelSession
}
