package contract

import (
	"context"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RecordRepository interface {
	Create(ctx context.Context, record *entity.HistoryRecord) error
	Update(ctx context.Context, record *entity.HistoryRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HistoryRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HistoryRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Conversation messages replayed for outline modify/polish turns.
	CreateMessage(ctx context.Context, msg *entity.ConversationMessage) error
	FindMessages(ctx context.Context, recordId uuid.UUID) ([]*entity.ConversationMessage, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}
