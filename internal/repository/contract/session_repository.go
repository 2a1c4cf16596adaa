package contract

import (
	"context"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.UserSession) error
	Update(ctx context.Context, session *entity.UserSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSession, error)

	// MoveCurrent repoints the session's current record under optimistic
	// locking. Returns false when the lock version no longer matches.
	MoveCurrent(ctx context.Context, sessionUuid uuid.UUID, recordId *uuid.UUID, lockVersion int) (bool, error)
}
