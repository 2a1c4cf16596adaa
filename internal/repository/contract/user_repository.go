package contract

import (
	"context"
	"time"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateLastLogin(ctx context.Context, userId uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, userId uuid.UUID, passwordHash string) error

	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, tokenId uuid.UUID) error
	InvalidateResetTokens(ctx context.Context, userId uuid.UUID) error

	SaveProvider(ctx context.Context, provider *entity.UserProvider) error
	FindProvider(ctx context.Context, providerName, providerUserId string) (*entity.UserProvider, error)

	CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error
	FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.UserRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenId uuid.UUID) error
	RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID) error
}
