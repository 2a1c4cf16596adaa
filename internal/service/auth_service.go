package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/pkg/mailer"
	"ai-writing-be/internal/repository/specification"
	"ai-writing-be/internal/repository/unitofwork"
	"ai-writing-be/pkg/events"
	pkgNats "ai-writing-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Status(ctx context.Context, userId *uuid.UUID) (*dto.AuthStatusResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pkgNats.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, eventPublisher *pkgNats.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	// Welcome mail is best-effort; registration never blocks on SMTP.
	if s.emailService != nil {
		go func() {
			if err := s.emailService.SendWelcome(user.Email, user.FullName); err != nil {
				fmt.Printf("Error sending welcome email: %v\n", err)
			}
		}()
	}

	s.publish(ctx, "USER_REGISTERED", map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})

	return &dto.UserResponse{
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, uow, user, ipAddress, userAgent)
}

// issueTokens mints the access JWT and a hashed refresh token; shared with
// the OAuth callback path.
func (s *authService) issueTokens(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	accessToken, err := mintAccessToken(user.Id)
	if err != nil {
		return nil, err
	}

	refreshToken, err := randomToken()
	if err != nil {
		return nil, err
	}
	refreshHash := hashToken(refreshToken)
	err = uow.UserRepository().CreateRefreshToken(ctx, &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: refreshHash,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		IpAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := uow.UserRepository().UpdateLastLogin(ctx, user.Id, now); err != nil {
		return nil, err
	}

	lastLogin := ""
	if user.LastLoginAt != nil {
		lastLogin = user.LastLoginAt.Format(time.RFC3339)
	}

	s.publish(ctx, "USER_LOGGED_IN", map[string]interface{}{
		"user_id": user.Id.String(),
	})

	return &dto.LoginResponse{
		User: dto.UserResponse{
			Email:           user.Email,
			FullName:        user.FullName,
			LastLogin:       lastLogin,
			IsAuthenticated: true,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserId:       user.Id.String(),
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.UserRepository().FindRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}
	return uow.UserRepository().RevokeRefreshToken(ctx, stored.Id)
}

func (s *authService) Status(ctx context.Context, userId *uuid.UUID) (*dto.AuthStatusResponse, error) {
	if userId == nil {
		return &dto.AuthStatusResponse{Authenticated: false}, nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: *userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.AuthStatusResponse{Authenticated: false}, nil
	}
	return &dto.AuthStatusResponse{Authenticated: true, Email: user.Email}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil {
		// No account enumeration: the endpoint answers identically.
		return nil
	}

	token, err := randomToken()
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().InvalidateResetTokens(ctx, user.Id); err != nil {
		return err
	}
	err = uow.UserRepository().CreatePasswordResetToken(ctx, &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if s.emailService != nil {
		go func() {
			if err := s.emailService.SendResetToken(user.Email, token); err != nil {
				fmt.Printf("Error sending reset email: %v\n", err)
			}
		}()
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.UserRepository().FindPasswordResetToken(ctx, specification.ByToken{Token: req.Token})
	if err != nil {
		return err
	}
	if stored == nil || stored.Used || time.Now().After(stored.ExpiresAt) {
		return errors.New("invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, stored.UserId, string(hash)); err != nil {
		return err
	}
	if err := uow.UserRepository().MarkResetTokenUsed(ctx, stored.Id); err != nil {
		return err
	}
	if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, stored.UserId); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *authService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		fmt.Printf("Error publishing %s: %v\n", eventType, err)
	}
}

func mintAccessToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(1 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
