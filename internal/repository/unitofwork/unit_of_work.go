package unitofwork

import (
	"context"

	"ai-writing-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	RecordRepository() contract.RecordRepository
	GenerationJobRepository() contract.GenerationJobRepository
	LibraryRepository() contract.LibraryRepository
}
