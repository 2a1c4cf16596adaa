package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/repository/specification"
	"ai-writing-be/internal/repository/unitofwork"
	"ai-writing-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.RecordRepository())
	assert.NotNil(t, uow.LibraryRepository())

	// Basic ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Record Repository", func(t *testing.T) {
		count, err := uow.RecordRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Record count: %d", count)
	})

	t.Run("Session and Record round trip", func(t *testing.T) {
		ctx := context.Background()
		sessionUuid := uuid.New()

		session := &entity.UserSession{
			Uuid:       sessionUuid,
			Status:     entity.SessionStatusActive,
			MaxHistory: 50,
		}
		err := uow.SessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		record := &entity.HistoryRecord{
			SessionUuid:    sessionUuid,
			RecordPosition: 0,
			Topic:          "integration test topic",
			Outline:        "# Intro\n# Close",
			ArticleChapters: []string{
				"# Intro\nopening [1].",
			},
			ReferencesData: map[string]entity.ReferenceMap{
				"0": {"1": {Content: "snippet", Title: "src", URL: "https://example.com"}},
			},
		}
		err = uow.RecordRepository().Create(ctx, record)
		assert.NoError(t, err)

		defer func() {
			_ = uow.RecordRepository().Delete(ctx, record.Id)
		}()

		// Current record moves under the session's lock version.
		moved, err := uow.SessionRepository().MoveCurrent(ctx, sessionUuid, &record.Id, session.LockVersion)
		assert.NoError(t, err)
		assert.True(t, moved)

		// JSONB columns round-trip through the mapper.
		found, err := uow.RecordRepository().FindAll(ctx,
			specification.BySessionUuid{SessionUuid: sessionUuid},
			specification.OrderByPosition{},
		)
		assert.NoError(t, err)
		if assert.Len(t, found, 1) {
			assert.Equal(t, "integration test topic", found[0].Topic)
			assert.Equal(t, record.ArticleChapters, found[0].ArticleChapters)
			assert.Equal(t, "snippet", found[0].ReferencesData["0"]["1"].Content)
		}

		// A stale lock version must not move the pointer.
		moved, err = uow.SessionRepository().MoveCurrent(ctx, sessionUuid, &record.Id, session.LockVersion-1)
		assert.NoError(t, err)
		assert.False(t, moved)
	})
}
