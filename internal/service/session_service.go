package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/pkg/logger"
	"ai-writing-be/internal/repository/memory"
	"ai-writing-be/internal/repository/specification"
	"ai-writing-be/internal/repository/unitofwork"
	"ai-writing-be/pkg/article"
	"ai-writing-be/pkg/events"
	pkgNats "ai-writing-be/pkg/nats"
	"ai-writing-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrPositionConflict   = errors.New("position changed concurrently")
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidMode        = errors.New("invalid save mode")
)

type ISessionService interface {
	State(ctx context.Context, sessionUuid uuid.UUID) (*store.SessionState, error)
	GetCurrentPos(ctx context.Context, sessionUuid uuid.UUID) (int, error)
	SetCurrentPos(ctx context.Context, sessionUuid uuid.UUID, pos int) error
	ListRecords(ctx context.Context, sessionUuid uuid.UUID) ([]dto.RecordSummary, int, error)
	GetRecord(ctx context.Context, sessionUuid uuid.UUID, pos int) (*dto.RecordDetail, error)
	SaveOutline(ctx context.Context, sessionUuid uuid.UUID, pos int, outline string) error
	SaveArticle(ctx context.Context, sessionUuid uuid.UUID, pos int, mode, articleContent string, refs map[string]map[string]dto.ReferenceInput) error
	ChapterReferences(ctx context.Context, sessionUuid uuid.UUID, pos, chapterIndex int) (entity.ReferenceMap, error)

	// AppendRecord creates a new record at position len(records), makes it
	// current and prunes history beyond the session's max. Used by both the
	// outline save path (append-on-new) and the generation flow.
	AppendRecord(ctx context.Context, sessionUuid uuid.UUID, topic, outline string) (*entity.HistoryRecord, int, error)
	UpdateRecord(ctx context.Context, sessionUuid uuid.UUID, record *entity.HistoryRecord) error
	AdoptSession(ctx context.Context, sessionUuid, userId uuid.UUID) error
	DropSession(sessionUuid uuid.UUID)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.SessionRepository
	posCache   *memory.PositionCache
	publisher  *pkgNats.Publisher
	logger     logger.ILogger
	maxHistory int
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.SessionRepository,
	posCache *memory.PositionCache,
	publisher *pkgNats.Publisher,
	log logger.ILogger,
	maxHistory int,
) ISessionService {
	if maxHistory <= 0 {
		maxHistory = 50
	}
	return &sessionService{
		uowFactory: uowFactory,
		cache:      cache,
		posCache:   posCache,
		publisher:  publisher,
		logger:     log,
		maxHistory: maxHistory,
	}
}

// State hydrates the session aggregate, creating the session row on first
// contact. Reads go through the in-process cache.
func (s *sessionService) State(ctx context.Context, sessionUuid uuid.UUID) (*store.SessionState, error) {
	if state, ok := s.cache.Get(sessionUuid); ok {
		return state, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByUuid{Uuid: sessionUuid})
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &entity.UserSession{
			Uuid:       sessionUuid,
			Status:     entity.SessionStatusActive,
			MaxHistory: s.maxHistory,
		}
		if err := uow.SessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	}

	records, err := uow.RecordRepository().FindAll(ctx,
		specification.BySessionUuid{SessionUuid: sessionUuid},
		specification.OrderByPosition{},
	)
	if err != nil {
		return nil, err
	}

	state := &store.SessionState{Session: session, Records: records}
	s.cache.Save(state)
	return state, nil
}

func (s *sessionService) invalidate(ctx context.Context, sessionUuid uuid.UUID) {
	s.cache.Delete(sessionUuid)
	s.posCache.Invalidate(ctx, sessionUuid)
}

func (s *sessionService) GetCurrentPos(ctx context.Context, sessionUuid uuid.UUID) (int, error) {
	if pos, ok := s.posCache.Get(ctx, sessionUuid); ok {
		return pos, nil
	}
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return 0, err
	}
	pos := state.CurrentPos()
	s.posCache.Set(ctx, sessionUuid, pos)
	return pos, nil
}

func (s *sessionService) SetCurrentPos(ctx context.Context, sessionUuid uuid.UUID, pos int) error {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return err
	}

	var recordId *uuid.UUID
	if state.Len() == 0 {
		if pos != 0 {
			return ErrPositionOutOfRange
		}
	} else {
		if pos < 0 || pos >= state.Len() {
			return ErrPositionOutOfRange
		}
		id := state.Records[pos].Id
		recordId = &id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	moved, err := uow.SessionRepository().MoveCurrent(ctx, sessionUuid, recordId, state.Session.LockVersion)
	if err != nil {
		return err
	}
	s.invalidate(ctx, sessionUuid)
	if !moved {
		return ErrPositionConflict
	}
	s.posCache.Set(ctx, sessionUuid, pos)
	return nil
}

func (s *sessionService) ListRecords(ctx context.Context, sessionUuid uuid.UUID) ([]dto.RecordSummary, int, error) {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]dto.RecordSummary, 0, state.Len())
	for i, record := range state.Records {
		updatedAt := record.CreatedAt
		if record.UpdatedAt != nil {
			updatedAt = *record.UpdatedAt
		}
		summaries = append(summaries, dto.RecordSummary{
			Id:             record.Id,
			Pos:            i,
			CreatedAt:      record.CreatedAt,
			UpdatedAt:      updatedAt,
			HasOutline:     record.Outline != "",
			HasArticle:     record.HasArticle(),
			HasTopic:       record.Topic != "",
			TopicPreview:   preview(record.Topic, 50),
			OutlinePreview: preview(record.Outline, 100),
			ArticleCount:   countChapters(record.ArticleChapters),
			Timestamp:      record.CreatedAt.Format(time.RFC3339),
		})
	}
	return summaries, state.CurrentPos(), nil
}

func (s *sessionService) GetRecord(ctx context.Context, sessionUuid uuid.UUID, pos int) (*dto.RecordDetail, error) {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return nil, err
	}
	record, ok := state.Record(pos)
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &dto.RecordDetail{
		Topic:   record.Topic,
		Outline: record.Outline,
		Article: record.Article(),
	}, nil
}

func (s *sessionService) SaveOutline(ctx context.Context, sessionUuid uuid.UUID, pos int, outline string) error {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return err
	}

	// pos == total appends a new record (append-on-new-topic).
	if pos == state.Len() {
		_, _, err := s.AppendRecord(ctx, sessionUuid, "", outline)
		return err
	}

	record, ok := state.Record(pos)
	if !ok || pos < 0 {
		return ErrPositionOutOfRange
	}

	record.Outline = outline
	now := time.Now()
	record.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.RecordRepository().Update(ctx, record); err != nil {
		// The cached aggregate was mutated above; drop it so reads refetch
		// what the database actually holds.
		s.invalidate(ctx, sessionUuid)
		return err
	}
	s.invalidate(ctx, sessionUuid)
	return nil
}

func (s *sessionService) SaveArticle(ctx context.Context, sessionUuid uuid.UUID, pos int, mode, articleContent string, refs map[string]map[string]dto.ReferenceInput) error {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return err
	}
	record, ok := state.Record(pos)
	if !ok || pos < 0 {
		return ErrPositionOutOfRange
	}

	switch mode {
	case "", "replace":
		record.ArticleChapters = article.SplitChapters(articleContent)
		record.ReferencesData = convertReferences(refs)
	case "append":
		record.ArticleChapters = append(record.ArticleChapters, articleContent)
		if record.ReferencesData == nil {
			record.ReferencesData = make(map[string]entity.ReferenceMap)
		}
		for key, refMap := range convertReferences(refs) {
			record.ReferencesData[key] = refMap
		}
	default:
		return ErrInvalidMode
	}

	now := time.Now()
	record.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.RecordRepository().Update(ctx, record); err != nil {
		// Same aliasing as SaveOutline: never leave rejected content cached.
		s.invalidate(ctx, sessionUuid)
		return err
	}
	s.invalidate(ctx, sessionUuid)
	return nil
}

func (s *sessionService) ChapterReferences(ctx context.Context, sessionUuid uuid.UUID, pos, chapterIndex int) (entity.ReferenceMap, error) {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return nil, err
	}
	record, ok := state.Record(pos)
	if !ok {
		return nil, ErrRecordNotFound
	}
	refs, ok := record.ReferencesData[strconv.Itoa(chapterIndex)]
	if !ok {
		return entity.ReferenceMap{}, nil
	}
	return refs, nil
}

func (s *sessionService) AppendRecord(ctx context.Context, sessionUuid uuid.UUID, topic, outline string) (*entity.HistoryRecord, int, error) {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return nil, 0, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, err
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByUuid{Uuid: sessionUuid})
	if err != nil {
		return nil, 0, err
	}
	if session == nil {
		return nil, 0, ErrRecordNotFound
	}

	nextPosition := 0
	if state.Len() > 0 {
		nextPosition = state.Records[state.Len()-1].RecordPosition + 1
	}

	record := &entity.HistoryRecord{
		SessionUuid:    sessionUuid,
		RecordPosition: nextPosition,
		Topic:          topic,
		Outline:        outline,
	}
	if err := uow.RecordRepository().Create(ctx, record); err != nil {
		return nil, 0, err
	}

	moved, err := uow.SessionRepository().MoveCurrent(ctx, sessionUuid, &record.Id, session.LockVersion)
	if err != nil {
		return nil, 0, err
	}
	if !moved {
		return nil, 0, ErrPositionConflict
	}

	// Prune the oldest records beyond the session's history budget.
	maxHistory := session.MaxHistory
	if maxHistory <= 0 {
		maxHistory = s.maxHistory
	}
	total := state.Len() + 1
	if total > maxHistory {
		for _, old := range state.Records[:total-maxHistory] {
			if err := uow.RecordRepository().Delete(ctx, old.Id); err != nil {
				return nil, 0, err
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, err
	}
	s.invalidate(ctx, sessionUuid)

	newState, err := s.State(ctx, sessionUuid)
	if err != nil {
		return record, 0, err
	}
	pos := newState.CurrentPos()
	s.posCache.Set(ctx, sessionUuid, pos)

	s.publish(ctx, "RECORD_CREATED", map[string]interface{}{
		"session_uuid": sessionUuid.String(),
		"record_id":    record.Id.String(),
		"pos":          pos,
	})
	return record, pos, nil
}

func (s *sessionService) UpdateRecord(ctx context.Context, sessionUuid uuid.UUID, record *entity.HistoryRecord) error {
	now := time.Now()
	record.UpdatedAt = &now
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.RecordRepository().Update(ctx, record)
	s.invalidate(ctx, sessionUuid)
	return err
}

// AdoptSession stamps the account owner on the session row, creating the row
// on first login. Hydrating through State also warms the cache for the
// session the user lands on.
func (s *sessionService) AdoptSession(ctx context.Context, sessionUuid, userId uuid.UUID) error {
	state, err := s.State(ctx, sessionUuid)
	if err != nil {
		return err
	}
	if state.Session.OwnerUserId != nil && *state.Session.OwnerUserId == userId {
		return nil
	}

	state.Session.OwnerUserId = &userId
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Update(ctx, state.Session); err != nil {
		return err
	}
	s.invalidate(ctx, sessionUuid)
	return nil
}

func (s *sessionService) DropSession(sessionUuid uuid.UUID) {
	s.cache.Delete(sessionUuid)
}

func (s *sessionService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("SessionService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func countChapters(chapters []string) int {
	n := 0
	for _, c := range chapters {
		if c != "" {
			n++
		}
	}
	return n
}

func convertReferences(refs map[string]map[string]dto.ReferenceInput) map[string]entity.ReferenceMap {
	out := make(map[string]entity.ReferenceMap, len(refs))
	for chapterKey, refMap := range refs {
		converted := make(entity.ReferenceMap, len(refMap))
		for marker, ref := range refMap {
			converted[marker] = entity.ChapterReference{
				Content: ref.Content,
				Title:   ref.Title,
				URL:     ref.URL,
			}
		}
		out[chapterKey] = converted
	}
	return out
}
