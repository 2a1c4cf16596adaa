package service

import (
	"context"
	"errors"
	"testing"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/repository/contract"
	"ai-writing-be/internal/repository/memory"
	"ai-writing-be/internal/repository/specification"
	"ai-writing-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{name: "short text unchanged", text: "hello", max: 10, want: "hello"},
		{name: "exact length unchanged", text: "hello", max: 5, want: "hello"},
		{name: "long text truncated with ellipsis", text: "hello world", max: 5, want: "hello..."},
		{name: "empty text", text: "", max: 5, want: ""},
		{name: "multibyte runes counted as one", text: "写作助手测试", max: 4, want: "写作助手..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.text, tt.max); got != tt.want {
				t.Errorf("preview(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestCountChapters(t *testing.T) {
	tests := []struct {
		name     string
		chapters []string
		want     int
	}{
		{name: "nil", chapters: nil, want: 0},
		{name: "all filled", chapters: []string{"a", "b"}, want: 2},
		{name: "empty slots skipped", chapters: []string{"a", "", "c"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countChapters(tt.chapters); got != tt.want {
				t.Errorf("countChapters(%v) = %d, want %d", tt.chapters, got, tt.want)
			}
		})
	}
}

// Partial fakes for the unit-of-work plumbing. Embedding the interface keeps
// the full method set; tests implement only what the path under test touches.
type stubSessionRepo struct {
	contract.SessionRepository
	session *entity.UserSession
}

func (r *stubSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSession, error) {
	return r.session, nil
}

type stubRecordRepo struct {
	contract.RecordRepository
	records   []*entity.HistoryRecord
	updateErr error
}

// FindAll hands out copies, the way a real row scan would.
func (r *stubRecordRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HistoryRecord, error) {
	out := make([]*entity.HistoryRecord, len(r.records))
	for i, rec := range r.records {
		cp := *rec
		out[i] = &cp
	}
	return out, nil
}

func (r *stubRecordRepo) Update(ctx context.Context, record *entity.HistoryRecord) error {
	return r.updateErr
}

type stubUnitOfWork struct {
	unitofwork.UnitOfWork
	sessions contract.SessionRepository
	records  contract.RecordRepository
}

func (u *stubUnitOfWork) SessionRepository() contract.SessionRepository { return u.sessions }
func (u *stubUnitOfWork) RecordRepository() contract.RecordRepository   { return u.records }

type stubUowFactory struct{ uow unitofwork.UnitOfWork }

func (f stubUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func TestSaveOutlineDropsCacheWhenUpdateFails(t *testing.T) {
	ctx := context.Background()
	sessionUuid := uuid.New()
	recordId := uuid.New()

	repo := &stubRecordRepo{
		records: []*entity.HistoryRecord{{
			Id:             recordId,
			SessionUuid:    sessionUuid,
			RecordPosition: 0,
			Outline:        "# Original",
		}},
		updateErr: errors.New("connection reset"),
	}
	uow := &stubUnitOfWork{
		sessions: &stubSessionRepo{session: &entity.UserSession{
			Uuid:            sessionUuid,
			CurrentRecordId: &recordId,
			Status:          entity.SessionStatusActive,
			MaxHistory:      50,
		}},
		records: repo,
	}
	svc := NewSessionService(stubUowFactory{uow: uow}, memory.NewSessionRepository(), memory.NewPositionCache(nil), nil, nil, 50)

	// Warm the cache, as any read endpoint would.
	if _, err := svc.State(ctx, sessionUuid); err != nil {
		t.Fatalf("State: %v", err)
	}

	if err := svc.SaveOutline(ctx, sessionUuid, 0, "# Rejected"); err == nil {
		t.Fatal("SaveOutline: want the update error surfaced")
	}

	// The rejected outline must not linger in the cached aggregate; the next
	// read re-hydrates from what the database still holds.
	detail, err := svc.GetRecord(ctx, sessionUuid, 0)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if detail.Outline != "# Original" {
		t.Errorf("outline after failed save = %q, want the persisted value", detail.Outline)
	}
}

func TestConvertReferences(t *testing.T) {
	in := map[string]map[string]dto.ReferenceInput{
		"0": {
			"1": {Content: "snippet", Title: "src", URL: "https://example.com"},
			"2": {Title: "bare"},
		},
	}

	out := convertReferences(in)
	if len(out) != 1 || len(out["0"]) != 2 {
		t.Fatalf("convertReferences shape = %v", out)
	}
	if got := out["0"]["1"]; got.Content != "snippet" || got.Title != "src" || got.URL != "https://example.com" {
		t.Errorf("entry = %+v, want fields carried over", got)
	}
	if got := out["0"]["2"]; got.Title != "bare" || got.Content != "" {
		t.Errorf("sparse entry = %+v", got)
	}
}
