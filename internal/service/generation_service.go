package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-writing-be/internal/constant"
	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/pkg/logger"
	"ai-writing-be/internal/repository/unitofwork"
	"ai-writing-be/pkg/article"
	"ai-writing-be/pkg/events"
	"ai-writing-be/pkg/llm"
	pkgNats "ai-writing-be/pkg/nats"
	"ai-writing-be/pkg/outline"
	"ai-writing-be/pkg/search"
	"ai-writing-be/pkg/stream"

	"github.com/google/uuid"
)

const (
	keywordTimeout = 30 * time.Second
	outlineTimeout = 60 * time.Second
	chapterTimeout = 180 * time.Second

	// Web search kicks in below these private-content budgets (chars).
	chapterWebThreshold = 3500
	sectionWebThreshold = 300

	privateTopK = 3
)

var ErrUnknownOperation = errors.New("unknown generation operation")

type IGenerationService interface {
	GenerateOutline(ctx context.Context, sessionUuid uuid.UUID, req *dto.OutlineGenerateRequest) (string, error)
	GenerateDemoOutline(ctx context.Context, sessionUuid uuid.UUID, req *dto.DemoOutlineRequest) (string, error)

	// StreamArticle runs the chapter pipeline and emits the tagged line
	// protocol on w. All failures after the stream opens are reported on the
	// stream itself; the returned error only covers pre-flight issues.
	StreamArticle(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest, w *stream.Writer) error

	GenerateSingleChapter(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest) (*article.Chapter, error)
	RewriteArticle(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest) (string, error)
	RewriteSection(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest) (string, error)
}

type generationService struct {
	sessions   ISessionService
	retrieval  IRetrievalService
	provider   llm.LLMProvider
	uowFactory unitofwork.RepositoryFactory
	sanitizer  *outline.Sanitizer
	publisher  *pkgNats.Publisher
	logger     logger.ILogger

	// haltOnChapterError preserves the original fail-fast run policy; unset,
	// a failed chapter is reported and the run moves on.
	haltOnChapterError bool
}

func NewGenerationService(
	sessions ISessionService,
	retrieval IRetrievalService,
	provider llm.LLMProvider,
	uowFactory unitofwork.RepositoryFactory,
	publisher *pkgNats.Publisher,
	log logger.ILogger,
	haltOnChapterError bool,
) IGenerationService {
	return &generationService{
		sessions:           sessions,
		retrieval:          retrieval,
		provider:           provider,
		uowFactory:         uowFactory,
		sanitizer:          outline.NewSanitizer(),
		publisher:          publisher,
		logger:             log,
		haltOnChapterError: haltOnChapterError,
	}
}

// ----- Outline operations -----

func (s *generationService) GenerateOutline(ctx context.Context, sessionUuid uuid.UUID, req *dto.OutlineGenerateRequest) (string, error) {
	switch req.Type {
	case constant.OutlineOpGenerate:
		return s.generateOutline(ctx, sessionUuid, req.Prompt)
	case constant.OutlineOpModify:
		return s.modifyOutline(ctx, sessionUuid, req.Prompt)
	case constant.OutlineOpPolish:
		return s.polishOutline(ctx, sessionUuid, req)
	default:
		return "", ErrUnknownOperation
	}
}

func (s *generationService) generateOutline(ctx context.Context, sessionUuid uuid.UUID, topic string) (string, error) {
	history := []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: topic},
		{Role: constant.ChatMessageRoleUser, Content: constant.OutlineGeneratePrompt},
	}

	llmCtx, cancel := context.WithTimeout(ctx, outlineTimeout)
	defer cancel()
	raw, err := llm.ChatWithRetry(llmCtx, s.provider, history)
	if err != nil {
		return "", err
	}

	clean := s.sanitizer.CleanOutline(raw, topic)

	record, _, err := s.sessions.AppendRecord(ctx, sessionUuid, topic, clean)
	if err != nil {
		return "", err
	}
	if err := s.appendMessages(ctx, sessionUuid, record,
		llm.Message{Role: constant.ChatMessageRoleUser, Content: topic},
		llm.Message{Role: constant.ChatMessageRoleUser, Content: constant.OutlineGeneratePrompt},
		llm.Message{Role: constant.ChatMessageRoleAssistant, Content: raw},
	); err != nil {
		return "", err
	}
	return clean, nil
}

func (s *generationService) modifyOutline(ctx context.Context, sessionUuid uuid.UUID, instruction string) (string, error) {
	record, err := s.currentRecord(ctx, sessionUuid)
	if err != nil {
		return "", err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.RecordRepository().FindMessages(ctx, record.Id)
	if err != nil {
		return "", err
	}

	// Replay the conversation; the trailing assistant turn is popped so the
	// model answers the new instruction instead of its own last reply.
	if n := len(stored); n > 0 && stored[n-1].Role == constant.ChatMessageRoleAssistant {
		if err := uow.RecordRepository().DeleteMessage(ctx, stored[n-1].Id); err != nil {
			return "", err
		}
		record.NextMessageOrder = stored[n-1].MessageOrder
		stored = stored[:n-1]
	}

	history := make([]llm.Message, 0, len(stored)+1)
	for _, msg := range stored {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	history = append(history, llm.Message{Role: constant.ChatMessageRoleUser, Content: instruction})

	llmCtx, cancel := context.WithTimeout(ctx, outlineTimeout)
	defer cancel()
	raw, err := llm.ChatWithRetry(llmCtx, s.provider, history)
	if err != nil {
		return "", err
	}

	clean := s.sanitizer.CleanOutline(raw, record.Topic)
	record.Outline = clean
	if err := s.appendMessages(ctx, sessionUuid, record,
		llm.Message{Role: constant.ChatMessageRoleUser, Content: instruction},
		llm.Message{Role: constant.ChatMessageRoleAssistant, Content: raw},
	); err != nil {
		return "", err
	}
	return clean, nil
}

func (s *generationService) polishOutline(ctx context.Context, sessionUuid uuid.UUID, req *dto.OutlineGenerateRequest) (string, error) {
	record, err := s.currentRecord(ctx, sessionUuid)
	if err != nil {
		return "", err
	}

	outlineText := req.Prompt
	if outlineText == "" {
		outlineText = record.Outline
	}
	prompt := fmt.Sprintf(constant.OutlinePolishPrompt, outlineText, req.PolishRequirements, req.Reference)

	llmCtx, cancel := context.WithTimeout(ctx, outlineTimeout)
	defer cancel()
	raw, err := llm.GenerateWithRetry(llmCtx, s.provider, prompt)
	if err != nil {
		return "", err
	}

	clean := s.sanitizer.CleanOutline(raw, record.Topic)
	record.Outline = clean
	if err := s.appendMessages(ctx, sessionUuid, record,
		llm.Message{Role: constant.ChatMessageRoleUser, Content: prompt},
		llm.Message{Role: constant.ChatMessageRoleAssistant, Content: raw},
	); err != nil {
		return "", err
	}
	return clean, nil
}

func (s *generationService) GenerateDemoOutline(ctx context.Context, sessionUuid uuid.UUID, req *dto.DemoOutlineRequest) (string, error) {
	clean := s.sanitizer.CleanOutline(req.Outline, req.Topic)
	if _, _, err := s.sessions.AppendRecord(ctx, sessionUuid, req.Topic, clean); err != nil {
		return "", err
	}
	return clean, nil
}

// appendMessages stores conversation turns on a record and persists the
// record itself (outline/next-order changes included).
func (s *generationService) appendMessages(ctx context.Context, sessionUuid uuid.UUID, record *entity.HistoryRecord, msgs ...llm.Message) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for i, msg := range msgs {
		stored := &entity.ConversationMessage{
			RecordId:     record.Id,
			Role:         msg.Role,
			Content:      msg.Content,
			MessageOrder: record.NextMessageOrder + i,
		}
		if err := uow.RecordRepository().CreateMessage(ctx, stored); err != nil {
			return err
		}
	}
	record.NextMessageOrder += len(msgs)
	now := time.Now()
	record.UpdatedAt = &now
	if err := uow.RecordRepository().Update(ctx, record); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.sessions.DropSession(sessionUuid)
	return nil
}

func (s *generationService) currentRecord(ctx context.Context, sessionUuid uuid.UUID) (*entity.HistoryRecord, error) {
	state, err := s.sessions.State(ctx, sessionUuid)
	if err != nil {
		return nil, err
	}
	record, ok := state.Record(state.CurrentPos())
	if !ok {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (s *generationService) recordAt(ctx context.Context, sessionUuid uuid.UUID, pos *int) (*entity.HistoryRecord, int, error) {
	state, err := s.sessions.State(ctx, sessionUuid)
	if err != nil {
		return nil, 0, err
	}
	p := state.CurrentPos()
	if pos != nil {
		p = *pos
	}
	record, ok := state.Record(p)
	if !ok {
		return nil, 0, ErrRecordNotFound
	}
	return record, p, nil
}

// ----- Chapter pipeline -----

type chapterPlan struct {
	index    int
	title    string
	overview bool // chapter has subsections, gets the shorter overview prompt
}

func buildChapterPlan(outlineText string) []chapterPlan {
	nodes := outline.Load(outlineText).Nodes()
	var plans []chapterPlan
	for _, node := range nodes {
		if node.Level != 1 {
			continue
		}
		plans = append(plans, chapterPlan{
			index:    len(plans),
			title:    node.Text,
			overview: node.HasChildren,
		})
	}
	return plans
}

// parseKeywords extracts up to three search keywords from the model's
// <begin>[k1, k2, k3]<end> reply.
func parseKeywords(raw string) []string {
	start := strings.Index(raw, "<begin>")
	end := strings.Index(raw, "<end>")
	if start < 0 || end < 0 || end <= start {
		return nil
	}
	inner := raw[start+len("<begin>") : end]
	inner = strings.TrimSpace(inner)
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")

	var keywords []string
	for _, part := range strings.Split(inner, ",") {
		kw := strings.Trim(strings.TrimSpace(part), `"'`)
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) == 3 {
			break
		}
	}
	return keywords
}

func (s *generationService) chapterKeywords(ctx context.Context, title, topic string) []string {
	kwCtx, cancel := context.WithTimeout(ctx, keywordTimeout)
	defer cancel()

	raw, err := llm.GenerateWithRetry(kwCtx, s.provider, fmt.Sprintf(constant.SearchKeywordsPrompt, title, topic))
	if err != nil {
		s.logger.Warn("GenerationService", "Keyword generation failed, falling back", map[string]interface{}{
			"chapter": title,
			"error":   err.Error(),
		})
		return []string{title, topic}
	}
	if keywords := parseKeywords(raw); len(keywords) > 0 {
		return keywords
	}
	return []string{title, topic}
}

func (s *generationService) generateChapter(ctx context.Context, sessionUuid uuid.UUID, plan chapterPlan, topic, outlineText string) (*article.Chapter, error) {
	keywords := s.chapterKeywords(ctx, plan.title, topic)
	results := s.retrieval.Search(ctx, sessionUuid, keywords, privateTopK, chapterWebThreshold)

	var prompt string
	if len(results) > 0 {
		formatted := search.FormatResults(results)
		if plan.overview {
			prompt = fmt.Sprintf(constant.ChapterOverviewWithResultsPrompt, plan.index+1, plan.title, topic, outlineText, formatted)
		} else {
			prompt = fmt.Sprintf(constant.ChapterDetailedWithResultsPrompt, plan.index+1, plan.title, topic, outlineText, formatted)
		}
	} else {
		if plan.overview {
			prompt = fmt.Sprintf(constant.ChapterOverviewPrompt, plan.index+1, plan.title, topic, outlineText)
		} else {
			prompt = fmt.Sprintf(constant.ChapterDetailedPrompt, plan.index+1, plan.title, topic, outlineText)
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, chapterTimeout)
	defer cancel()
	text, err := llm.GenerateWithRetry(genCtx, s.provider, prompt)
	if err != nil {
		return nil, err
	}

	text, references := bindReferences(text, results)
	text = article.CleanSection(text)
	if !strings.HasPrefix(strings.TrimSpace(text), "#") {
		text = "# " + plan.title + "\n\n" + text
	}

	return &article.Chapter{
		Index:      plan.index,
		Title:      plan.title,
		Content:    text,
		References: references,
	}, nil
}

// bindReferences renumbers the [n] markers the model actually used to a
// dense 1..k sequence and builds the chapter's reference map from the
// matching search results.
func bindReferences(text string, results []search.Result) (string, map[string]article.Reference) {
	used := article.CitationOrder(text)
	mapping := make(map[int]int)
	references := make(map[string]article.Reference)

	next := 1
	for _, old := range used {
		if old < 1 || old > len(results) {
			continue
		}
		result := results[old-1]
		content := result.Description
		if len(result.Snippets) > 0 {
			content = result.Snippets[0]
		}
		mapping[old] = next
		references[strconv.Itoa(next)] = article.Reference{
			Content: content,
			Title:   result.Title,
			URL:     result.URL,
		}
		next++
	}

	return article.RemapCitations(text, mapping), references
}

func referencesToEntity(refs map[string]article.Reference) entity.ReferenceMap {
	out := make(entity.ReferenceMap, len(refs))
	for marker, ref := range refs {
		out[marker] = entity.ChapterReference{
			Content: ref.Content,
			Title:   ref.Title,
			URL:     ref.URL,
		}
	}
	return out
}

// ----- Streaming runs -----

func (s *generationService) StreamArticle(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest, w *stream.Writer) error {
	defer w.WriteComplete()

	record, pos, err := s.recordAt(ctx, sessionUuid, req.Pos)
	if err != nil {
		_ = w.WriteChapterError(0, "", err.Error(), stream.ErrorTypeOther)
		return err
	}

	topic := req.Topic
	if topic == "" {
		topic = record.Topic
	}
	outlineText := req.Outline
	if outlineText == "" {
		outlineText = record.Outline
	}

	plans := buildChapterPlan(outlineText)
	if len(plans) == 0 {
		err := errors.New("outline has no chapters")
		_ = w.WriteChapterError(0, "", err.Error(), stream.ErrorTypeOther)
		return err
	}

	startIdx := 0
	if req.Type == constant.ArticleOpContinue && req.StartChapterIndex != nil {
		startIdx = *req.StartChapterIndex
		if startIdx < 0 || startIdx >= len(plans) {
			err := ErrPositionOutOfRange
			_ = w.WriteChapterError(0, "", err.Error(), stream.ErrorTypeOther)
			return err
		}
	}

	// A fresh run replaces prior chapter state; continue keeps it.
	if startIdx == 0 {
		record.ArticleChapters = make([]string, len(plans))
		record.ReferencesData = make(map[string]entity.ReferenceMap)
	} else {
		for len(record.ArticleChapters) < len(plans) {
			record.ArticleChapters = append(record.ArticleChapters, "")
		}
		if record.ReferencesData == nil {
			record.ReferencesData = make(map[string]entity.ReferenceMap)
		}
	}

	job := s.startJob(ctx, sessionUuid, pos, outlineText)

	s.publish(ctx, "GENERATION_STARTED", map[string]interface{}{
		"session_uuid": sessionUuid.String(),
		"pos":          pos,
		"chapters":     len(plans),
		"start_index":  startIdx,
	})

	var runErr error
	for i := startIdx; i < len(plans); i++ {
		chapter, err := s.generateChapter(ctx, sessionUuid, plans[i], topic, outlineText)
		if err != nil {
			errType := stream.ErrorTypeOther
			if llm.IsNetworkError(err) {
				errType = stream.ErrorTypeNetwork
			}
			_ = w.WriteChapterError(plans[i].index, plans[i].title, err.Error(), errType)
			s.publish(ctx, "GENERATION_FAILED", map[string]interface{}{
				"session_uuid": sessionUuid.String(),
				"pos":          pos,
				"chapter":      plans[i].index,
				"error":        err.Error(),
			})
			runErr = err
			if s.haltOnChapterError {
				break
			}
			continue
		}

		record.ArticleChapters[chapter.Index] = chapter.Content
		record.ReferencesData[strconv.Itoa(chapter.Index)] = referencesToEntity(chapter.References)
		if err := s.sessions.UpdateRecord(ctx, sessionUuid, record); err != nil {
			s.logger.Error("GenerationService", "Failed to persist chapter", map[string]interface{}{
				"chapter": chapter.Index,
				"error":   err.Error(),
			})
		}

		if err := w.WriteChapter(*chapter); err != nil {
			// Client went away; stop generating.
			runErr = err
			break
		}
		s.publish(ctx, "CHAPTER_COMPLETED", map[string]interface{}{
			"session_uuid": sessionUuid.String(),
			"pos":          pos,
			"chapter":      chapter.Index,
			"title":        chapter.Title,
		})
	}

	s.finishJob(ctx, job, runErr)
	if runErr == nil {
		s.publish(ctx, "GENERATION_COMPLETED", map[string]interface{}{
			"session_uuid": sessionUuid.String(),
			"pos":          pos,
			"chapters":     len(plans),
		})
	}
	return runErr
}

func (s *generationService) GenerateSingleChapter(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest) (*article.Chapter, error) {
	record, _, err := s.recordAt(ctx, sessionUuid, req.Pos)
	if err != nil {
		return nil, err
	}
	if req.ChapterIndex == nil {
		return nil, ErrPositionOutOfRange
	}

	topic := req.Topic
	if topic == "" {
		topic = record.Topic
	}
	outlineText := req.Outline
	if outlineText == "" {
		outlineText = record.Outline
	}

	plans := buildChapterPlan(outlineText)
	idx := *req.ChapterIndex
	if idx < 0 || idx >= len(plans) {
		return nil, ErrPositionOutOfRange
	}

	chapter, err := s.generateChapter(ctx, sessionUuid, plans[idx], topic, outlineText)
	if err != nil {
		return nil, err
	}

	for len(record.ArticleChapters) < len(plans) {
		record.ArticleChapters = append(record.ArticleChapters, "")
	}
	if record.ReferencesData == nil {
		record.ReferencesData = make(map[string]entity.ReferenceMap)
	}
	record.ArticleChapters[idx] = chapter.Content
	record.ReferencesData[strconv.Itoa(idx)] = referencesToEntity(chapter.References)
	if err := s.sessions.UpdateRecord(ctx, sessionUuid, record); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *generationService) RewriteArticle(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest) (string, error) {
	record, _, err := s.recordAt(ctx, sessionUuid, req.Pos)
	if err != nil {
		return "", err
	}
	articleText := record.Article()
	if articleText == "" {
		return "", ErrRecordNotFound
	}

	instruction := req.Instruction
	polish := req.Type == constant.ArticleOpPolishArticle
	if polish {
		instruction = req.Feedback
	}

	results := s.retrieval.Search(ctx, sessionUuid, []string{instruction}, privateTopK, sectionWebThreshold)

	var prompt string
	if len(results) > 0 {
		formatted := search.FormatResults(results)
		if polish {
			prompt = fmt.Sprintf(constant.ArticlePolishWithResultsPrompt, instruction, formatted, articleText)
		} else {
			prompt = fmt.Sprintf(constant.ArticleModifyWithResultsPrompt, instruction, formatted, articleText)
		}
	} else {
		if polish {
			prompt = fmt.Sprintf(constant.ArticlePolishPrompt, instruction, articleText)
		} else {
			prompt = fmt.Sprintf(constant.ArticleModifyPrompt, instruction, articleText)
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, chapterTimeout)
	defer cancel()
	text, err := llm.GenerateWithRetry(genCtx, s.provider, prompt)
	if err != nil {
		return "", err
	}

	record.ArticleChapters = article.SplitChapters(text)
	if err := s.sessions.UpdateRecord(ctx, sessionUuid, record); err != nil {
		return "", err
	}
	return text, nil
}

func (s *generationService) RewriteSection(ctx context.Context, sessionUuid uuid.UUID, req *dto.ArticleGenerateRequest) (string, error) {
	polish := req.Type == constant.ArticleOpPolishSection
	instruction := req.ModificationInstruction
	if polish {
		instruction = req.Feedback
	}

	results := s.retrieval.Search(ctx, sessionUuid, []string{instruction}, privateTopK, sectionWebThreshold)

	var prompt string
	if len(results) > 0 {
		formatted := search.FormatResults(results)
		if polish {
			prompt = fmt.Sprintf(constant.SectionPolishWithResultsPrompt, instruction, formatted, req.SectionContent)
		} else {
			prompt = fmt.Sprintf(constant.SectionModifyWithResultsPrompt, instruction, formatted, req.SectionContent)
		}
	} else {
		if polish {
			prompt = fmt.Sprintf(constant.SectionPolishPrompt, instruction, req.SectionContent)
		} else {
			prompt = fmt.Sprintf(constant.SectionModifyPrompt, instruction, req.SectionContent)
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, chapterTimeout)
	defer cancel()
	text, err := llm.GenerateWithRetry(genCtx, s.provider, prompt)
	if err != nil {
		return "", err
	}
	return article.CleanSection(text), nil
}

// ----- Job bookkeeping -----

func (s *generationService) startJob(ctx context.Context, sessionUuid uuid.UUID, pos int, outlineText string) *entity.GenerationJob {
	hash := sha256.Sum256([]byte(outlineText))
	job := &entity.GenerationJob{
		SessionUuid:         sessionUuid,
		RecordPosition:      pos,
		Status:              entity.GenerationStatusRunning,
		OutlineSnapshotHash: hex.EncodeToString(hash[:]),
		StartedAt:           time.Now(),
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GenerationJobRepository().Create(ctx, job); err != nil {
		s.logger.Warn("GenerationService", "Failed to record generation job", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return job
}

func (s *generationService) finishJob(ctx context.Context, job *entity.GenerationJob, runErr error) {
	if job == nil {
		return
	}
	now := time.Now()
	job.FinishedAt = &now
	if runErr != nil {
		job.Status = entity.GenerationStatusFailed
		msg := runErr.Error()
		job.Error = &msg
	} else {
		job.Status = entity.GenerationStatusCompleted
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GenerationJobRepository().Update(ctx, job); err != nil {
		s.logger.Warn("GenerationService", "Failed to finalize generation job", map[string]interface{}{"error": err.Error()})
	}
}

func (s *generationService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("GenerationService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
