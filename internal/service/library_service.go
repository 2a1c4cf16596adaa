package service

import (
	"context"
	"encoding/json"
	"errors"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/pkg/logger"
	"ai-writing-be/internal/repository/specification"
	"ai-writing-be/internal/repository/unitofwork"
	"ai-writing-be/pkg/utils"
	"ai-writing-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

var ErrDocumentNotFound = errors.New("document not found")

type ILibraryService interface {
	Upload(ctx context.Context, sessionUuid uuid.UUID, files []dto.PrivateFileInput) (*dto.UploadResult, error)
	List(ctx context.Context, sessionUuid uuid.UUID) ([]dto.PrivateFileInfo, error)
	Delete(ctx context.Context, sessionUuid uuid.UUID, name string) error
}

type libraryService struct {
	uowFactory unitofwork.RepositoryFactory
	pubSub     *gochannel.GoChannel
	topicName  string
	vectors    vectorstore.VectorStore
	logger     logger.ILogger
}

func NewLibraryService(
	uowFactory unitofwork.RepositoryFactory,
	pubSub *gochannel.GoChannel,
	topicName string,
	vectors vectorstore.VectorStore,
	log logger.ILogger,
) ILibraryService {
	return &libraryService{
		uowFactory: uowFactory,
		pubSub:     pubSub,
		topicName:  topicName,
		vectors:    vectors,
		logger:     log,
	}
}

// Upload persists new documents and their chunk rows, then enqueues one
// embedding job per chunk. Files whose name already exists in the session's
// library are skipped, not overwritten.
func (s *libraryService) Upload(ctx context.Context, sessionUuid uuid.UUID, files []dto.PrivateFileInput) (*dto.UploadResult, error) {
	result := &dto.UploadResult{Uploaded: []string{}, Skipped: []string{}}
	var pendingChunks []*entity.DocumentChunk

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	for _, file := range files {
		existing, err := uow.LibraryRepository().FindDocument(ctx,
			specification.BySessionUuid{SessionUuid: sessionUuid},
			specification.ByName{Name: file.Name},
		)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Skipped = append(result.Skipped, file.Name)
			continue
		}

		pieces := utils.SplitText(file.Content, chunkSize, chunkOverlap)

		doc := &entity.LibraryDocument{
			SessionUuid: sessionUuid,
			Name:        file.Name,
			Content:     file.Content,
			SizeBytes:   len(file.Content),
			ChunkCount:  len(pieces),
		}
		if err := uow.LibraryRepository().CreateDocument(ctx, doc); err != nil {
			return nil, err
		}

		chunks := make([]*entity.DocumentChunk, len(pieces))
		for i, piece := range pieces {
			chunks[i] = &entity.DocumentChunk{
				DocumentId:  doc.Id,
				SessionUuid: sessionUuid,
				Content:     piece,
				ChunkIndex:  i,
			}
		}
		if err := uow.LibraryRepository().CreateChunks(ctx, chunks); err != nil {
			return nil, err
		}

		pendingChunks = append(pendingChunks, chunks...)
		result.Uploaded = append(result.Uploaded, file.Name)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Jobs go out after commit so the consumer never races a missing row.
	for _, chunk := range pendingChunks {
		if err := s.publishChunkJob(chunk.Id); err != nil {
			s.logger.Error("LibraryService", "Failed to enqueue chunk embedding", map[string]interface{}{
				"chunk_id": chunk.Id,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("LibraryService", "Upload finished", map[string]interface{}{
		"session_uuid": sessionUuid,
		"uploaded":     len(result.Uploaded),
		"skipped":      len(result.Skipped),
		"chunks":       len(pendingChunks),
	})
	return result, nil
}

func (s *libraryService) publishChunkJob(chunkId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedChunkMessage{ChunkId: chunkId})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return s.pubSub.Publish(s.topicName, msg)
}

func (s *libraryService) List(ctx context.Context, sessionUuid uuid.UUID) ([]dto.PrivateFileInfo, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.LibraryRepository().FindDocuments(ctx,
		specification.BySessionUuid{SessionUuid: sessionUuid},
		specification.OrderBy{Field: "uploaded_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	files := make([]dto.PrivateFileInfo, len(docs))
	for i, doc := range docs {
		files[i] = dto.PrivateFileInfo{
			Name:       doc.Name,
			Size:       doc.SizeBytes,
			ChunkCount: doc.ChunkCount,
			UploadedAt: doc.UploadedAt,
		}
	}
	return files, nil
}

func (s *libraryService) Delete(ctx context.Context, sessionUuid uuid.UUID, name string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.LibraryRepository().FindDocument(ctx,
		specification.BySessionUuid{SessionUuid: sessionUuid},
		specification.ByName{Name: name},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.LibraryRepository().DeleteChunksByDocument(ctx, doc.Id); err != nil {
		return err
	}
	if err := uow.LibraryRepository().DeleteDocument(ctx, doc.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	// Drop vectors outside the transaction; qdrant deletion is not part of it
	// anyway, and the pgvector store's rows are already gone.
	if s.vectors != nil {
		if err := s.vectors.DeleteByDocument(ctx, doc.Id.String()); err != nil {
			s.logger.Warn("LibraryService", "Failed to delete document vectors", map[string]interface{}{
				"document_id": doc.Id,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
