package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-writing-be/internal/dto"
	"ai-writing-be/internal/repository/specification"
	"ai-writing-be/internal/repository/unitofwork"
	"ai-writing-be/pkg/embedding"
	"ai-writing-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the chunk-embedding topic: each job embeds one
// document chunk and writes its vector to the configured store.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	vectors           vectorstore.VectorStore
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	vectors vectorstore.VectorStore,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		vectors:           vectors,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedChunkMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal chunk job: %v", err)
		msg.Ack() // malformed jobs never succeed, drop them
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chunk, err := uow.LibraryRepository().FindChunk(ctx, specification.ByID{ID: payload.ChunkId})
	if err != nil {
		log.Printf("[ERROR] Failed to load chunk %s: %v", payload.ChunkId, err)
		msg.Nack()
		return
	}
	if chunk == nil {
		// Document deleted before the job ran.
		msg.Ack()
		return
	}

	doc, err := uow.LibraryRepository().FindDocument(ctx, specification.ByID{ID: chunk.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", chunk.DocumentId, err)
		msg.Nack()
		return
	}
	title := ""
	if doc != nil {
		title = doc.Name
	}

	resp, err := cs.embeddingProvider.Generate(chunk.Content, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Embedding failed for chunk %s: %v", chunk.Id, err)
		msg.Nack()
		return
	}

	err = cs.vectors.Upsert(ctx, []vectorstore.Chunk{{
		ID:         chunk.Id.String(),
		DocumentID: chunk.DocumentId.String(),
		OwnerID:    chunk.SessionUuid.String(),
		Title:      title,
		Content:    chunk.Content,
		ChunkIndex: chunk.ChunkIndex,
		Vector:     resp.Embedding.Values,
	}})
	if err != nil {
		log.Printf("[ERROR] Vector upsert failed for chunk %s: %v", chunk.Id, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
