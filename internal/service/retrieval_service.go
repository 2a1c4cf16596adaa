package service

import (
	"context"
	"fmt"

	"ai-writing-be/internal/pkg/logger"
	"ai-writing-be/pkg/embedding"
	"ai-writing-be/pkg/search"
	"ai-writing-be/pkg/vectorstore"

	"github.com/google/uuid"
)

// privateFileDescription labels retrieved private chunks in formatted search
// results so generated citations identify their origin.
const privateFileDescription = "Content from uploaded private files"

type IRetrievalService interface {
	// Search runs the private-library-first retrieval: chunks from the
	// session's uploaded documents are collected per query; the web provider
	// is consulted only when the private content falls short of
	// webThreshold characters. Private results always precede web results.
	Search(ctx context.Context, sessionUuid uuid.UUID, queries []string, topK, webThreshold int) []search.Result
}

type retrievalService struct {
	embedder    embedding.EmbeddingProvider
	vectors     vectorstore.VectorStore
	webProvider search.Provider
	logger      logger.ILogger
}

func NewRetrievalService(
	embedder embedding.EmbeddingProvider,
	vectors vectorstore.VectorStore,
	webProvider search.Provider,
	log logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		embedder:    embedder,
		vectors:     vectors,
		webProvider: webProvider,
		logger:      log,
	}
}

func (s *retrievalService) Search(ctx context.Context, sessionUuid uuid.UUID, queries []string, topK, webThreshold int) []search.Result {
	var results []search.Result
	privateChars := 0
	seen := make(map[string]bool)

	for _, query := range queries {
		for _, hit := range s.searchPrivate(ctx, sessionUuid, query, topK) {
			if seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			privateChars += len(hit.Content)
			results = append(results, search.Result{
				Title:       fmt.Sprintf("%s - Chunk %d", hit.Title, hit.ChunkIndex),
				Description: privateFileDescription,
				Snippets:    []string{hit.Content},
			})
		}
	}

	// Private material that already covers the budget wins outright; the web
	// only fills the gap.
	if privateChars >= webThreshold || s.webProvider == nil {
		return results
	}

	for _, query := range queries {
		webResults, err := s.webProvider.Search(ctx, query, 5)
		if err != nil {
			s.logger.Warn("RetrievalService", "Web search failed", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
			continue
		}
		results = append(results, webResults...)
	}
	return results
}

func (s *retrievalService) searchPrivate(ctx context.Context, sessionUuid uuid.UUID, query string, topK int) []vectorstore.SearchResult {
	if s.embedder == nil || s.vectors == nil {
		return nil
	}
	resp, err := s.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		s.logger.Warn("RetrievalService", "Query embedding failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil
	}
	hits, err := s.vectors.Search(ctx, resp.Embedding.Values, vectorstore.SearchFilter{
		OwnerID:  sessionUuid.String(),
		MinScore: vectorstore.DefaultScoreThreshold,
	}, topK)
	if err != nil {
		s.logger.Warn("RetrievalService", "Vector search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil
	}
	return hits
}
