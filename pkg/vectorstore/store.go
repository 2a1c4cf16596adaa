package vectorstore

import "context"

// Chunk is one embedded span of a library document.
type Chunk struct {
	ID         string
	DocumentID string
	OwnerID    string
	Title      string
	Content    string
	ChunkIndex int
	Vector     []float32
}

// SearchFilter defines filtering options for vector search.
type SearchFilter struct {
	// OwnerID restricts results to documents owned by a user.
	OwnerID string

	// DocumentID restricts results to a single document.
	DocumentID string

	// MinScore drops results below this similarity threshold (0.0-1.0).
	MinScore float32
}

// SearchResult represents a single result from vector similarity search.
type SearchResult struct {
	ID         string
	Score      float32
	Content    string
	Title      string
	DocumentID string
	ChunkIndex int
}

// VectorStore is a technology-agnostic interface for storing and searching
// embedded document chunks.
type VectorStore interface {
	// Upsert writes chunks and their vectors to the store.
	Upsert(ctx context.Context, chunks []Chunk) error

	// Search performs vector similarity search with optional filtering.
	Search(ctx context.Context, vector []float32, filter SearchFilter, limit int) ([]SearchResult, error)

	// DeleteByDocument removes every chunk belonging to a document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Close releases any resources held by the vector store.
	Close() error
}
