package vectorstore

import (
	"context"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// SearchResult is one nearest-neighbor hit. Score is a similarity in
// [0,1] (1 - cosine distance), higher is closer.
type SearchResult struct {
	Chunk model.Chunk
	Score float64
}

// Store is the persisted vector index. Collections are append-only
// while building and read-only while serving; ReplaceCollection swaps
// a complete new build in atomically so readers never observe a
// partial index.
type Store interface {
	// ReplaceCollection writes all chunks (with embeddings of dimension
	// dim) under the collection name, replacing any previous content in
	// a single logical transaction.
	ReplaceCollection(ctx context.Context, name string, dim int, chunks []model.Chunk) error

	// Search returns up to k chunks nearest to vec, optionally
	// restricted to the given source corpora. An empty result is a
	// valid outcome, not an error.
	Search(ctx context.Context, name string, vec []float32, k int, sources []string) ([]SearchResult, error)

	// Dimension reports the embedding dimensionality the collection was
	// built with. Used to detect embedder/index model mismatch at
	// startup.
	Dimension(ctx context.Context, name string) (int, error)

	Count(ctx context.Context, name string) (int64, error)
}
