package search

import (
	"context"

	"github.com/siamdocs/retrieval/internal/domain"
	"github.com/siamdocs/retrieval/internal/domain/search/scope"
)

// ChunkStore bulk-reads chunk records for a search scope.
type ChunkStore interface {
	ListChunks(ctx context.Context, sc scope.Scope) ([]domain.Chunk, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Tokenizer normalizes text into tokens. NormalizeQuery may delegate
// Thai-dense text to an external segmenter; Normalize never does.
type Tokenizer interface {
	Normalize(text string) []string
	NormalizeQuery(ctx context.Context, text string) []string
}
