package search

import (
	"context"

	"github.com/siamdocs/retrieval/internal/domain"
	"github.com/siamdocs/retrieval/internal/domain/search/params"
	"github.com/siamdocs/retrieval/internal/domain/search/scope"
	"github.com/siamdocs/retrieval/internal/tokenizer"
)

// --- Mocks ---

type mockChunkStore struct {
	chunks []domain.Chunk
	err    error
	called bool
}

func (m *mockChunkStore) ListChunks(_ context.Context, _ scope.Scope) ([]domain.Chunk, error) {
	m.called = true
	return m.chunks, m.err
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 7}, nil
}

// --- Helpers ---

func newTestService(chunks *mockChunkStore, embed *mockEmbedder, boosts []BoostTerm) *Service {
	return New(chunks, embed, tokenizer.New(nil, nil), boosts, nil)
}

func makeChunk(docID string, idx int, content string, vec []float32) domain.Chunk {
	return domain.ReconstructChunk(docID, idx, content, vec, "owner-1")
}

func broadScope() scope.Scope {
	sc, _ := scope.New("owner-1", nil)
	return sc
}

func docScope(docIDs ...string) scope.Scope {
	sc, _ := scope.New("owner-1", docIDs)
	return sc
}

func makeParams(kw, vw, mass float64, minChunks, maxChunks int) params.Params {
	p, err := params.New(kw, vw, mass, minChunks, maxChunks)
	if err != nil {
		panic(err)
	}
	return p
}

func key(docID string, idx int) domain.ChunkKey {
	return domain.ChunkKey{DocumentID: docID, ChunkIndex: idx}
}
