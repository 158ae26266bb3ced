package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/siamdocs/retrieval/internal/domain"
	"github.com/siamdocs/retrieval/internal/domain/search/params"
	"github.com/siamdocs/retrieval/internal/logger"
)

func TestSearch_LogsThroughRequestScopedLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	chunks := &mockChunkStore{chunks: []domain.Chunk{
		makeChunk("doc-a", 0, "contract terms", nil),
	}}
	svc := newTestService(chunks, &mockEmbedder{}, nil)

	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))
	_, err := svc.Search(ctx, "contract", broadScope(), makeParams(1.0, 0, 0.3, 0, 8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("search completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected the completion entry on the request logger, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["candidates"]; got != int64(1) {
		t.Errorf("unexpected candidates field: %v", got)
	}
}

func TestSearch_EmptyQuery_Rejected(t *testing.T) {
	svc := newTestService(&mockChunkStore{}, &mockEmbedder{}, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), q, broadScope(), params.Default())
		if err == nil {
			t.Fatalf("query %q: expected error", q)
		}
		if !errors.Is(err, domain.ErrInvalidParams) {
			t.Errorf("query %q: expected ErrInvalidParams, got %v", q, err)
		}
	}
}

func TestSearch_EmptyCorpus_EmptyResultNoError(t *testing.T) {
	chunks := &mockChunkStore{}
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := newTestService(chunks, embed, nil)

	results, err := svc.Search(context.Background(), "anything", broadScope(), params.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
	if embed.called {
		t.Error("embedder must not be called for an empty corpus")
	}
}

func TestSearch_ChunkStoreError_Propagated(t *testing.T) {
	chunks := &mockChunkStore{
		err: fmt.Errorf("%w: connection refused", domain.ErrChunkStoreError),
	}
	svc := newTestService(chunks, &mockEmbedder{vec: []float32{1}}, nil)

	_, err := svc.Search(context.Background(), "query", broadScope(), params.Default())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrChunkStoreError) {
		t.Errorf("expected ErrChunkStoreError, got %v", err)
	}
}

func TestSearch_EmbedError_FailsHard(t *testing.T) {
	chunks := &mockChunkStore{chunks: []domain.Chunk{
		makeChunk("doc-a", 0, "contract terms", []float32{1, 0}),
	}}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := newTestService(chunks, embed, nil)

	_, err := svc.Search(context.Background(), "contract", broadScope(), params.Default())
	if err == nil {
		t.Fatal("expected error from embedding failure")
	}
}

func TestSearch_KeywordOnly_SkipsEmbedder(t *testing.T) {
	chunks := &mockChunkStore{chunks: []domain.Chunk{
		makeChunk("doc-a", 0, "contract terms and conditions", nil),
		makeChunk("doc-b", 0, "kitchen recipes", nil),
	}}
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := newTestService(chunks, embed, nil)

	p := makeParams(1.0, 0, 1.0, 1, 8)
	results, err := svc.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.called {
		t.Error("embedder must not be called with vector weight 0")
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DocumentID() != "doc-a" {
		t.Errorf("expected doc-a, got %s", results[0].DocumentID())
	}
}

func TestSearch_SemanticOnly_PureCosineRanking(t *testing.T) {
	chunks := &mockChunkStore{chunks: []domain.Chunk{
		makeChunk("doc-far", 0, "contract contract contract", []float32{0, 1}),
		makeChunk("doc-near", 0, "unrelated words entirely", []float32{1, 0}),
	}}
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := newTestService(chunks, embed, nil)

	// Keyword weight 0: BM25 never runs, lexical matches are irrelevant.
	p := makeParams(0, 1.0, 1.0, 1, 8)
	results, err := svc.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !embed.called {
		t.Fatal("expected embedder to be called")
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].DocumentID() != "doc-near" {
		t.Errorf("semantic-only ranking must follow cosine, got %s first", results[0].DocumentID())
	}
	for _, r := range results {
		if r.LexicalScore() != 0 {
			t.Errorf("lexical score must be 0 with keyword weight 0, got %f", r.LexicalScore())
		}
	}
}

func TestSearch_BoostedLiteralWinsRanking(t *testing.T) {
	// The query names a brand and a location; the chunk containing both
	// literals must outrank a chunk that is merely semantically closer.
	boosts := []BoostTerm{
		{Term: "xolo", Boost: 0.8},
		{Term: "บางกะปิ", Boost: 0.3},
	}
	chunks := &mockChunkStore{chunks: []domain.Chunk{
		makeChunk("doc-generic", 0, "ยอดขายรวมทุกสาขา", []float32{0.95, 0.312}),
		makeChunk("doc-branch", 0, "ยอดขาย XOLO สาขาบางกะปิ", []float32{0.5, 0.866}),
	}}
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := newTestService(chunks, embed, boosts)

	p := makeParams(0, 1.0, 1.0, 1, 8)
	results, err := svc.Search(context.Background(), "ยอดขาย xolo บางกะปิ", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].DocumentID() != "doc-branch" {
		t.Fatalf("boosted chunk must rank first, got %s", results[0].DocumentID())
	}
	if results[0].SemanticScore() != 1.0 {
		t.Errorf("stacked boosts must cap the semantic score at 1.0, got %f",
			results[0].SemanticScore())
	}
}

func TestSearch_ScopeDependentMinChunks(t *testing.T) {
	// 6 chunks all matching the term with different lengths; a tiny mass
	// fraction makes the minChunks floor the binding constraint.
	var corpus []domain.Chunk
	for i := 0; i < 6; i++ {
		content := "contract " + strings.Repeat("filler ", i+1)
		corpus = append(corpus, makeChunk("doc", i, content, nil))
	}
	p := makeParams(1.0, 0, 0.01, 0, 8)

	broad := newTestService(&mockChunkStore{chunks: corpus}, &mockEmbedder{}, nil)
	results, err := broad.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("broad: unexpected error: %v", err)
	}
	if len(results) != params.DefaultMinChunksBroad {
		t.Errorf("broad scope: expected %d results, got %d", params.DefaultMinChunksBroad, len(results))
	}

	scoped := newTestService(&mockChunkStore{chunks: corpus}, &mockEmbedder{}, nil)
	results, err = scoped.Search(context.Background(), "contract", docScope("doc"), p)
	if err != nil {
		t.Fatalf("scoped: unexpected error: %v", err)
	}
	if len(results) != params.DefaultMinChunksScoped {
		t.Errorf("document scope: expected %d results, got %d", params.DefaultMinChunksScoped, len(results))
	}
}

func TestSearch_ExplicitMinChunksRespected(t *testing.T) {
	var corpus []domain.Chunk
	for i := 0; i < 6; i++ {
		content := "contract " + strings.Repeat("filler ", i+1)
		corpus = append(corpus, makeChunk("doc", i, content, nil))
	}
	svc := newTestService(&mockChunkStore{chunks: corpus}, &mockEmbedder{}, nil)

	p := makeParams(1.0, 0, 0.01, 3, 8)
	results, err := svc.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("explicit minChunks=3 must not be overridden, got %d", len(results))
	}
}

func TestSearch_MaxChunksCeiling(t *testing.T) {
	// 20 relevant chunks, massFraction 1.0: the ceiling must cut at 8.
	var corpus []domain.Chunk
	for i := 0; i < 20; i++ {
		content := "contract " + strings.Repeat("filler ", i+1)
		corpus = append(corpus, makeChunk("doc", i, content, nil))
	}
	svc := newTestService(&mockChunkStore{chunks: corpus}, &mockEmbedder{}, nil)

	p := makeParams(1.0, 0, 1.0, 2, 0) // maxChunks 0 = default ceiling
	results, err := svc.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != params.DefaultMaxChunks {
		t.Fatalf("expected exactly %d results, got %d", params.DefaultMaxChunks, len(results))
	}
}

func TestSearch_ResultsOrderedDescending(t *testing.T) {
	var corpus []domain.Chunk
	for i := 0; i < 10; i++ {
		content := "contract " + strings.Repeat("filler ", i+1)
		corpus = append(corpus, makeChunk("doc", i, content, nil))
	}
	svc := newTestService(&mockChunkStore{chunks: corpus}, &mockEmbedder{}, nil)

	p := makeParams(1.0, 0, 1.0, 2, 8)
	results, err := svc.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].FinalScore() > results[i-1].FinalScore() {
			t.Errorf("results not sorted descending at %d: %f > %f",
				i, results[i].FinalScore(), results[i-1].FinalScore())
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	var corpus []domain.Chunk
	for i := 0; i < 8; i++ {
		content := "contract " + strings.Repeat("filler ", i%3+1)
		corpus = append(corpus, makeChunk(fmt.Sprintf("doc-%d", i%4), i, content, []float32{1, float32(i)}))
	}
	embed := &mockEmbedder{vec: []float32{1, 0.5}}
	svc := newTestService(&mockChunkStore{chunks: corpus}, embed, nil)

	p := makeParams(0.5, 0.5, 1.0, 2, 8)
	first, err := svc.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := svc.Search(context.Background(), "contract", broadScope(), p)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: result count changed: %d vs %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i].DocumentID() != first[i].DocumentID() ||
				again[i].ChunkIndex() != first[i].ChunkIndex() ||
				again[i].FinalScore() != first[i].FinalScore() {
				t.Fatalf("run %d: ordering not deterministic at position %d", run, i)
			}
		}
	}
}

func TestSearch_MissingEmbeddingDegradesLocally(t *testing.T) {
	// One chunk has no embedding: it still competes lexically and receives
	// the semantic floor, while well-formed chunks score normally.
	chunks := &mockChunkStore{chunks: []domain.Chunk{
		makeChunk("doc-novec", 0, "contract terms exact", nil),
		makeChunk("doc-vec", 0, "unrelated semantic content", []float32{1, 0}),
	}}
	embed := &mockEmbedder{vec: []float32{1, 0}}
	svc := newTestService(chunks, embed, nil)

	p := makeParams(0.5, 0.5, 1.0, 2, 8)
	results, err := svc.Search(context.Background(), "contract", broadScope(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var novec, vec bool
	for _, r := range results {
		switch r.DocumentID() {
		case "doc-novec":
			novec = true
			if r.SemanticScore() <= 0 {
				t.Errorf("lexical hit without embedding must get the semantic floor, got %f",
					r.SemanticScore())
			}
		case "doc-vec":
			vec = true
		}
	}
	if !novec || !vec {
		t.Fatalf("expected both chunks in results, got %v", results)
	}
}
