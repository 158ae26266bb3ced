// Package search implements the retrieval core: it fuses independent
// lexical (BM25) and semantic (cosine) relevance signals over a bounded
// candidate set and selects results by cumulative score mass.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siamdocs/retrieval/internal/domain"
	"github.com/siamdocs/retrieval/internal/domain/search/params"
	"github.com/siamdocs/retrieval/internal/domain/search/result"
	"github.com/siamdocs/retrieval/internal/domain/search/scope"
	"github.com/siamdocs/retrieval/internal/logger"
	"github.com/siamdocs/retrieval/internal/metrics"
)

// Service orchestrates one synchronous search: bulk fetch, concurrent
// lexical and semantic scoring, adaptive normalization, weighted fusion,
// and mass selection. No state survives a call.
type Service struct {
	chunks    ChunkStore
	embedder  Embedder
	tokenizer Tokenizer
	boosts    []BoostTerm
	logger    *zap.Logger
}

// New creates a search service.
func New(
	chunks ChunkStore, embedder Embedder, tok Tokenizer,
	boosts []BoostTerm, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		chunks:    chunks,
		embedder:  embedder,
		tokenizer: tok,
		boosts:    boosts,
		logger:    logger,
	}
}

// Search runs one query against the scoped corpus and returns ranked
// results, ordered descending by final score. An empty result is a valid
// terminal state, not an error; upstream failures (chunk store, embedding
// provider) surface as errors with no partial ranking.
func (s *Service) Search(
	ctx context.Context, query string, sc scope.Scope, p params.Params,
) ([]result.Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx, s.logger)

	if strings.TrimSpace(query) == "" {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidParams)
	}

	// Scope-dependent floor: document-scoped queries tolerate more context.
	if p.MinChunks() == 0 {
		if sc.IsDocumentScoped() {
			p = p.WithMinChunks(params.DefaultMinChunksScoped)
		} else {
			p = p.WithMinChunks(params.DefaultMinChunksBroad)
		}
	}

	candidates, err := s.chunks.ListChunks(ctx, sc)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	metrics.SearchCandidates.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		metrics.SearchRequestsTotal.WithLabelValues("empty").Inc()
		return []result.Result{}, nil
	}

	queryTerms := s.tokenizer.NormalizeQuery(ctx, query)
	queryText := strings.Join(queryTerms, " ")

	// Lexical and semantic scoring are independent pure computations over
	// the same candidates; a zero weight skips the branch entirely
	// (keyword-only queries never touch the embedding provider).
	var (
		lexicalScores  map[domain.ChunkKey]lexicalMatch
		semanticScores map[domain.ChunkKey]float64
	)

	g, gctx := errgroup.WithContext(ctx)

	if p.KeywordWeight() > 0 {
		g.Go(func() error {
			lexicalScores = scoreLexical(queryTerms, s.lexicalCandidates(candidates))
			return nil
		})
	}

	if p.VectorWeight() > 0 {
		g.Go(func() error {
			emb, err := s.embedder.Embed(gctx, query)
			if err != nil {
				return fmt.Errorf("embed query: %w", err)
			}
			semanticScores = scoreSemantic(
				emb.Embedding, queryText, semanticCandidates(candidates), s.boosts,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	normalized := normalizeScores(rawScores(lexicalScores))
	ranked := fuseScores(normalized, semanticScores, p)
	selected := selectByMass(ranked, p)

	results := buildResults(selected, candidates)

	status := "success"
	if len(results) == 0 {
		status = "empty"
	}
	metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	log.Debug("search completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("lexical_hits", len(lexicalScores)),
		zap.Int("semantic_hits", len(semanticScores)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)

	return results, nil
}

// lexicalCandidates tokenizes chunk content without ever invoking the
// segmenter: stored chunks are pre-segmented at ingestion.
func (s *Service) lexicalCandidates(chunks []domain.Chunk) []lexicalCandidate {
	out := make([]lexicalCandidate, len(chunks))
	for i := range chunks {
		out[i] = lexicalCandidate{
			key:    chunks[i].Key(),
			tokens: s.tokenizer.Normalize(chunks[i].Content()),
		}
	}
	return out
}

func semanticCandidates(chunks []domain.Chunk) []semanticCandidate {
	out := make([]semanticCandidate, len(chunks))
	for i := range chunks {
		out[i] = semanticCandidate{
			key:       chunks[i].Key(),
			content:   chunks[i].Content(),
			embedding: chunks[i].Embedding(),
		}
	}
	return out
}

func rawScores(matches map[domain.ChunkKey]lexicalMatch) map[domain.ChunkKey]float64 {
	raw := make(map[domain.ChunkKey]float64, len(matches))
	for k, m := range matches {
		raw[k] = m.score
	}
	return raw
}

func buildResults(selected []fusedCandidate, chunks []domain.Chunk) []result.Result {
	byKey := make(map[domain.ChunkKey]*domain.Chunk, len(chunks))
	for i := range chunks {
		byKey[chunks[i].Key()] = &chunks[i]
	}

	results := make([]result.Result, 0, len(selected))
	for _, c := range selected {
		chunk, ok := byKey[c.key]
		if !ok {
			continue
		}
		results = append(results, result.New(
			c.key.DocumentID, c.key.ChunkIndex, chunk.Content(),
			c.final, c.lexical, c.semantic,
		))
	}
	return results
}
