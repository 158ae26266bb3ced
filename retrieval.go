// Package retrieval is the retrieval core of a document question-answering
// platform: given a query and a bounded universe of pre-chunked,
// pre-embedded documents, it returns the smallest ranked set of text chunks
// capturing most of the relevant signal, fusing independent lexical (BM25)
// and semantic (embedding cosine) relevance scores.
//
// Document ingestion, prompt construction, the embedding model, Thai word
// segmentation, and durable storage are external collaborators consumed
// through their interfaces; this library exposes no HTTP or CLI surface.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/siamdocs/retrieval/internal/config"
	"github.com/siamdocs/retrieval/internal/db"
	dbredis "github.com/siamdocs/retrieval/internal/db/redis"
	"github.com/siamdocs/retrieval/internal/domain/search/params"
	"github.com/siamdocs/retrieval/internal/domain/search/scope"
	"github.com/siamdocs/retrieval/internal/logger"
	"github.com/siamdocs/retrieval/internal/metrics"
	chunkrepo "github.com/siamdocs/retrieval/internal/repository/chunk"
	"github.com/siamdocs/retrieval/internal/repository/embcache"
	"github.com/siamdocs/retrieval/internal/tokenizer"
	"github.com/siamdocs/retrieval/internal/transport/openai"
	"github.com/siamdocs/retrieval/internal/transport/segmenter"
	embeddinguc "github.com/siamdocs/retrieval/internal/usecase/embedding"
	searchuc "github.com/siamdocs/retrieval/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Scope restricts a search to one owner's corpus, optionally narrowed to an
// explicit document allow-list.
type Scope struct {
	OwnerID     string
	DocumentIDs []string
}

// Params are the fusion and selection parameters for one search call.
// Zero-valued MinChunks selects a scope-dependent default; zero-valued
// MaxChunks selects the documented ceiling. Out-of-range values are
// rejected at call time, never clamped.
type Params struct {
	KeywordWeight float64
	VectorWeight  float64
	MassFraction  float64
	MinChunks     int
	MaxChunks     int
}

// DefaultParams returns the documented constructor defaults.
func DefaultParams() Params {
	return Params{
		KeywordWeight: params.DefaultKeywordWeight,
		VectorWeight:  params.DefaultVectorWeight,
		MassFraction:  params.DefaultMassFraction,
		MaxChunks:     params.DefaultMaxChunks,
	}
}

// Result is one ranked chunk with enough provenance for prompt assembly and
// citation.
type Result struct {
	DocumentID    string
	ChunkIndex    int
	Content       string
	FinalScore    float64
	LexicalScore  float64
	SemanticScore float64
}

// BoostTerm is a curated high-value literal (brand or location). Primary
// terms receive the larger configured boost.
type BoostTerm struct {
	Term    string
	Primary bool
}

// Client is the retrieval SDK entry point.
type Client struct {
	store     db.Store
	provider  *openai.Embedder
	searchSvc *searchuc.Service
	defaults  Params
	logger    *zap.Logger
}

// Defaults returns the configured default search parameters.
func (c *Client) Defaults() Params { return c.defaults }

// New creates a retrieval Client and connects to the store.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, fmt.Errorf("retrieval: store address required (use WithRedis)")
	}
	if cfg.apiKey == "" {
		return nil, fmt.Errorf("retrieval: embedding provider required (use WithOpenAI)")
	}

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieval: create store: %w", err)
	}

	if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("retrieval: store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

// FromEnv creates a Client from config/<env>.yaml.
func FromEnv(env string) (*Client, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("retrieval: load config: %w", err)
	}

	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("retrieval: build logger: %w", err)
	}

	return New(optionsFromConfig(cfg, log)...)
}

// optionsFromConfig maps a loaded config onto the option list New consumes.
func optionsFromConfig(cfg config.Config, log *zap.Logger) []Option {
	opts := []Option{
		WithRedis(cfg.Database.Addrs...),
		WithRedisAuth(cfg.Database.Username, cfg.Database.Password),
		WithReadinessTimeout(time.Duration(cfg.Database.ReadinessTimeout) * time.Second),
		WithOpenAI(cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Dimensions),
		WithEmbeddingProvider(cfg.Embedding.Provider),
		WithEmbeddingBaseURL(cfg.Embedding.BaseURL),
		WithEmbeddingCacheTTL(time.Duration(cfg.Embedding.CacheTTLHours) * time.Hour),
		WithLogger(log),
		WithBoostMagnitudes(cfg.Search.PrimaryBoost, cfg.Search.SecondaryBoost),
		WithSearchDefaults(Params{
			KeywordWeight: cfg.Search.KeywordWeight,
			VectorWeight:  cfg.Search.VectorWeight,
			MassFraction:  cfg.Search.MassFraction,
			MinChunks:     cfg.Search.MinChunks,
			MaxChunks:     cfg.Search.MaxChunks,
		}),
	}
	if cfg.Segmenter.Endpoint != "" {
		opts = append(opts, WithSegmenter(
			cfg.Segmenter.Endpoint,
			time.Duration(cfg.Segmenter.TimeoutMS)*time.Millisecond,
		))
	}
	for _, b := range cfg.Search.BoostTerms {
		opts = append(opts, WithBoostTerm(b.Term, b.Level == "primary"))
	}
	return opts
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	provider := openai.NewEmbedder(&openai.Config{
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Model:      cfg.model,
		Dimensions: cfg.dimensions,
		Provider:   cfg.providerName,
		Logger:     cfg.logger,
	})

	cached := embcache.New(provider, store, cfg.cacheTTL, metrics.EmbeddingCacheTotal, cfg.logger)
	embedder := embeddinguc.NewInstrumentedEmbedder(cached, cfg.providerName, cfg.model, cfg.logger)

	var seg tokenizer.Segmenter
	if cfg.segmenterEndpoint != "" {
		seg = segmenter.New(&segmenter.Config{
			Endpoint: cfg.segmenterEndpoint,
			Timeout:  cfg.segmenterTimeout,
			Logger:   cfg.logger,
		})
	}
	tok := tokenizer.New(seg, cfg.logger)

	repo := chunkrepo.New(store, cfg.logger)

	return &Client{
		store:     store,
		provider:  provider,
		searchSvc: searchuc.New(repo, embedder, tok, cfg.boosts(), cfg.logger),
		defaults:  cfg.searchDefaults,
		logger:    cfg.logger,
	}
}

// Ping verifies that the chunk store and the embedding provider are
// reachable. Intended for readiness probes after New.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("retrieval: store ping: %w", err)
	}
	if err := c.provider.HealthCheck(ctx); err != nil {
		return fmt.Errorf("retrieval: embedding provider: %w", err)
	}
	return nil
}

// Search runs one query against the scoped corpus. Results are ordered
// descending by final score; an empty slice is a valid outcome, not an
// error.
func (c *Client) Search(ctx context.Context, query string, sc Scope, p Params) ([]Result, error) {
	domScope, err := scope.New(sc.OwnerID, sc.DocumentIDs)
	if err != nil {
		return nil, err
	}
	ctx = logger.ContextWithLogger(ctx, c.logger.With(zap.String("owner_id", sc.OwnerID)))
	domParams, err := params.New(p.KeywordWeight, p.VectorWeight, p.MassFraction, p.MinChunks, p.MaxChunks)
	if err != nil {
		return nil, err
	}

	ranked, err := c.searchSvc.Search(ctx, query, domScope, domParams)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(ranked))
	for i := range ranked {
		results[i] = Result{
			DocumentID:    ranked[i].DocumentID(),
			ChunkIndex:    ranked[i].ChunkIndex(),
			Content:       ranked[i].Content(),
			FinalScore:    ranked[i].FinalScore(),
			LexicalScore:  ranked[i].LexicalScore(),
			SemanticScore: ranked[i].SemanticScore(),
		}
	}
	return results, nil
}

// Close releases the store connection.
func (c *Client) Close() {
	c.store.Close()
}
