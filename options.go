package retrieval

import (
	"time"

	"go.uber.org/zap"

	"github.com/siamdocs/retrieval/internal/repository/embcache"
	"github.com/siamdocs/retrieval/internal/transport/segmenter"
	searchuc "github.com/siamdocs/retrieval/internal/usecase/search"
)

// Default boost magnitudes. The exact values are content-specific tuning;
// override them per deployment with WithBoostMagnitudes.
const (
	DefaultPrimaryBoost   = 0.8
	DefaultSecondaryBoost = 0.3
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs            []string
	username         string
	password         string
	readinessTimeout time.Duration

	providerName string
	apiKey       string
	baseURL      string
	model        string
	dimensions   int
	cacheTTL     time.Duration

	segmenterEndpoint string
	segmenterTimeout  time.Duration

	primaryBoost   float64
	secondaryBoost float64
	boostTerms     []BoostTerm

	searchDefaults Params

	logger *zap.Logger
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
		providerName:     "openai",
		cacheTTL:         embcache.DefaultTTL,
		segmenterTimeout: segmenter.DefaultTimeout,
		primaryBoost:     DefaultPrimaryBoost,
		secondaryBoost:   DefaultSecondaryBoost,
		searchDefaults:   DefaultParams(),
		logger:           zap.NewNop(),
	}
}

// boosts maps the configured terms to absolute boost magnitudes.
func (c *clientConfig) boosts() []searchuc.BoostTerm {
	out := make([]searchuc.BoostTerm, 0, len(c.boostTerms))
	for _, b := range c.boostTerms {
		boost := c.secondaryBoost
		if b.Primary {
			boost = c.primaryBoost
		}
		out = append(out, searchuc.BoostTerm{Term: b.Term, Boost: boost})
	}
	return out
}

// WithRedis sets the Redis addresses of the chunk store.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithRedisAuth sets store credentials.
func WithRedisAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithReadinessTimeout bounds the initial store connectivity wait.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.readinessTimeout = d
		}
	}
}

// WithOpenAI configures the embedding provider. dimensions > 0 enables the
// provider-side dimension guard.
func WithOpenAI(apiKey, model string, dimensions int) Option {
	return func(c *clientConfig) {
		c.apiKey = apiKey
		c.model = model
		c.dimensions = dimensions
	}
}

// WithEmbeddingProvider sets the provider name used as the label in logs
// and metrics. Defaults to "openai".
func WithEmbeddingProvider(name string) Option {
	return func(c *clientConfig) {
		if name != "" {
			c.providerName = name
		}
	}
}

// WithEmbeddingBaseURL points the provider at an OpenAI-compatible endpoint.
func WithEmbeddingBaseURL(baseURL string) Option {
	return func(c *clientConfig) { c.baseURL = baseURL }
}

// WithEmbeddingCacheTTL sets the query-embedding cache lifetime.
func WithEmbeddingCacheTTL(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.cacheTTL = d
		}
	}
}

// WithSegmenter enables Thai word segmentation for query text.
func WithSegmenter(endpoint string, timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.segmenterEndpoint = endpoint
		if timeout > 0 {
			c.segmenterTimeout = timeout
		}
	}
}

// WithBoostTerm adds one curated literal to the boost list.
func WithBoostTerm(term string, primary bool) Option {
	return func(c *clientConfig) {
		c.boostTerms = append(c.boostTerms, BoostTerm{Term: term, Primary: primary})
	}
}

// WithBoostTerms replaces the curated literal boost list.
func WithBoostTerms(terms ...BoostTerm) Option {
	return func(c *clientConfig) { c.boostTerms = terms }
}

// WithBoostMagnitudes overrides the primary/secondary boost magnitudes.
func WithBoostMagnitudes(primary, secondary float64) Option {
	return func(c *clientConfig) {
		if primary > 0 {
			c.primaryBoost = primary
		}
		if secondary > 0 {
			c.secondaryBoost = secondary
		}
	}
}

// WithSearchDefaults sets the Params returned by Client.Defaults.
func WithSearchDefaults(p Params) Option {
	return func(c *clientConfig) { c.searchDefaults = p }
}

// WithLogger sets the logger used across all components.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
