package params

import (
	"fmt"

	"github.com/siamdocs/retrieval/internal/domain"
)

// Defaults for search parameters. minChunks has no single default here: the
// orchestrator fills it per scope (document-scoped queries get a higher
// floor) when the caller passes 0.
const (
	DefaultKeywordWeight = 0.5
	DefaultVectorWeight  = 0.5
	DefaultMassFraction  = 0.3
	DefaultMaxChunks     = 8

	// DefaultMinChunksScoped applies when the scope restricts documents.
	DefaultMinChunksScoped = 5
	// DefaultMinChunksBroad applies to corpus-wide queries.
	DefaultMinChunksBroad = 2
)

// Params is a validated set of fusion and selection parameters.
type Params struct {
	keywordWeight float64
	vectorWeight  float64
	massFraction  float64
	minChunks     int
	maxChunks     int
}

// New validates fusion and selection parameters. Out-of-range values are
// rejected rather than clamped: silent clamping would mask caller mistakes
// that degrade search quality. minChunks=0 means "use the scope-dependent
// default"; maxChunks=0 means DefaultMaxChunks.
func New(keywordWeight, vectorWeight, massFraction float64, minChunks, maxChunks int) (Params, error) {
	if keywordWeight < 0 || keywordWeight > 1 {
		return Params{}, fmt.Errorf("%w: keyword weight %v outside [0,1]", domain.ErrInvalidParams, keywordWeight)
	}
	if vectorWeight < 0 || vectorWeight > 1 {
		return Params{}, fmt.Errorf("%w: vector weight %v outside [0,1]", domain.ErrInvalidParams, vectorWeight)
	}
	if keywordWeight == 0 && vectorWeight == 0 {
		return Params{}, fmt.Errorf("%w: at least one weight must be positive", domain.ErrInvalidParams)
	}
	if massFraction <= 0 || massFraction > 1 {
		return Params{}, fmt.Errorf("%w: mass fraction %v outside (0,1]", domain.ErrInvalidParams, massFraction)
	}
	if minChunks < 0 {
		return Params{}, fmt.Errorf("%w: min chunks %d negative", domain.ErrInvalidParams, minChunks)
	}
	if maxChunks < 0 {
		return Params{}, fmt.Errorf("%w: max chunks %d negative", domain.ErrInvalidParams, maxChunks)
	}
	if maxChunks == 0 {
		maxChunks = DefaultMaxChunks
	}
	if minChunks > maxChunks {
		return Params{}, fmt.Errorf(
			"%w: min chunks %d exceeds max chunks %d", domain.ErrInvalidParams, minChunks, maxChunks,
		)
	}

	return Params{
		keywordWeight: keywordWeight,
		vectorWeight:  vectorWeight,
		massFraction:  massFraction,
		minChunks:     minChunks,
		maxChunks:     maxChunks,
	}, nil
}

// Default returns the documented constructor defaults with an unset minChunks.
func Default() Params {
	p, _ := New(DefaultKeywordWeight, DefaultVectorWeight, DefaultMassFraction, 0, DefaultMaxChunks)
	return p
}

// KeywordWeight returns the lexical score weight.
func (p *Params) KeywordWeight() float64 { return p.keywordWeight }

// VectorWeight returns the semantic score weight.
func (p *Params) VectorWeight() float64 { return p.vectorWeight }

// MassFraction returns the target fraction of total score mass.
func (p *Params) MassFraction() float64 { return p.massFraction }

// MinChunks returns the result floor (0 = scope-dependent default).
func (p *Params) MinChunks() int { return p.minChunks }

// MaxChunks returns the hard result ceiling.
func (p *Params) MaxChunks() int { return p.maxChunks }

// WithMinChunks returns a copy with the floor resolved. Used by the
// orchestrator to apply scope-dependent defaults; n is capped at maxChunks.
func (p Params) WithMinChunks(n int) Params {
	if n > p.maxChunks {
		n = p.maxChunks
	}
	p.minChunks = n
	return p
}
