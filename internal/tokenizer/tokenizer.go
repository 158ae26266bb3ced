// Package tokenizer converts raw text into normalized tokens. Thai-dense
// query text is delegated to an external word segmenter before tokenization;
// stored-chunk text is tokenized as-is (chunks are pre-segmented at
// ingestion).
package tokenizer

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Segmenter inserts word boundaries into unsegmented Thai text.
type Segmenter interface {
	Segment(ctx context.Context, text string) (string, error)
}

// punctuation characters treated as token boundaries. Thai repetition and
// abbreviation signs included: they never carry term signal.
const punctuation = ".,!?;:'\"()[]{}<>/\\|@#$%^&*+=~`ๆฯ"

// Tokenizer normalizes text into lowercase tokens.
type Tokenizer struct {
	segmenter Segmenter
	logger    *zap.Logger
}

// New creates a tokenizer. segmenter may be nil, in which case Thai-dense
// queries are tokenized unsegmented.
func New(segmenter Segmenter, logger *zap.Logger) *Tokenizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tokenizer{segmenter: segmenter, logger: logger}
}

// Normalize lowercases, replaces punctuation with word boundaries, collapses
// whitespace runs, and splits into tokens. Single spaces are significant:
// pre-segmented Thai chunk text uses them as word boundaries. Never invokes
// the segmenter — stored-chunk tokenization must stay cheap and local.
func (t *Tokenizer) Normalize(text string) []string {
	return strings.Fields(Clean(text))
}

// NormalizeQuery normalizes query-side text. If the text is Thai-dense, the
// external segmenter inserts word boundaries first; any segmenter failure
// falls back to the unsegmented text. Never returns an error.
func (t *Tokenizer) NormalizeQuery(ctx context.Context, text string) []string {
	if t.segmenter != nil && IsThaiDense(text) {
		segmented, err := t.segmenter.Segment(ctx, text)
		switch {
		case err != nil:
			t.logger.Warn("thai segmentation failed, using unsegmented text", zap.Error(err))
		case segmented != "":
			text = segmented
		}
	}
	return t.Normalize(text)
}

// Clean lowercases text, maps punctuation to spaces, and collapses runs of
// two or more whitespace characters to a single space.
func Clean(text string) string {
	lowered := strings.ToLower(text)
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, lowered)
	return strings.Join(strings.Fields(mapped), " ")
}
