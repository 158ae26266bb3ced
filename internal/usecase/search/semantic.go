package search

import (
	"math"
	"strings"

	"github.com/siamdocs/retrieval/internal/domain"
	"github.com/siamdocs/retrieval/internal/tokenizer"
)

// BoostTerm is a curated high-value literal (brand or location name) whose
// presence in both query and chunk adds a fixed boost to the chunk's
// semantic score. Embeddings under-weight rare proper nouns; the boost
// compensates.
type BoostTerm struct {
	Term  string
	Boost float64
}

// semanticCandidate is one chunk eligible for semantic scoring.
type semanticCandidate struct {
	key       domain.ChunkKey
	content   string
	embedding []float32
}

// scoreSemantic computes cosine similarity of each candidate against the
// query embedding, then applies literal-override boosts capped at 1.0.
// Chunks with a missing or dimension-mismatched embedding are skipped, not
// failed. No document-level deduplication happens here.
func scoreSemantic(
	queryVec []float32, queryText string,
	candidates []semanticCandidate, boosts []BoostTerm,
) map[domain.ChunkKey]float64 {
	results := make(map[domain.ChunkKey]float64)
	if len(queryVec) == 0 {
		return results
	}

	active := activeBoosts(queryText, boosts)

	for _, c := range candidates {
		if len(c.embedding) != len(queryVec) {
			continue
		}
		score := cosineSimilarity(queryVec, c.embedding)

		for _, b := range active {
			if containsLiteral(c.content, b.Term) {
				score += b.Boost
			}
		}
		if score > 1.0 {
			score = 1.0
		}
		results[c.key] = score
	}
	return results
}

// activeBoosts returns the configured boost terms present in the query.
func activeBoosts(queryText string, boosts []BoostTerm) []BoostTerm {
	var active []BoostTerm
	for _, b := range boosts {
		if b.Boost <= 0 || b.Term == "" {
			continue
		}
		if containsLiteral(queryText, b.Term) {
			active = append(active, b)
		}
	}
	return active
}

// containsLiteral checks text for a literal term, insensitive to case and
// Thai tone/vowel/space variants.
func containsLiteral(text, term string) bool {
	return strings.Contains(canonicalLiteral(text), canonicalLiteral(term))
}

func canonicalLiteral(s string) string {
	return tokenizer.StripThaiVariants(tokenizer.Clean(s))
}

// cosineSimilarity returns the cosine of two equal-length vectors, 0 when
// either has zero norm.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
