package search

import (
	"math"

	"github.com/siamdocs/retrieval/internal/domain"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// lexicalMatch is the lexical score of one chunk plus the query terms that
// produced it.
type lexicalMatch struct {
	score        float64
	matchedTerms []string
}

// lexicalCandidate is a pre-tokenized chunk.
type lexicalCandidate struct {
	key    domain.ChunkKey
	tokens []string
}

// termHit records the best cascade match of one term against one chunk.
type termHit struct {
	candidate int // index into candidates
	match     termMatch
	frequency int // tokens matching at the winning tier
}

// scoreLexical computes BM25 scores over the candidate set. Document length
// is the chunk token count; average length is computed once per candidate
// set. Each (term, chunk) pair contributes at most once, scaled by match
// quality and tier discount. Chunks with no qualifying term are absent from
// the result map.
func scoreLexical(queryTerms []string, candidates []lexicalCandidate) map[domain.ChunkKey]lexicalMatch {
	results := make(map[domain.ChunkKey]lexicalMatch)
	if len(queryTerms) == 0 || len(candidates) == 0 {
		return results
	}

	docLens := make([]int, len(candidates))
	var totalLen int
	for i, c := range candidates {
		docLens[i] = len(c.tokens)
		totalLen += len(c.tokens)
	}
	avgLen := float64(totalLen) / float64(len(candidates))
	if avgLen == 0 {
		return results
	}

	n := float64(len(candidates))

	for _, term := range dedupe(queryTerms) {
		hits := collectHits(term, candidates)
		if len(hits) == 0 {
			continue
		}

		// Okapi IDF over the candidate set; df counts chunks the term
		// matched at any tier.
		df := float64(len(hits))
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))

		for _, hit := range hits {
			tf := float64(hit.frequency)
			norm := 1 - bm25B + bm25B*float64(docLens[hit.candidate])/avgLen
			saturation := tf * (bm25K1 + 1) / (tf + bm25K1*norm)

			contribution := idf * saturation * hit.match.quality * hit.match.tier.discount()
			if contribution <= 0 {
				continue
			}

			key := candidates[hit.candidate].key
			entry := results[key]
			entry.score += contribution
			entry.matchedTerms = append(entry.matchedTerms, term)
			results[key] = entry
		}
	}

	return results
}

// collectHits evaluates one term against every candidate, keeping the best
// cascade tier per chunk and the token frequency at that tier.
func collectHits(term string, candidates []lexicalCandidate) []termHit {
	var hits []termHit
	for i, c := range candidates {
		best := termMatch{tier: tierNone}
		freq := 0
		for _, token := range c.tokens {
			m := matchTerm(term, token)
			if m.tier == tierNone {
				continue
			}
			switch {
			case best.tier == tierNone || m.tier < best.tier ||
				(m.tier == best.tier && m.quality > best.quality):
				if m.tier != best.tier {
					freq = 0
				}
				best = m
				freq++
			case m.tier == best.tier:
				freq++
			}
		}
		if best.tier != tierNone {
			hits = append(hits, termHit{candidate: i, match: best, frequency: freq})
		}
	}
	return hits
}

// dedupe removes repeated query terms, preserving first-seen order, so a
// term is used at most once per chunk.
func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
