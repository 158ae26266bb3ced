package search

import (
	"sort"

	"github.com/siamdocs/retrieval/internal/domain"
	"github.com/siamdocs/retrieval/internal/domain/search/params"
)

// semanticFloorFraction is the fraction of the mean positive semantic score
// granted to chunks the embedding model scored at literal zero despite a
// positive lexical score. Embedding blind spots must not zero out clearly
// relevant lexical hits.
const semanticFloorFraction = 0.1

// fusedCandidate carries the combined score of one chunk through selection.
type fusedCandidate struct {
	key      domain.ChunkKey
	final    float64
	lexical  float64
	semantic float64
}

// fuseScores linearly combines normalized lexical and semantic score maps.
// A chunk present in only one map gets 0 for the missing component, except
// that a positive lexical score with a literal-zero semantic score receives
// the semantic baseline floor. Output is sorted descending by final score,
// ties broken by (documentID, chunkIndex) for stable orderings.
func fuseScores(
	lexical, semantic map[domain.ChunkKey]float64, p params.Params,
) []fusedCandidate {
	keys := make(map[domain.ChunkKey]struct{}, len(lexical)+len(semantic))
	for k := range lexical {
		keys[k] = struct{}{}
	}
	for k := range semantic {
		keys[k] = struct{}{}
	}

	floor := semanticFloor(semantic)

	fused := make([]fusedCandidate, 0, len(keys))
	for k := range keys {
		lex := lexical[k]
		sem := semantic[k]
		if lex > 0 && sem == 0 {
			sem = floor
		}
		fused = append(fused, fusedCandidate{
			key:      k,
			final:    lex*p.KeywordWeight() + sem*p.VectorWeight(),
			lexical:  lex,
			semantic: sem,
		})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].final != fused[j].final {
			return fused[i].final > fused[j].final
		}
		return fused[i].key.Less(fused[j].key)
	})
	return fused
}

// semanticFloor returns 10% of the mean positive semantic score, 0 when no
// chunk scored positively.
func semanticFloor(semantic map[domain.ChunkKey]float64) float64 {
	var sum float64
	var n int
	for _, v := range semantic {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return semanticFloorFraction * sum / float64(n)
}

// selectByMass picks the smallest ranked prefix whose cumulative score
// reaches the target fraction of total positive mass. The minChunks floor
// may push past the mass target, never below it; the maxChunks ceiling
// always applies. Zero total mass yields an empty selection.
func selectByMass(ranked []fusedCandidate, p params.Params) []fusedCandidate {
	var total float64
	for _, c := range ranked {
		if c.final > 0 {
			total += c.final
		}
	}
	if total <= 0 {
		return nil
	}

	selected := make([]fusedCandidate, 0, p.MaxChunks())
	var accumulated float64
	for _, c := range ranked {
		if c.final <= 0 {
			break // ranked descending, nothing positive remains
		}
		if len(selected) >= p.MaxChunks() {
			break
		}
		if len(selected) >= p.MinChunks() && accumulated/total >= p.MassFraction() {
			break
		}
		selected = append(selected, c)
		accumulated += c.final
	}
	return selected
}
