package search

import (
	"math"

	"github.com/siamdocs/retrieval/internal/domain"
)

const normEpsilon = 1e-9

// Heavy-tail detection thresholds: a coefficient of variation above 1, or a
// range wider than three times the mean, marks a distribution where min-max
// normalization would let one outlier collapse every other score.
const (
	heavyTailCVThreshold    = 1.0
	heavyTailRangeMeanRatio = 3.0
	zScoreClip              = 3.0
)

// normalizeScores adaptively rescales raw lexical scores into [0,1] for
// fusion. BM25 scores are unbounded and their distribution shape depends on
// query term rarity: heavy-tailed sets go through a clipped z-score and
// sigmoid, tightly clustered sets through min-max. Fewer than two values
// pass through unchanged.
func normalizeScores(scores map[domain.ChunkKey]float64) map[domain.ChunkKey]float64 {
	if len(scores) < 2 {
		return scores
	}

	minV := math.Inf(1)
	maxV := math.Inf(-1)
	var sum float64
	for _, v := range scores {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, v := range scores {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(scores)) // population variance
	std := math.Sqrt(variance)

	cv := std / (mean + normEpsilon)

	normalized := make(map[domain.ChunkKey]float64, len(scores))
	if cv > heavyTailCVThreshold || (maxV-minV) > heavyTailRangeMeanRatio*mean {
		for k, v := range scores {
			z := (v - mean) / (std + normEpsilon)
			if z > zScoreClip {
				z = zScoreClip
			} else if z < -zScoreClip {
				z = -zScoreClip
			}
			normalized[k] = sigmoid(z)
		}
		return normalized
	}

	span := maxV - minV + normEpsilon
	for k, v := range scores {
		normalized[k] = (v - minV) / span
	}
	return normalized
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
