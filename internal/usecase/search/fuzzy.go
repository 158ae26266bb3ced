package search

import (
	"strings"

	"github.com/siamdocs/retrieval/internal/tokenizer"
)

// matchTier identifies which cascade level produced a term/token match.
// Lower tiers are tried first; the first tier that qualifies wins.
type matchTier int

const (
	tierNone matchTier = iota
	tierExact
	tierLanguageFuzzy // Thai tone/vowel/space-insensitive comparison
	tierGenericFuzzy  // normalized edit-distance similarity
	tierPartial       // mutual substring containment
	tierCompound      // sub-part containment / Thai character similarity
)

// discount scales a tier's contribution: looser matches carry less weight.
func (t matchTier) discount() float64 {
	switch t {
	case tierExact:
		return 1.0
	case tierLanguageFuzzy:
		return 0.9
	case tierGenericFuzzy:
		return 0.8
	case tierPartial:
		return 0.7
	case tierCompound:
		return 0.6
	}
	return 0
}

// termMatch is one qualifying term/token match.
type termMatch struct {
	tier    matchTier
	quality float64
}

// Cascade thresholds.
const (
	thaiStrippedEqualQuality  = 0.95
	thaiContainmentQuality    = 0.85
	thaiEditSimilarityMin     = 0.80
	thaiEditLengthGapMax      = 2
	genericEditSimilarityMin  = 0.75
	partialMinLength          = 3
	partialQualityFloor       = 0.6
	compoundThaiSimilarityMin = 0.7
	compoundQualityFloor      = 0.5
)

// matchTerm evaluates one (term, token) pair through the 4-tier cascade and
// returns the best qualifying match, or tier none.
func matchTerm(term, token string) termMatch {
	// Tier 1: exact token equality.
	if term == token {
		return termMatch{tier: tierExact, quality: 1.0}
	}

	// Tier 2: language-aware fuzzy equality.
	if tokenizer.ContainsThai(term) {
		if m, ok := matchThaiFuzzy(term, token); ok {
			return m
		}
	} else {
		if sim := editSimilarity(term, token); sim >= genericEditSimilarityMin {
			return termMatch{tier: tierGenericFuzzy, quality: sim}
		}
	}

	// Tier 3: partial containment.
	if m, ok := matchPartial(term, token); ok {
		return m
	}

	// Tier 4: compound substring.
	if m, ok := matchCompound(term, token); ok {
		return m
	}

	return termMatch{tier: tierNone}
}

// matchThaiFuzzy compares Thai terms with tone marks, above/below vowels,
// and spaces stripped. Informal Thai drops or varies these freely.
func matchThaiFuzzy(term, token string) (termMatch, bool) {
	st := tokenizer.StripThaiVariants(term)
	sk := tokenizer.StripThaiVariants(token)
	if st == "" || sk == "" {
		return termMatch{}, false
	}

	if st == sk {
		return termMatch{tier: tierLanguageFuzzy, quality: thaiStrippedEqualQuality}, true
	}

	shorter := st
	if runeLen(sk) < runeLen(st) {
		shorter = sk
	}
	if runeLen(shorter) >= partialMinLength &&
		(strings.Contains(st, sk) || strings.Contains(sk, st)) {
		return termMatch{tier: tierLanguageFuzzy, quality: thaiContainmentQuality}, true
	}

	if gap := runeLen(st) - runeLen(sk); gap <= thaiEditLengthGapMax && gap >= -thaiEditLengthGapMax {
		if sim := editSimilarity(st, sk); sim >= thaiEditSimilarityMin {
			return termMatch{tier: tierLanguageFuzzy, quality: sim}, true
		}
	}

	return termMatch{}, false
}

// matchPartial qualifies mutual substrings of length >= 3, with quality
// proportional to the length ratio.
func matchPartial(term, token string) (termMatch, bool) {
	lt, lk := runeLen(term), runeLen(token)
	if lt < partialMinLength || lk < partialMinLength {
		return termMatch{}, false
	}
	if !strings.Contains(term, token) && !strings.Contains(token, term) {
		return termMatch{}, false
	}

	shorter, longer := lt, lk
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	quality := float64(shorter) / float64(longer)
	if quality < partialQualityFloor {
		quality = partialQualityFloor
	}
	return termMatch{tier: tierPartial, quality: quality}, true
}

// matchCompound splits the term on word boundaries (segmented Thai terms
// keep interior spaces) and qualifies sub-part containment or Thai
// character-level similarity.
func matchCompound(term, token string) (termMatch, bool) {
	var best float64
	for _, part := range strings.Fields(term) {
		if runeLen(part) < partialMinLength {
			continue
		}
		if strings.Contains(token, part) || strings.Contains(part, token) {
			if q := lengthRatio(part, token); q > best {
				best = q
			}
			continue
		}
		if tokenizer.ContainsThai(part) {
			if sim := thaiCharSimilarity(part, token); sim > compoundThaiSimilarityMin && sim > best {
				best = sim
			}
		}
	}
	if best == 0 {
		return termMatch{}, false
	}
	if best < compoundQualityFloor {
		best = compoundQualityFloor
	}
	return termMatch{tier: tierCompound, quality: best}, true
}

// thaiCharSimilarity is edit-distance similarity over variant-stripped forms.
func thaiCharSimilarity(a, b string) float64 {
	return editSimilarity(tokenizer.StripThaiVariants(a), tokenizer.StripThaiVariants(b))
}

// editSimilarity is 1 - levenshtein/maxLen, in [0,1].
func editSimilarity(a, b string) float64 {
	la, lb := runeLen(a), runeLen(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

func lengthRatio(a, b string) float64 {
	la, lb := runeLen(a), runeLen(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb)
}

func runeLen(s string) int {
	return len([]rune(s))
}

// levenshtein computes edit distance over runes with a two-row matrix.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
