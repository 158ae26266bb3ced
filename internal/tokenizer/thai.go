package tokenizer

import "strings"

// ThaiDensityThreshold is the fraction of Thai codepoints above which a
// string is delegated to the external word segmenter.
const ThaiDensityThreshold = 0.10

// IsThaiRune reports whether r falls in the Thai Unicode block (U+0E00–U+0E7F).
func IsThaiRune(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

// ContainsThai reports whether s contains at least one Thai codepoint.
func ContainsThai(s string) bool {
	for _, r := range s {
		if IsThaiRune(r) {
			return true
		}
	}
	return false
}

// ThaiDensity returns the fraction of non-space runes in the Thai block.
func ThaiDensity(s string) float64 {
	var thai, total int
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		total++
		if IsThaiRune(r) {
			thai++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(thai) / float64(total)
}

// IsThaiDense reports whether s exceeds the segmentation density threshold.
func IsThaiDense(s string) bool {
	return ThaiDensity(s) > ThaiDensityThreshold
}

// isThaiMark reports whether r is a Thai tone mark or an above/below vowel
// sign. These are the characters most often dropped or varied in informal
// Thai text, so fuzzy comparison ignores them.
func isThaiMark(r rune) bool {
	switch {
	case r == 0x0E31: // MAI HAN-AKAT
		return true
	case r >= 0x0E34 && r <= 0x0E3A: // SARA I..PHINTHU (above/below vowels)
		return true
	case r >= 0x0E47 && r <= 0x0E4E: // MAITAIKHU, tone marks, THANTHAKHAT, NIKHAHIT, YAMAKKAN
		return true
	}
	return false
}

// StripThaiVariants removes tone marks, above/below vowel signs, and spaces,
// producing the canonical form used for tone/vowel/space-insensitive
// comparison of Thai terms.
func StripThaiVariants(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || isThaiMark(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
