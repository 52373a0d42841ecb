package tm

import (
	"strings"
	"unicode"
)

// Blend weights for the hybrid similarity score.
const (
	sequenceWeight = 0.8
	overlapWeight  = 0.2
)

// Similarity returns a [0,1] score for two strings. Normalized-identical
// strings score exactly 1.0; otherwise the score blends a longest-common-
// subsequence ratio with a word-overlap bonus, clamped to 1.0. The metric is
// symmetric.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	score := sequenceWeight*sequenceRatio(na, nb) + overlapWeight*wordOverlap(na, nb)
	if score > 1.0 {
		return 1.0
	}
	return score
}

// Normalize lowercases, collapses whitespace, and strips punctuation while
// preserving Hangul (including Jamo), Kana, and CJK-unified characters.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case preservedRange(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// preservedRange keeps the CJK ranges that must survive punctuation
// stripping regardless of their Unicode general category.
func preservedRange(r rune) bool {
	return unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Han, r)
}

// sequenceRatio is 2*LCS(a,b) / (len(a)+len(b)) over runes, in [0,1].
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	return 2.0 * float64(lcsLength(ra, rb)) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest-common-subsequence length with a
// two-row dynamic program.
func lcsLength(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// wordOverlap is the Jaccard index over whitespace-split word sets.
func wordOverlap(a, b string) float64 {
	wa := strings.Fields(a)
	wb := strings.Fields(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 0.0
	}
	set := make(map[string]bool, len(wa))
	for _, w := range wa {
		set[w] = true
	}
	union := make(map[string]bool, len(wa)+len(wb))
	for _, w := range wa {
		union[w] = true
	}
	intersection := 0
	for _, w := range wb {
		if union[w] {
			if set[w] {
				intersection++
				set[w] = false
			}
		} else {
			union[w] = true
		}
	}
	return float64(intersection) / float64(len(union))
}
