package detection

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/inkstone/panelscan/internal/ocr"
)

// Script-aware confidence thresholds. Recognition engines systematically
// report lower confidence for Hangul/Kana/CJK than for Latin, so a uniform
// bar would discard valid short CJK tokens while admitting Latin noise.
const (
	cjkConfidenceThreshold   = 0.2
	latinConfidenceThreshold = 0.3
)

// FilterTokens drops noise tokens. A token survives when its confidence
// strictly exceeds the script-aware threshold for its text, and it either
// exceeds the configured confidence boost (trusted outright) or meets the
// minimum area and trimmed-length requirements.
func FilterTokens(tokens []ocr.Token, cfg Config) []ocr.Token {
	kept := make([]ocr.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Confidence <= confidenceThreshold(t.Text) {
			continue
		}
		if t.Confidence > cfg.ConfidenceBoost {
			kept = append(kept, t)
			continue
		}
		if float64(t.Area()) < cfg.MinTokenArea {
			continue
		}
		trimmed := strings.TrimSpace(t.Text)
		if utf8.RuneCountInString(trimmed) < cfg.MinTokenTextLen {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// confidenceThreshold picks the minimum confidence for a token's text.
func confidenceThreshold(text string) float64 {
	if containsCJKScript(text) {
		return cjkConfidenceThreshold
	}
	return latinConfidenceThreshold
}

// containsCJKScript reports whether the text contains Hangul (including
// Jamo), Kana, or CJK-unified characters.
func containsCJKScript(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) ||
			unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) ||
			unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
