// Package script classifies the dominant writing system of a string from
// Unicode character-class statistics. Han characters are ambiguous between
// Chinese and Japanese and plain Latin is ambiguous between English and
// Vietnamese, so the raw counts go through explicit disambiguation steps.
package script

import (
	"math"
	"unicode"
)

// Script codes returned by Detect.
const (
	Korean     = "ko"
	Japanese   = "ja"
	Chinese    = "zh"
	Vietnamese = "vi"
	English    = "en"
	Unknown    = "unknown"
)

// Result is the detected dominant script and the share of characters that
// supported it.
type Result struct {
	Script     string  `json:"script"`
	Confidence float64 `json:"confidence"`
}

// minDominantShare is the floor below which no script wins and the sample is
// classified Unknown.
const minDominantShare = 0.1

// kanaDisambiguationShare is the kana share above which Han characters score
// toward Japanese instead of Chinese.
const kanaDisambiguationShare = 0.1

// chinesePenalty scales the Chinese score down when the sample is
// kana-leaning.
const chinesePenalty = 0.3

// vietnameseShare is the diacritic share above which Latin letters score
// toward Vietnamese instead of English.
const vietnameseShare = 0.05

// vietnameseDiacritics is the curated set of Latin characters specific to
// Vietnamese orthography (lowercase; input is folded before lookup).
var vietnameseDiacritics = func() map[rune]bool {
	const chars = "àáảãạăằắẳẵặâầấẩẫậđèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵ"
	set := make(map[rune]bool, len(chars))
	for _, r := range chars {
		set[r] = true
	}
	return set
}()

// charClass is one row of the table-driven classifier.
type charClass struct {
	name   string
	member func(r rune) bool
}

const (
	classHangul   = "hangul"
	classHiragana = "hiragana"
	classKatakana = "katakana"
	classHan      = "han"
	classCJKPunct = "cjk_punct"
	classViet     = "viet"
	classLatin    = "latin"
)

// classes is evaluated in order; the first matching class claims the rune.
var classes = []charClass{
	{classHangul, func(r rune) bool { return unicode.Is(unicode.Hangul, r) }},
	{classHiragana, func(r rune) bool { return unicode.Is(unicode.Hiragana, r) }},
	{classKatakana, func(r rune) bool { return unicode.Is(unicode.Katakana, r) }},
	{classHan, func(r rune) bool { return unicode.Is(unicode.Han, r) }},
	{classCJKPunct, isCJKPunct},
	{classViet, func(r rune) bool { return vietnameseDiacritics[unicode.ToLower(r)] }},
	{classLatin, isPlainLatin},
}

// Detect classifies the dominant script of the text. The winner is the
// script with the highest share of non-space characters; below
// minDominantShare the result is Unknown with zero confidence.
func Detect(text string) Result {
	counts := make(map[string]int, len(classes))
	total := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		for _, c := range classes {
			if c.member(r) {
				counts[c.name]++
				break
			}
		}
	}
	if total == 0 {
		return Result{Script: Unknown, Confidence: 0}
	}

	share := func(n int) float64 { return float64(n) / float64(total) }
	kana := counts[classHiragana] + counts[classKatakana]
	han := counts[classHan]

	scores := map[string]float64{
		Korean: share(counts[classHangul]),
	}

	// Han is shared between Japanese Kanji and Chinese. A kana presence above
	// the threshold marks the sample Japanese-leaning: kanji score toward
	// Japanese and the Chinese score is penalized.
	if share(kana) > kanaDisambiguationShare {
		scores[Japanese] = share(kana + han)
		scores[Chinese] = share(han) * chinesePenalty
	} else {
		scores[Japanese] = share(kana)
		scores[Chinese] = share(han)
	}

	// Latin is shared between English and Vietnamese. Enough Vietnamese
	// diacritics pull the plain Latin letters along with them.
	if share(counts[classViet]) > vietnameseShare {
		scores[Vietnamese] = share(counts[classViet] + counts[classLatin])
		scores[English] = 0
	} else {
		scores[Vietnamese] = share(counts[classViet])
		scores[English] = share(counts[classLatin])
	}

	best := Unknown
	bestScore := 0.0
	for _, code := range []string{Korean, Japanese, Chinese, Vietnamese, English} {
		if scores[code] > bestScore {
			best = code
			bestScore = scores[code]
		}
	}
	if bestScore < minDominantShare {
		return Result{Script: Unknown, Confidence: 0}
	}
	return Result{Script: best, Confidence: math.Min(bestScore, 1.0)}
}

// isCJKPunct covers CJK symbols/punctuation and the fullwidth forms commonly
// produced by Japanese and Chinese recognition.
func isCJKPunct(r rune) bool {
	return (r >= 0x3000 && r <= 0x303F) || (r >= 0xFF01 && r <= 0xFF60)
}

// isPlainLatin matches ASCII letters only; diacritic Latin is claimed by the
// Vietnamese class first.
func isPlainLatin(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
