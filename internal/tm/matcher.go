package tm

import (
	"sort"
	"strings"
)

// Matching defaults, applied when the caller passes non-positive values.
const (
	DefaultThreshold = 0.3
	DefaultTopK      = 5
)

// Entry is one historical translation pair. Entries are owned by the
// persistence collaborator and read-only here, apart from usage-count
// increments requested through a CorpusProvider.
type Entry struct {
	ID         string `json:"id"`
	SourceText string `json:"source_text"`
	TargetText string `json:"target_text"`
	Context    string `json:"context,omitempty"`
	UsageCount int    `json:"usage_count"`
}

// Match pairs an entry with its similarity score for one query.
type Match struct {
	Entry Entry   `json:"tm_entry"`
	Score float64 `json:"similarity_score"`
}

// MatchResult is the ranked outcome of one query. An empty corpus or an
// empty candidate set is not an error: BestScore is 0 and Matches is empty.
type MatchResult struct {
	BestScore float64 `json:"best_score"`
	Matches   []Match `json:"matches"`
}

// MatchCorpus scores the query against every corpus entry with non-empty
// source text, keeps candidates at or above the threshold, and returns the
// top K sorted descending by score. Non-positive threshold or topK select
// the defaults.
func MatchCorpus(query string, corpus []Entry, threshold float64, topK int) MatchResult {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	matches := make([]Match, 0, len(corpus))
	for _, entry := range corpus {
		if strings.TrimSpace(entry.SourceText) == "" {
			continue
		}
		score := Similarity(query, entry.SourceText)
		if score >= threshold {
			matches = append(matches, Match{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	best := 0.0
	if len(matches) > 0 {
		best = matches[0].Score
	}
	return MatchResult{BestScore: best, Matches: matches}
}
