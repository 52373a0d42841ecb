package tm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCorpus_RankedDescending(t *testing.T) {
	corpus := []Entry{
		{ID: "1", SourceText: "completely unrelated content"},
		{ID: "2", SourceText: "hello world"},
		{ID: "3", SourceText: "hello world!"},
		{ID: "4", SourceText: "hello there world"},
	}

	result := MatchCorpus("hello world", corpus, 0.3, 5)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, result.Matches[0].Score, result.BestScore)
	assert.Equal(t, 1.0, result.BestScore, "normalized-identical entries score a perfect match")
	for i := 1; i < len(result.Matches); i++ {
		assert.GreaterOrEqual(t, result.Matches[i-1].Score, result.Matches[i].Score)
	}
}

func TestMatchCorpus_ThresholdFilters(t *testing.T) {
	corpus := []Entry{
		{ID: "1", SourceText: "hello world"},
		{ID: "2", SourceText: "zzz qqq xxx"},
	}

	result := MatchCorpus("hello world", corpus, 0.9, 5)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "1", result.Matches[0].Entry.ID)
}

func TestMatchCorpus_TopKTruncates(t *testing.T) {
	corpus := []Entry{
		{ID: "1", SourceText: "hello world"},
		{ID: "2", SourceText: "hello world"},
		{ID: "3", SourceText: "hello world"},
	}

	result := MatchCorpus("hello world", corpus, 0.3, 2)
	assert.Len(t, result.Matches, 2)
	// Equal scores keep corpus order.
	assert.Equal(t, "1", result.Matches[0].Entry.ID)
	assert.Equal(t, "2", result.Matches[1].Entry.ID)
}

func TestMatchCorpus_EmptySourcesSkipped(t *testing.T) {
	corpus := []Entry{
		{ID: "1", SourceText: ""},
		{ID: "2", SourceText: "   "},
		{ID: "3", SourceText: "hello"},
	}

	result := MatchCorpus("hello", corpus, 0.3, 5)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "3", result.Matches[0].Entry.ID)
}

func TestMatchCorpus_EmptyCorpus(t *testing.T) {
	result := MatchCorpus("hello", nil, 0.3, 5)
	assert.Equal(t, 0.0, result.BestScore)
	assert.Empty(t, result.Matches)
	assert.NotNil(t, result.Matches)
}

func TestMatchCorpus_DefaultsApplied(t *testing.T) {
	corpus := []Entry{
		{ID: "1", SourceText: "hello world"},
		{ID: "2", SourceText: "hello world"},
		{ID: "3", SourceText: "hello world"},
		{ID: "4", SourceText: "hello world"},
		{ID: "5", SourceText: "hello world"},
		{ID: "6", SourceText: "hello world"},
	}

	// Non-positive threshold and topK select 0.3 and 5.
	result := MatchCorpus("hello world", corpus, 0, 0)
	assert.Len(t, result.Matches, DefaultTopK)
}
