package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone/panelscan/internal/detection"
	"github.com/inkstone/panelscan/internal/imaging"
	"github.com/inkstone/panelscan/internal/ocr"
	"github.com/inkstone/panelscan/internal/tm"
)

func testPayload(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 320))
	for y := 0; y < 320; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	payload, err := imaging.EncodePNG(img)
	require.NoError(t, err)
	return payload
}

func newTestService(t *testing.T, invoke ocr.InvokeFunc) *Service {
	t.Helper()
	reg, err := ocr.NewRegistry(ocr.RegistryOptions{
		Priority:  [][]string{{"eng"}},
		Available: func() ([]string, error) { return []string{"eng", "kor"}, nil },
		Invoke:    invoke,
	})
	require.NoError(t, err)

	svc, err := New(Options{Registry: reg, PoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func fixedTokens(tokens []ocr.Token) ocr.InvokeFunc {
	return func(image []byte, languages []string) ([]ocr.Token, error) {
		return tokens, nil
	}
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry is required")
}

func TestDetectRegions_Success(t *testing.T) {
	svc := newTestService(t, fixedTokens([]ocr.Token{
		{X: 10, Y: 10, Width: 50, Height: 20, Text: "Hello", Confidence: 0.9},
		{X: 65, Y: 12, Width: 40, Height: 18, Text: "World", Confidence: 0.85},
	}))

	res := svc.DetectRegions(testPayload(t), "")
	require.True(t, res.Success, "error: %s", res.Error)
	require.Len(t, res.Regions, 1)

	region := res.Regions[0]
	assert.Equal(t, "Hello World", region.Text)
	assert.Equal(t, 10, region.X)
	assert.Equal(t, 10, region.Y)
	assert.Equal(t, 95, region.Width)
	assert.Equal(t, 20, region.Height)
	assert.InDelta(t, 0.875, region.Confidence, 1e-9)
	assert.Equal(t, "en", res.DetectedScript)
}

func TestDetectRegions_LowConfidenceTokensDropped(t *testing.T) {
	svc := newTestService(t, fixedTokens([]ocr.Token{
		{X: 10, Y: 10, Width: 50, Height: 20, Text: "keep", Confidence: 0.9},
		{X: 10, Y: 100, Width: 50, Height: 20, Text: "noise", Confidence: 0.1},
	}))

	res := svc.DetectRegions(testPayload(t), "")
	require.True(t, res.Success)
	require.Len(t, res.Regions, 1)
	assert.Equal(t, "keep", res.Regions[0].Text)
}

func TestDetectRegions_MalformedPayload(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	res := svc.DetectRegions([]byte("not an image"), "")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.NotNil(t, res.Regions)
	assert.Empty(t, res.Regions)
	assert.Equal(t, "unknown", res.DetectedScript)
}

func TestDetectRegions_AllEnginesFail(t *testing.T) {
	svc := newTestService(t, func(image []byte, languages []string) ([]ocr.Token, error) {
		return nil, fmt.Errorf("engine crashed")
	})

	res := svc.DetectRegions(testPayload(t), "")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Regions)
}

func TestDetectRegions_ScriptHintReachesEngines(t *testing.T) {
	invoked := make(map[string]bool)
	svc := newTestService(t, func(image []byte, languages []string) ([]ocr.Token, error) {
		key := ""
		for i, l := range languages {
			if i > 0 {
				key += "+"
			}
			key += l
		}
		invoked[key] = true
		return []ocr.Token{{X: 0, Y: 0, Width: 30, Height: 20, Text: "x", Confidence: 0.9}}, nil
	})

	res := svc.DetectRegions(testPayload(t), "kor")
	require.True(t, res.Success)
	assert.True(t, invoked["eng+kor"], "hinted engine must run, saw %v", invoked)
}

func TestRecognizeText(t *testing.T) {
	svc := newTestService(t, fixedTokens([]ocr.Token{
		{X: 10, Y: 10, Width: 50, Height: 20, Text: "Hello", Confidence: 0.9},
		{X: 65, Y: 12, Width: 40, Height: 18, Text: "World", Confidence: 0.85},
	}))

	res := svc.RecognizeText(testPayload(t))
	require.True(t, res.Success, "error: %s", res.Error)
	assert.Equal(t, "Hello World", res.Text)
	assert.InDelta(t, 0.875, res.Confidence, 1e-9)
	assert.Equal(t, "en", res.DetectedScript)
}

func TestRecognizeText_DecodeFailure(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	res := svc.RecognizeText([]byte{})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Text)
}

func TestGroupingConfigSurface(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	assert.Equal(t, detection.DefaultConfig(), svc.GroupingConfig())

	p, err := detection.ParsePatch([]byte(`{"max_horizontal_gap_pixels": 40}`))
	require.NoError(t, err)
	updated, err := svc.UpdateGroupingConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.MaxHorizontalGapPixels)
	assert.Equal(t, 40.0, svc.GroupingConfig().MaxHorizontalGapPixels)

	assert.Equal(t, detection.DefaultConfig(), svc.ResetGroupingConfig())
	assert.Equal(t, detection.DefaultConfig(), svc.GroupingConfig())
}

func TestUpdateGroupingConfig_Invalid(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	p, err := detection.ParsePatch([]byte(`{"min_token_area": -5}`))
	require.NoError(t, err)
	_, err = svc.UpdateGroupingConfig(p)
	require.Error(t, err)
	assert.Equal(t, detection.DefaultConfig(), svc.GroupingConfig())
}

func TestScoreAgainstMemory(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	corpus := []tm.Entry{
		{ID: "1", SourceText: "hello world", TargetText: "안녕 세상"},
		{ID: "2", SourceText: "unrelated gibberish zzz"},
	}
	res := svc.ScoreAgainstMemory("hello world", corpus, 0, 0)
	require.NotEmpty(t, res.Matches)
	assert.Equal(t, 1.0, res.BestScore)
	assert.Equal(t, "1", res.Matches[0].Entry.ID)
}

func TestScoreAgainstMemory_EmptyCorpus(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	res := svc.ScoreAgainstMemory("hello", nil, 0, 0)
	assert.Equal(t, 0.0, res.BestScore)
	assert.Empty(t, res.Matches)
}

// fakeProvider serves a fixed corpus keyed by series and records usage
// signals.
type fakeProvider struct {
	corpora map[string][]tm.Entry
	used    []string
}

func (f *fakeProvider) FetchCorpus(ctx context.Context, seriesID string) ([]tm.Entry, error) {
	corpus, ok := f.corpora[seriesID]
	if !ok {
		return nil, fmt.Errorf("series %s not found", seriesID)
	}
	return corpus, nil
}

func (f *fakeProvider) IncrementUsage(ctx context.Context, entryID string) error {
	if entryID == "missing" {
		return fmt.Errorf("tm entry %s not found", entryID)
	}
	f.used = append(f.used, entryID)
	return nil
}

func TestScoreAgainstSeries(t *testing.T) {
	reg, err := ocr.NewRegistry(ocr.RegistryOptions{
		Priority:  [][]string{{"eng"}},
		Available: func() ([]string, error) { return []string{"eng"}, nil },
		Invoke:    fixedTokens(nil),
	})
	require.NoError(t, err)

	provider := &fakeProvider{corpora: map[string][]tm.Entry{
		"series-1": {{ID: "1", SourceText: "hello world", TargetText: "bonjour"}},
	}}
	svc, err := New(Options{Registry: reg, Corpus: provider})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	res, err := svc.ScoreAgainstSeries(context.Background(), "series-1", "hello world", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.BestScore)

	_, err = svc.ScoreAgainstSeries(context.Background(), "missing", "hello", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch corpus")
}

func TestScoreAgainstSeries_NoProvider(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	_, err := svc.ScoreAgainstSeries(context.Background(), "series-1", "hello", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no corpus provider configured")
}

func TestMarkEntryUsed(t *testing.T) {
	reg, err := ocr.NewRegistry(ocr.RegistryOptions{
		Priority:  [][]string{{"eng"}},
		Available: func() ([]string, error) { return []string{"eng"}, nil },
		Invoke:    fixedTokens(nil),
	})
	require.NoError(t, err)

	provider := &fakeProvider{corpora: map[string][]tm.Entry{}}
	svc, err := New(Options{Registry: reg, Corpus: provider})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	require.NoError(t, svc.MarkEntryUsed(context.Background(), "entry-1"))
	assert.Equal(t, []string{"entry-1"}, provider.used)

	err = svc.MarkEntryUsed(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to increment usage")
}

func TestMarkEntryUsed_NoProvider(t *testing.T) {
	svc := newTestService(t, fixedTokens(nil))

	err := svc.MarkEntryUsed(context.Background(), "entry-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no corpus provider configured")
}
