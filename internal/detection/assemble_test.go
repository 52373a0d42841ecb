package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone/panelscan/internal/ocr"
)

func TestAssembleRegion_UnionBoxAndMeanConfidence(t *testing.T) {
	group := []ocr.Token{
		{X: 10, Y: 10, Width: 50, Height: 20, Text: "Hello", Confidence: 0.9},
		{X: 65, Y: 12, Width: 40, Height: 18, Text: "World", Confidence: 0.85},
	}

	region := AssembleRegion(group)
	assert.Equal(t, 10, region.X)
	assert.Equal(t, 10, region.Y)
	assert.Equal(t, 95, region.Width)
	assert.Equal(t, 20, region.Height)
	assert.Equal(t, "Hello World", region.Text)
	assert.InDelta(t, 0.875, region.Confidence, 1e-9)
}

func TestAssembleRegion_BoxContainsAllMembers(t *testing.T) {
	group := []ocr.Token{
		{X: 30, Y: 50, Width: 20, Height: 10, Text: "b"},
		{X: 5, Y: 48, Width: 20, Height: 10, Text: "a"},
		{X: 60, Y: 52, Width: 20, Height: 12, Text: "c"},
	}

	region := AssembleRegion(group)
	for _, tok := range group {
		assert.LessOrEqual(t, region.X, tok.X)
		assert.LessOrEqual(t, region.Y, tok.Y)
		assert.GreaterOrEqual(t, region.X+region.Width, tok.X+tok.Width)
		assert.GreaterOrEqual(t, region.Y+region.Height, tok.Y+tok.Height)
	}
}

func TestAssembleRegion_SingleTokenVerbatim(t *testing.T) {
	region := AssembleRegion([]ocr.Token{
		{X: 3, Y: 4, Width: 5, Height: 6, Text: "solo", Confidence: 0.42},
	})
	assert.Equal(t, Region{X: 3, Y: 4, Width: 5, Height: 6, Text: "solo", Confidence: 0.42}, region)
}

func TestAssembleRegions_SkipsEmptyGroups(t *testing.T) {
	groups := [][]ocr.Token{
		{{X: 1, Y: 1, Width: 10, Height: 10, Text: "a"}},
		{},
	}
	regions := AssembleRegions(groups)
	require.Len(t, regions, 1)
	assert.Equal(t, "a", regions[0].Text)
}

func TestJoinTokens_Separators(t *testing.T) {
	tests := []struct {
		name string
		toks []ocr.Token
		want string
	}{
		{
			name: "same line wide gap gets a space",
			toks: []ocr.Token{
				{X: 10, Y: 10, Width: 50, Height: 20, Text: "Hello"},
				{X: 65, Y: 12, Width: 40, Height: 18, Text: "World"},
			},
			want: "Hello World",
		},
		{
			name: "adjacent glyphs on one line join bare",
			toks: []ocr.Token{
				{X: 10, Y: 10, Width: 20, Height: 20, Text: "で"},
				{X: 30, Y: 10, Width: 20, Height: 20, Text: "す"},
			},
			want: "です",
		},
		{
			name: "large vertical gap breaks the line",
			toks: []ocr.Token{
				{X: 10, Y: 10, Width: 50, Height: 20, Text: "first"},
				{X: 10, Y: 40, Width: 50, Height: 20, Text: "second"},
			},
			want: "first\nsecond",
		},
		{
			name: "tightly stacked lines break",
			toks: []ocr.Token{
				{X: 10, Y: 10, Width: 40, Height: 12, Text: "upper"},
				{X: 10, Y: 23, Width: 40, Height: 12, Text: "lower"},
			},
			want: "upper\nlower",
		},
		{
			name: "small vertical drift with horizontal motion is a word boundary",
			toks: []ocr.Token{
				{X: 10, Y: 10, Width: 40, Height: 12, Text: "wraps"},
				{X: 55, Y: 23, Width: 40, Height: 12, Text: "over"},
			},
			want: "wraps over",
		},
		{
			name: "single token",
			toks: []ocr.Token{{X: 0, Y: 0, Width: 10, Height: 10, Text: "one"}},
			want: "one",
		},
		{
			name: "empty",
			toks: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinTokens(tt.toks))
		})
	}
}
