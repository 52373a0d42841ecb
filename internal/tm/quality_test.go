package tm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityFor_Buckets(t *testing.T) {
	tests := []struct {
		score float64
		label string
		color string
	}{
		{1.0, "Perfect Match", "green"},
		{0.95, "Perfect Match", "green"},
		{0.94, "Excellent", "blue"},
		{0.85, "Excellent", "blue"},
		{0.80, "Good", "yellow"},
		{0.75, "Good", "yellow"},
		{0.60, "Fair", "orange"},
		{0.45, "Partial", "red"},
		{0.40, "Partial", "red"},
		{0.25, "Weak", "gray"},
		{0.10, "No Match", "gray"},
		{0.0, "No Match", "gray"},
	}
	for _, tt := range tests {
		got := QualityFor(tt.score)
		assert.Equal(t, tt.label, got.Label, "score %v", tt.score)
		assert.Equal(t, tt.color, got.Color, "score %v", tt.score)
		assert.Equal(t, tt.score, got.Score)
	}
}

func TestQualityFor_HexRendering(t *testing.T) {
	got := QualityFor(0.97)
	assert.True(t, strings.HasPrefix(got.Hex, "#"))
	assert.Len(t, got.Hex, 7)
}
