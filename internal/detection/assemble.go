package detection

import (
	"math"
	"strings"

	"github.com/inkstone/panelscan/internal/ocr"
)

// Separator thresholds, relative to the average height of the previous pair.
// Spacing scales with glyph size, so the em-height is the reference unit.
const (
	lineBreakGapRatio   = 0.30
	sameLineCenterRatio = 0.15
	spaceGapRatio       = 0.15
	minVerticalGapRatio = 0.05
)

// Region is the merged, human-meaningful text unit formed from one or more
// grouped tokens: the union bounding box, reading-order text, and the mean
// member confidence.
type Region struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// AssembleRegions merges every group into a region.
func AssembleRegions(groups [][]ocr.Token) []Region {
	regions := make([]Region, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		regions = append(regions, AssembleRegion(g))
	}
	return regions
}

// AssembleRegion merges one group. A single-token group maps to the token
// verbatim; multi-token groups get the coordinate-wise min/max bounding box,
// the arithmetic-mean confidence, and text joined in reading order.
func AssembleRegion(group []ocr.Token) Region {
	if len(group) == 1 {
		t := group[0]
		return Region{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height, Text: t.Text, Confidence: t.Confidence}
	}

	sorted := SortTokens(group)

	minX, minY := sorted[0].X, sorted[0].Y
	maxX, maxY := sorted[0].X+sorted[0].Width, sorted[0].Y+sorted[0].Height
	sum := 0.0
	for _, t := range sorted {
		minX = min(minX, t.X)
		minY = min(minY, t.Y)
		maxX = max(maxX, t.X+t.Width)
		maxY = max(maxY, t.Y+t.Height)
		sum += t.Confidence
	}

	return Region{
		X:          minX,
		Y:          minY,
		Width:      maxX - minX,
		Height:     maxY - minY,
		Text:       JoinTokens(sorted),
		Confidence: sum / float64(len(sorted)),
	}
}

// JoinTokens concatenates tokens in reading order, inferring the separator
// between each consecutive pair from that pair's geometry. The input must
// already be sorted; callers with unsorted tokens go through SortTokens.
func JoinTokens(sorted []ocr.Token) string {
	var b strings.Builder
	for i, t := range sorted {
		if i > 0 {
			b.WriteString(separator(sorted[i-1], t))
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// separator decides what goes between the previous token and the next one.
// Large vertical gaps force a line break. Tokens on the same visual line get
// a space only when the horizontal gap is wide enough to be a word boundary.
// Small-but-real vertical gaps are a stacked line unless the pair also moves
// horizontally, which reads as a wrapped word boundary.
func separator(prev, next ocr.Token) string {
	avgHeight := float64(prev.Height+next.Height) / 2
	vGap := float64(next.Y - (prev.Y + prev.Height))
	hGap := float64(next.X - (prev.X + prev.Width))

	if vGap > avgHeight*lineBreakGapRatio {
		return "\n"
	}
	if math.Abs(centerY(prev)-centerY(next)) <= avgHeight*sameLineCenterRatio {
		if hGap > avgHeight*spaceGapRatio {
			return " "
		}
		return ""
	}
	if vGap > avgHeight*minVerticalGapRatio {
		if hGap > 0 {
			return " "
		}
		return "\n"
	}
	if hGap > 0 {
		return " "
	}
	return ""
}
