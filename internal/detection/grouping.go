package detection

import (
	"math"
	"sort"

	"github.com/inkstone/panelscan/internal/ocr"
)

// SortTokens returns a copy of the tokens in reading order: y ascending,
// then x ascending. Grouping and assembly both traverse this order so the
// pipeline is deterministic for identical inputs.
func SortTokens(tokens []ocr.Token) []ocr.Token {
	sorted := make([]ocr.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// GroupTokens partitions tokens into connected groups. Each unvisited token
// seeds a group that absorbs, via a worklist BFS, every token accepted by
// ShouldGroup against any current member. The transitive expansion merges
// chains of nearby tokens even when the endpoints are far apart.
func GroupTokens(tokens []ocr.Token, cfg Config) [][]ocr.Token {
	sorted := SortTokens(tokens)
	visited := make([]bool, len(sorted))

	var groups [][]ocr.Token
	for i := range sorted {
		if visited[i] {
			continue
		}
		visited[i] = true
		group := []ocr.Token{sorted[i]}
		work := []int{i}

		for len(work) > 0 {
			cur := work[0]
			work = work[1:]
			for j := range sorted {
				if visited[j] {
					continue
				}
				if ShouldGroup(sorted[cur], sorted[j], cfg) {
					visited[j] = true
					group = append(group, sorted[j])
					work = append(work, j)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// ShouldGroup is the pairwise grouping predicate. Rules are evaluated in
// order: hard gap rejection, box overlap, same line, vertical stack, nearby.
func ShouldGroup(a, b ocr.Token, cfg Config) bool {
	hGap := horizontalGap(a, b)
	vGap := verticalGap(a, b)

	avgWidth := float64(a.Width+b.Width) / 2
	avgHeight := float64(a.Height+b.Height) / 2
	minWidth := math.Min(float64(a.Width), float64(b.Width))
	minHeight := math.Min(float64(a.Height), float64(b.Height))

	// Hard rejection: distant tokens never merge, whatever the other rules say.
	if hGap > math.Min(avgWidth*cfg.MaxHorizontalGapMultiplier, cfg.MaxHorizontalGapPixels) {
		return false
	}
	if vGap > math.Min(avgHeight*cfg.MaxVerticalGapMultiplier, cfg.MaxVerticalGapPixels) {
		return false
	}

	if overlaps(a, b) {
		return true
	}

	hCenterDist := math.Abs(centerX(a) - centerX(b))
	vCenterDist := math.Abs(centerY(a) - centerY(b))

	// Same line: near-equal vertical centers, bounded horizontal gap.
	if vCenterDist <= minHeight*cfg.SameLineVerticalThreshold &&
		hGap <= minWidth*cfg.SameLineHorizontalGapMultiplier {
		return true
	}

	// Vertical stack: near-equal horizontal centers, bounded vertical gap.
	if hCenterDist <= minWidth*cfg.VerticalStackHorizontalThreshold &&
		vGap <= minHeight*cfg.VerticalStackGapMultiplier {
		return true
	}

	// Nearby: both centers close and both gaps small.
	if vCenterDist <= minHeight*cfg.NearbyVerticalThreshold &&
		hCenterDist <= minWidth*cfg.NearbyHorizontalThreshold &&
		vGap <= minHeight*cfg.NearbyGapMultiplier &&
		hGap <= minWidth*cfg.NearbyGapMultiplier {
		return true
	}

	return false
}

// horizontalGap is the edge-to-edge horizontal distance, 0 when the boxes
// overlap on the x axis.
func horizontalGap(a, b ocr.Token) float64 {
	gap := math.Max(float64(b.X-(a.X+a.Width)), float64(a.X-(b.X+b.Width)))
	return math.Max(gap, 0)
}

// verticalGap is the edge-to-edge vertical distance, 0 when the boxes
// overlap on the y axis.
func verticalGap(a, b ocr.Token) float64 {
	gap := math.Max(float64(b.Y-(a.Y+a.Height)), float64(a.Y-(b.Y+b.Height)))
	return math.Max(gap, 0)
}

// overlaps reports whether two boxes overlap on both axes.
func overlaps(a, b ocr.Token) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func centerX(t ocr.Token) float64 { return float64(t.X) + float64(t.Width)/2 }
func centerY(t ocr.Token) float64 { return float64(t.Y) + float64(t.Height)/2 }
