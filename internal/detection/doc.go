// Package detection turns raw recognition tokens into coherent text regions.
//
// The pipeline has three stages:
//
//  1. FilterTokens drops noise using script-aware confidence thresholds.
//     Non-Latin scripts systematically score lower confidence from the
//     engines, so Hangul/Kana/CJK text is accepted at a lower bar than Latin.
//  2. GroupTokens partitions the survivors into connected groups using
//     proximity rules tuned for comic and panel layouts: hard pixel caps
//     first, then box overlap, same-line, vertical-stack and nearby patterns.
//     Expansion is a worklist BFS, so chains of close tokens merge even when
//     the endpoints are far apart.
//  3. AssembleRegion merges each group into one union bounding box with
//     reading-order text. Separator inference is asymmetric on purpose:
//     vertically stacked manga text with small gaps must not collapse into
//     run-on words.
//
// All numeric parameters live in Config. They are empirically tuned defaults,
// exposed through Store as a runtime-configurable surface rather than
// compile-time constants.
package detection
