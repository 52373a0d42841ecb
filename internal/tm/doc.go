// Package tm scores recognized text against a corpus of historical
// (source, target) translation pairs.
//
// Similarity is a hybrid metric: both strings are normalized (case-folded,
// whitespace-collapsed, punctuation stripped with CJK ranges preserved), then
// a longest-common-subsequence ratio is blended with a word-overlap bonus.
// MatchCorpus ranks every corpus entry against a query and QualityFor maps
// scores onto human-readable buckets with UI color tags.
//
// The corpus itself is owned by the persistence collaborator: this package
// only consumes read-only snapshots and, through CorpusProvider, signals
// usage increments for entries the caller actually reused.
package tm
