// Package ocr wraps the Tesseract engine (via gosseract/v2) behind a registry
// of script-specific recognition engines.
//
// A Registry owns one default engine, initialized by walking a priority list
// of language combinations, plus a lazily built cache of specialized engines
// keyed by their sorted script set. Engine construction validates the
// requested languages against the installed Tesseract inventory and is
// guarded by a lock; reads of an already-cached engine take the cheap path.
//
// Recognition is word-level: each call produces raw Tokens (bounding box,
// text, confidence in [0,1]) with no filtering applied. RecognizeBest runs
// several engines over the same image and keeps the token set with the
// highest mean confidence, which compensates for Tesseract models being
// tuned per script.
//
// # Prerequisites
//
// Tesseract must be installed on the system together with the language data
// for every script group you want to recognize:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-kor
//     tesseract-ocr-jpn tesseract-ocr-chi-sim tesseract-ocr-vie
//   - macOS: brew install tesseract tesseract-lang
//
// Missing languages are not fatal: combinations that cannot be satisfied are
// skipped and the priority list falls back to the next entry.
//
// # Concurrency
//
// A gosseract client is created per call and closed on return, so engines
// hold no per-call state. Registry methods are safe for concurrent use.
package ocr
