// Package server hosts the recognition pipeline as an MCP (Model Context
// Protocol) server over stdio.
//
// The protocol is JSON-RPC 2.0, one request per line on stdin, one response
// per line on stdout. Logging goes to stderr so the protocol stream stays
// clean. Supported methods: initialize, tools/list, tools/call, ping.
//
// Exposed tools:
//
//   - detect_text_regions: full pipeline over a base64 image
//   - recognize_text: filtered text extraction without grouping
//   - get_grouping_config / set_grouping_config / reset_grouping_config
//   - score_against_memory: rank a text against a TM corpus snapshot
//   - increment_usage: signal that a stored TM entry was reused
//   - quality_label: bucket a similarity score for UI display
//
// Tool execution failures come back as JSON-RPC errors with code -32000;
// pipeline-level failures (bad image, all engines down) come back as
// successful tool results carrying success=false, because the pipeline is
// one stage of a larger best-effort flow and callers fall back rather than
// abort.
package server
