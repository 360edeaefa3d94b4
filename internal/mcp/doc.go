// Package mcp implements the Model Context Protocol surface of the
// Crystal server: server wiring, tool schemas, and tool handlers.
//
// Five tools are exposed over stdio:
//
//   - import_protocol: fuzzy-import a protocol specification document
//   - import_codex: fuzzy-import a codex document (vocabulary-boosted)
//   - export_crystal: persist content as a new immutable crystal
//   - import_crystal: retrieve a crystal by exact ID
//   - list_crystals: enumerate stored crystals
//
// Error policy: recoverable conditions (no match, unknown ID, no
// content available, malformed records) are converted into descriptive
// JSON tool results at the handler boundary, always with enough context
// for the caller to retry — a no-match carries suggestions, an unknown
// ID carries the real ID list. Only path-containment violations and
// unexpected I/O failures abort a call with a protocol error.
package mcp
