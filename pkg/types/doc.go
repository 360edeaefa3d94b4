// Package types provides shared type definitions for the Crystal MCP server.
//
// This package defines the domain types used across components: crystals
// (persisted artifact records), crystal summaries for enumeration, and
// match results produced by the fuzzy document matcher.
//
// # Core Types
//
// Crystal is the persisted unit. Records are create-only: once written a
// crystal is never mutated, every change is a new crystal with a new ID.
//
//	crystal := &types.Crystal{
//	    ID:          "crystal-0b1f...",
//	    Title:       "Session export",
//	    SpecVersion: "3.0",
//	    Content:     "...",
//	}
//
// MatchResult carries the outcome of a fuzzy query against a document
// class. Score is reported even when no candidate cleared the threshold,
// so callers can surface diagnostics alongside suggestions.
package types
