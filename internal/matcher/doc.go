// Package matcher scores free-text queries against candidate document
// filenames and picks the best match above a fixed threshold.
//
// The scoring is a deliberate hand-rolled heuristic, not a principled
// ranking algorithm: term overlap accumulates uncapped across token
// pairs, version strings contribute independently of word overlap, and
// codex-class documents get a small bonus for domain vocabulary terms.
// The arithmetic is load-bearing — downstream match scenarios depend on
// its exact behavior, so do not "clean it up."
//
// # Basic Usage
//
//	result := matcher.Match("temporal 3.0", names, matcher.CodexClass)
//	if result.Matched {
//	    fmt.Println(result.Match, result.Score)
//	} else {
//	    fmt.Println("try one of:", result.Suggestions)
//	}
//
// Matching is a pure function of (query, candidate list, class): no
// I/O, no randomness, no cached state between calls. Ties in score keep
// the caller's candidate order.
package matcher
