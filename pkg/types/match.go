package types

// MatchResult represents the outcome of a fuzzy query against a
// candidate document set
type MatchResult struct {
	// Match is the winning candidate filename. Empty when no candidate
	// reached the threshold; Score still reports the top value.
	Match string

	// Matched reports whether Match is set.
	Matched bool

	// Score is the normalized score of the top candidate (0 for an
	// empty query or empty candidate set).
	Score float64

	// Suggestions are human-readable query hints derived from the
	// candidate set, in directory order, capped by the matcher.
	Suggestions []string
}
