package matcher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/MRIIOT/crystal-mcp-server-public/pkg/types"
)

const (
	// Threshold is the minimum normalized score for a definite match.
	// Comparison is inclusive: a score of exactly 0.3 counts.
	Threshold = 0.3

	// MaxSuggestions caps the suggestion list returned with a result
	MaxSuggestions = 5

	// Scoring weights
	exactWeight      = 1.0
	partialWeight    = 0.7
	versionWeight    = 0.8
	vocabularyWeight = 0.5
)

// Class describes a candidate document class: its file extension and
// the scoring vocabulary that applies to it
type Class struct {
	Name string

	// Extension is the fixed filename extension, dot included.
	Extension string

	// Vocabulary terms add a bonus when a query token equals the term
	// and the candidate name contains it. Empty for the spec class.
	Vocabulary []string

	// Filler is a term stripped from suggestion text and reinserted
	// after the leading part. Empty for classes without one.
	Filler string
}

// SpecClass matches protocol specification documents. No vocabulary
// bonus; suggestions carry the "protocol" filler term.
var SpecClass = Class{
	Name:      "spec",
	Extension: ".txt",
	Filler:    "protocol",
}

// CodexClass matches codex documents, with the domain vocabulary bonus
var CodexClass = Class{
	Name:      "codex",
	Extension: ".cp",
	Vocabulary: []string{
		"mechanism",
		"awareness",
		"agent",
		"transmission",
		"protocol",
		"probability",
		"pattern",
	},
}

// versionPattern extracts numeric-with-optional-decimal substrings
var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// separators maps filename separator characters to spaces before
// whitespace tokenization
var separators = strings.NewReplacer("_", " ", ".", " ", "-", " ")

// Match scores every candidate against the query and returns the top
// candidate when it clears the threshold. Suggestions are derived from
// the candidate set alone and are present even on a definite match.
// Candidate order is preserved among equal scores.
func Match(query string, candidates []string, class Class) types.MatchResult {
	result := types.MatchResult{
		Suggestions: Suggestions(candidates, class),
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || len(candidates) == 0 {
		return result
	}

	type scoredCandidate struct {
		name  string
		score float64
	}

	ranked := make([]scoredCandidate, len(candidates))
	for i, name := range candidates {
		ranked[i] = scoredCandidate{
			name:  name,
			score: Score(queryTokens, name, class),
		}
	}

	// Stable: ties keep directory-listing order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	result.Score = ranked[0].score
	if ranked[0].score >= Threshold {
		result.Match = ranked[0].name
		result.Matched = true
	}

	return result
}

// Score computes the normalized relevance of a single candidate for an
// already-tokenized query. Exposed for tests and diagnostics.
func Score(queryTokens []string, candidate string, class Class) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	candidateTokens := tokenize(candidate)
	candidateName := strings.ToLower(candidate)

	total := 0.0

	// Term overlap. A query token may contribute against several
	// candidate tokens; the accumulation is intentionally uncapped and
	// favors candidates with verbose, repetitive naming.
	for _, qt := range queryTokens {
		for _, ct := range candidateTokens {
			switch {
			case qt == ct:
				total += exactWeight
			case strings.Contains(ct, qt), strings.Contains(qt, ct):
				total += partialWeight
			}
		}
	}

	// Version overlap, independent of word overlap
	for _, qv := range extractVersions(queryTokens) {
		for _, cv := range extractVersions(candidateTokens) {
			if qv == cv {
				total += versionWeight
			}
		}
	}

	// Vocabulary bonus (codex class only)
	for _, qt := range queryTokens {
		for _, term := range class.Vocabulary {
			if qt == term && strings.Contains(candidateName, term) {
				total += vocabularyWeight
			}
		}
	}

	return total / float64(len(queryTokens))
}

// Suggestions builds human-readable query hints from the candidate set,
// independent of any query. Directory order, capped at MaxSuggestions.
func Suggestions(candidates []string, class Class) []string {
	limit := len(candidates)
	if limit > MaxSuggestions {
		limit = MaxSuggestions
	}

	suggestions := make([]string, 0, limit)
	for _, name := range candidates[:limit] {
		suggestions = append(suggestions, class.suggestion(name))
	}

	return suggestions
}

// suggestion renders one candidate filename as query-shaped text
func (c Class) suggestion(name string) string {
	base := strings.TrimSuffix(name, c.Extension)
	parts := tokenize(base)

	if c.Filler != "" {
		kept := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != c.Filler {
				kept = append(kept, p)
			}
		}
		// Reinsert the filler between the leading part and the rest so
		// the hint reads as a natural query for this class.
		if len(kept) > 0 {
			parts = append([]string{kept[0], c.Filler}, kept[1:]...)
		}
	}

	return strings.Join(parts, " ")
}

// tokenize lower-cases, maps separator characters to spaces, and splits
// on whitespace. Applied identically to queries and candidate names.
func tokenize(s string) []string {
	return strings.Fields(separators.Replace(strings.ToLower(strings.TrimSpace(s))))
}

// extractVersions pulls version-shaped substrings out of a token stream
func extractVersions(tokens []string) []string {
	var versions []string
	for _, tok := range tokens {
		versions = append(versions, versionPattern.FindAllString(tok, -1)...)
	}
	return versions
}
