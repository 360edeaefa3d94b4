package types

import "time"

// TimestampLayout is the wire format for crystal timestamps.
const TimestampLayout = "2006-01-02T15:04:05Z07:00"

// Crystal represents a persisted artifact record
type Crystal struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	SpecVersion  string `json:"spec_version"`
	CreatedAt    string `json:"created_at"` // ISO-8601, UTC
	AutoDetected bool   `json:"auto_detected"`
	Content      string `json:"content"`
}

// Validate checks record invariants before persistence
func (c *Crystal) Validate() error {
	if c.ID == "" {
		return ErrInvalidID
	}

	if c.Content == "" {
		return ErrEmptyContent
	}

	if _, err := time.Parse(TimestampLayout, c.CreatedAt); err != nil {
		return ErrInvalidTimestamp
	}

	return nil
}

// CrystalSummary is the enumeration view of a stored crystal.
// A record that fails to parse is still summarized, with ParseError set
// and Title carrying a sentinel marker, so corruption never hides a file.
type CrystalSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	SpecVersion string `json:"spec_version,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	ParseError  string `json:"parse_error,omitempty"`
}
