// Package transcript parses free-form chat transcript exports into
// timestamped, attributed message records.
package transcript

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is a single normalized chat message.
type Record struct {
	// Timestamp is the message time. Time-only formats are anchored to the
	// parser's default date; no timezone is implied.
	Timestamp time.Time `json:"timestamp"`

	// Author is the normalized author identifier (lowercase, dot-joined).
	Author string `json:"author"`

	// Body is the message text. For multiline transcripts this is the
	// space-joined concatenation of the body lines.
	Body string `json:"body"`
}

// MaxFailedSamples caps how many failing lines are retained per parse.
const MaxFailedSamples = 10

// Stats accumulates per-parse counters. Every input line lands in exactly
// one bucket, so TotalLines always equals the sum of the others.
type Stats struct {
	TotalLines       int `json:"total_lines"`
	Parsed           int `json:"parsed"`
	SkippedEmpty     int `json:"skipped_empty"`
	SkippedSystem    int `json:"skipped_system"`
	SkippedFieldLike int `json:"skipped_field_like"`
	ParseErrors      int `json:"parse_errors"`

	// FailedSamples holds up to MaxFailedSamples verbatim lines that
	// matched no grammar, for diagnostics.
	FailedSamples []string `json:"failed_samples,omitempty"`

	// StructuredSuspected is set when the sniffer classified the input as
	// structured data rather than a transcript.
	StructuredSuspected bool `json:"structured_suspected,omitempty"`
}

func (s *Stats) recordFailure(line string) {
	s.ParseErrors++
	if len(s.FailedSamples) < MaxFailedSamples {
		s.FailedSamples = append(s.FailedSamples, line)
	}
}

// Sentinel errors distinguishing the two total-failure modes.
var (
	// ErrStructuredData means the input was classified as JSON or similar
	// structured data, not a chat transcript.
	ErrStructuredData = errors.New("input is structured data, not a chat transcript")

	// ErrNoMessages means line-by-line dispatch ran but produced no records.
	ErrNoMessages = errors.New("no messages could be parsed")
)

// exampleFormats is shown in parse failures so users can fix their export.
var exampleFormats = []string{
	"2025-03-15T14:23:00Z author: message",
	"[3/15/2025 2:23 PM] author: message",
	"author [14:23]: message",
	"14:23 author: message",
	"2025-03-15 14:23 author: message",
	"Display Name: message",
	"Display Name  10:23 AM   (message on the following lines)",
}

// ParseError is returned when a parse produces zero records. It carries the
// stats snapshot so callers can report what went wrong.
type ParseError struct {
	Reason error
	Stats  Stats
}

func (e *ParseError) Error() string {
	var b strings.Builder

	if errors.Is(e.Reason, ErrStructuredData) {
		b.WriteString("input looks like JSON or structured data, not a chat transcript\n")
		b.WriteString("export the channel as plain text and try again")
		return b.String()
	}

	fmt.Fprintf(&b, "no messages could be parsed: %d lines (empty: %d, system: %d, field-like: %d, errors: %d)",
		e.Stats.TotalLines,
		e.Stats.SkippedEmpty,
		e.Stats.SkippedSystem,
		e.Stats.SkippedFieldLike,
		e.Stats.ParseErrors)

	if e.Stats.StructuredSuspected {
		b.WriteString("\nnote: many lines look like structured data fields rather than messages")
	}

	if len(e.Stats.FailedSamples) > 0 {
		b.WriteString("\nlines that failed to parse:")
		for i, sample := range e.Stats.FailedSamples {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "\n  %q", sample)
		}
	}

	b.WriteString("\naccepted formats include:")
	for _, ex := range exampleFormats {
		fmt.Fprintf(&b, "\n  %s", ex)
	}

	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

func newParseError(reason error, stats Stats) *ParseError {
	return &ParseError{Reason: reason, Stats: stats}
}
