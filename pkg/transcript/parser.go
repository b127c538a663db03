package transcript

import (
	"strings"
	"time"
)

// DefaultYear anchors time-only grammars when no year is configured.
const DefaultYear = 2025

// TraceFunc receives per-line trace events when configured. Absence of a
// sink means zero overhead; tracing never changes results.
type TraceFunc func(format string, args ...any)

// Parser converts raw transcript text into ordered message records. It is
// stateless between calls and safe to share across goroutines parsing
// independent transcripts.
type Parser struct {
	defaultDate time.Time
	trace       TraceFunc
}

// Option configures the Parser.
type Option func(*Parser)

// WithDefaultYear anchors time-only formats to January 1 of the given year.
func WithDefaultYear(year int) Option {
	return func(p *Parser) {
		if year > 0 {
			p.defaultDate = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
	}
}

// WithDefaultDate anchors time-only formats to the given calendar date.
func WithDefaultDate(date time.Time) Option {
	return func(p *Parser) {
		if !date.IsZero() {
			p.defaultDate = date
		}
	}
}

// WithTrace installs a diagnostic sink for per-line trace events.
func WithTrace(fn TraceFunc) Option {
	return func(p *Parser) {
		p.trace = fn
	}
}

// NewParser creates a parser. With no options, time-only formats anchor to
// January 1 of DefaultYear.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		defaultDate: time.Date(DefaultYear, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) tracef(format string, args ...any) {
	if p.trace != nil {
		p.trace(format, args...)
	}
}

// Parse converts raw transcript text into ordered records plus a stats
// snapshot. If no records can be produced the error is a *ParseError
// wrapping ErrStructuredData or ErrNoMessages; a parse never returns an
// empty success.
func (p *Parser) Parse(text string) ([]Record, Stats, error) {
	var stats Stats

	lines := strings.Split(strings.TrimSpace(text), "\n")
	stats.TotalLines = len(lines)

	sniff := Sniff(text)
	p.tracef("sniff: decision=%s dominant=%q sampled=%d structured=%d",
		sniff.Decision, sniff.DominantGrammar, sniff.SampledLines, sniff.StructuredLines)

	if sniff.Decision == DecisionStructuredData {
		stats.StructuredSuspected = true
		return nil, stats, newParseError(ErrStructuredData, stats)
	}

	// Multiline mode is strict: only headers, bodies, and blanks are
	// expected. Fallback mode still claims header lines for reconstruction
	// but routes everything else through the grammar cascade.
	var records []Record
	r := &reconstructor{
		parser:   p,
		stats:    &stats,
		out:      &records,
		fallback: sniff.Decision != DecisionMultiline,
	}
	r.run(lines)

	if len(records) == 0 {
		return nil, stats, newParseError(ErrNoMessages, stats)
	}

	return records, stats, nil
}

// parseLine dispatches a single non-empty line through the grammar cascade.
func (p *Parser) parseLine(i int, line string, stats *Stats, out *[]Record) {
	cand, g, ok := matchLine(line)
	if !ok {
		p.tracef("line %d: no grammar matched %q", i, line)
		stats.recordFailure(line)
		return
	}

	// A vetoed line is consumed, not retried under a lower grammar.
	if g.vetoEligible && LooksLikeFieldName(cand.Author) {
		p.tracef("line %d: %s vetoed field-like author %q", i, g.name, cand.Author)
		stats.SkippedFieldLike++
		return
	}

	rec := p.finalize(cand)
	if IsSystemNotice(rec.Body) {
		p.tracef("line %d: system notice from %q", i, rec.Author)
		stats.SkippedSystem++
		return
	}

	p.tracef("line %d: %s author=%s", i, g.name, rec.Author)
	*out = append(*out, rec)
	stats.Parsed++
}

// finalize turns a grammar candidate into a Record, anchoring clock-only
// candidates to the default date and normalizing the author.
func (p *Parser) finalize(c Candidate) Record {
	ts := c.When
	if c.ClockOnly {
		ts = p.anchorClock(c.Hour, c.Minute, c.Second)
	}
	return Record{
		Timestamp: ts,
		Author:    NormalizeAuthor(c.Author),
		Body:      c.Body,
	}
}

// anchorClock places an hour/minute/second reading on the default date.
// Out-of-range components fall back to midday rather than failing the line.
func (p *Parser) anchorClock(hour, minute, second int) time.Time {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		hour, minute, second = 12, 0, 0
	}
	d := p.defaultDate
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, second, 0, time.UTC)
}
