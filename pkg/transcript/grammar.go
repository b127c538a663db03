package transcript

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Grammar names, used in sniffer tallies and trace output.
const (
	GrammarISO         = "iso-8601"
	GrammarUSBracketed = "us-bracketed"
	GrammarAuthorTime  = "author-bracketed-time"
	GrammarTimeFirst   = "time-first"
	GrammarDateSpace   = "date-space"
	GrammarDisplayName = "display-name"
	GrammarBareColon   = "bare-colon"
	GrammarHeader      = "multiline-header"
)

// Candidate is an ephemeral grammar match result. Either When is set, or
// ClockOnly is true and Hour/Minute/Second must be anchored to the parser's
// default date.
type Candidate struct {
	Author string
	Body   string

	When      time.Time
	ClockOnly bool
	Hour      int
	Minute    int
	Second    int
}

// lineGrammar is one entry in the ordered grammar cascade. build returns
// false when the regex matched but the captured timestamp is invalid, in
// which case dispatch falls through to the next grammar.
type lineGrammar struct {
	name    string
	pattern *regexp.Regexp

	// vetoEligible marks the low-confidence "name: message" grammars whose
	// author token must pass the field-name heuristic. Grammars carrying an
	// explicit timestamp are never vetoed.
	vetoEligible bool

	build func(m []string) (Candidate, bool)
}

// grammars is the fixed-priority cascade. First match wins.
var grammars = []lineGrammar{
	{
		name:    GrammarISO,
		pattern: regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T[\d:]+(?:\.\d+)?Z?)\s+(\S+):\s*(.+)$`),
		build: func(m []string) (Candidate, bool) {
			ts, ok := parseISOTimestamp(m[1])
			if !ok {
				return Candidate{}, false
			}
			return Candidate{When: ts, Author: m[2], Body: m[3]}, true
		},
	},
	{
		name:    GrammarUSBracketed,
		pattern: regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}:\d{2}(?::\d{2})?)\s*([AaPp][Mm])\]\s+(\S+):\s*(.+)$`),
		build: func(m []string) (Candidate, bool) {
			ts, ok := parseUSTimestamp(m[1], m[2], m[3])
			if !ok {
				return Candidate{}, false
			}
			return Candidate{When: ts, Author: m[4], Body: m[5]}, true
		},
	},
	{
		name:    GrammarAuthorTime,
		pattern: regexp.MustCompile(`^(\S+)\s+\[(\d{2}):(\d{2})(?::(\d{2}))?\]:\s*(.+)$`),
		build: func(m []string) (Candidate, bool) {
			return Candidate{
				Author:    m[1],
				Body:      m[5],
				ClockOnly: true,
				Hour:      atoi(m[2]),
				Minute:    atoi(m[3]),
				Second:    atoi(m[4]),
			}, true
		},
	},
	{
		name:    GrammarTimeFirst,
		pattern: regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?\s+(\S+):\s*(.+)$`),
		build: func(m []string) (Candidate, bool) {
			return Candidate{
				Author:    m[4],
				Body:      m[5],
				ClockOnly: true,
				Hour:      atoi(m[1]),
				Minute:    atoi(m[2]),
				Second:    atoi(m[3]),
			}, true
		},
	},
	{
		name:    GrammarDateSpace,
		pattern: regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}(?::\d{2})?)\s+(\S+):\s*(.+)$`),
		build: func(m []string) (Candidate, bool) {
			ts, ok := parseDateSpaceTimestamp(m[1])
			if !ok {
				return Candidate{}, false
			}
			return Candidate{When: ts, Author: m[2], Body: m[3]}, true
		},
	},
	{
		name:         GrammarDisplayName,
		pattern:      regexp.MustCompile(`^([A-Z][a-zA-Z'-]*(?:\s+[A-Z][a-zA-Z'-]*)*):\s*(.+)$`),
		vetoEligible: true,
		build: func(m []string) (Candidate, bool) {
			return noTimeCandidate(m[1], m[2]), true
		},
	},
	{
		name:         GrammarBareColon,
		pattern:      regexp.MustCompile(`^([A-Za-z][A-Za-z0-9._-]{2,}):\s*(.+)$`),
		vetoEligible: true,
		build: func(m []string) (Candidate, bool) {
			return noTimeCandidate(m[1], m[2]), true
		},
	},
}

// noTimeCandidate is used by the grammars that carry no time token at all.
// Midday keeps them on the default date without implying a real clock time.
func noTimeCandidate(author, body string) Candidate {
	return Candidate{Author: author, Body: body, ClockOnly: true, Hour: 12}
}

func (g *lineGrammar) match(line string) (Candidate, bool) {
	m := g.pattern.FindStringSubmatch(line)
	if m == nil {
		return Candidate{}, false
	}
	return g.build(m)
}

// matchLine runs the grammar cascade in priority order against one line.
func matchLine(line string) (Candidate, *lineGrammar, bool) {
	for i := range grammars {
		g := &grammars[i]
		if c, ok := g.match(line); ok {
			return c, g, true
		}
	}
	return Candidate{}, nil, false
}

func parseISOTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSuffix(s, "Z")
	ts, err := time.Parse("2006-01-02T15:04:05.999999999", s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func parseUSTimestamp(date, clock, meridiem string) (time.Time, bool) {
	s := date + " " + clock + " " + strings.ToUpper(meridiem)
	for _, layout := range []string{"1/2/2006 3:04:05 PM", "1/2/2006 3:04 PM"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseDateSpaceTimestamp(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// atoi converts a captured digit group, treating an absent group as zero.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
