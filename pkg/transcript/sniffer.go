package transcript

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Decision is the sniffer's whole-input verdict.
type Decision int

const (
	// DecisionLineByLine means no special handling: try every grammar per
	// line, in priority order.
	DecisionLineByLine Decision = iota

	// DecisionMultiline means the transcript uses header-on-its-own-line
	// formatting and should go through the multiline reconstructor.
	DecisionMultiline

	// DecisionStructuredData means the input is JSON or similar structured
	// data and should be rejected outright.
	DecisionStructuredData
)

func (d Decision) String() string {
	switch d {
	case DecisionMultiline:
		return "multiline"
	case DecisionStructuredData:
		return "structured-data"
	default:
		return "line-by-line"
	}
}

// MarshalJSON encodes the decision as its string form.
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Sniffing thresholds.
const (
	// SniffSampleSize is how many non-empty lines are examined.
	SniffSampleSize = 50

	// structuredPercentThreshold rejects input when more than this
	// percentage of sampled lines look like structured-data syntax.
	structuredPercentThreshold = 30

	// dominantMinCount is the minimum tally before a grammar family is
	// declared dominant.
	dominantMinCount = 2
)

// GrammarTally counts sampled lines matched by one grammar family.
type GrammarTally struct {
	Grammar string `json:"grammar"`
	Count   int    `json:"count"`
	Sample  string `json:"sample"`
}

// SniffResult is the outcome of format sniffing. Sniffing never fails: when
// nothing dominates, the decision degrades to line-by-line dispatch.
type SniffResult struct {
	Decision        Decision       `json:"decision"`
	DominantGrammar string         `json:"dominant_grammar,omitempty"`
	Tallies         []GrammarTally `json:"tallies,omitempty"`
	SampledLines    int            `json:"sampled_lines"`
	StructuredLines int            `json:"structured_lines"`
}

var (
	// Bracket/brace punctuation on a line of its own, as found in
	// pretty-printed JSON.
	structuralLineRe = regexp.MustCompile(`^[{}\[\],]+$`)

	// "key": value
	quotedKeyRe = regexp.MustCompile(`^"[^"]+"\s*:`)
)

// Sniff inspects the input shape and picks the parsing strategy.
func Sniff(text string) SniffResult {
	res := SniffResult{Decision: DecisionLineByLine}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return res
	}

	// A whole-input JSON document is never a transcript.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if json.Valid([]byte(trimmed)) {
			res.Decision = DecisionStructuredData
			return res
		}
	}

	counts := make(map[string]int)
	samples := make(map[string]string)

	for _, raw := range strings.Split(trimmed, "\n") {
		if res.SampledLines >= SniffSampleSize {
			break
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		res.SampledLines++

		if structuralLineRe.MatchString(line) || quotedKeyRe.MatchString(line) {
			res.StructuredLines++
		}

		if headerPattern.MatchString(line) {
			counts[GrammarHeader]++
			if samples[GrammarHeader] == "" {
				samples[GrammarHeader] = line
			}
		}

		cand, g, ok := matchLine(line)
		if !ok {
			continue
		}
		// Field-like tokens must not vote for the bare grammars, or a
		// pasted export would elect bare-colon as the dominant format.
		if g.vetoEligible && LooksLikeFieldName(cand.Author) {
			continue
		}
		counts[g.name]++
		if samples[g.name] == "" {
			samples[g.name] = line
		}
	}

	if res.SampledLines > 0 &&
		res.StructuredLines*100 > res.SampledLines*structuredPercentThreshold {
		res.Decision = DecisionStructuredData
		return res
	}

	for name, count := range counts {
		res.Tallies = append(res.Tallies, GrammarTally{
			Grammar: name,
			Count:   count,
			Sample:  samples[name],
		})
	}
	sort.Slice(res.Tallies, func(i, j int) bool {
		if res.Tallies[i].Count != res.Tallies[j].Count {
			return res.Tallies[i].Count > res.Tallies[j].Count
		}
		return res.Tallies[i].Grammar < res.Tallies[j].Grammar
	})

	if len(res.Tallies) > 0 && res.Tallies[0].Count > dominantMinCount {
		res.DominantGrammar = res.Tallies[0].Grammar
		if res.DominantGrammar == GrammarHeader {
			res.Decision = DecisionMultiline
		}
	}

	return res
}
