package stats

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dshalom/chatwrapped/pkg/transcript"
)

// wordPattern matches alphabetic tokens of three or more letters.
var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// emojiPattern covers the common emoji blocks: emoticons, symbols and
// pictographs, transport, flags, and the supplemental ranges.
var emojiPattern = regexp.MustCompile(`[` +
	`\x{1F600}-\x{1F64F}` +
	`\x{1F300}-\x{1F5FF}` +
	`\x{1F680}-\x{1F6FF}` +
	`\x{1F1E6}-\x{1F1FF}` +
	`\x{2600}-\x{27BF}` +
	`\x{1F900}-\x{1F9FF}` +
	`\x{1FA00}-\x{1FAFF}` +
	`]+`)

// stopWords excludes common English filler from word rankings.
var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		the a an and or but in on at to for of with by from as into through
		during before after above below up down out off over under
		is was are were been be have has had do does did will would could
		should may might must shall can need dare ought used
		it its this that these those i you he she we they me him her us them
		my your his our their mine yours hers ours theirs
		what which who whom when where why how all each every both few more
		most other some such
		no nor not only own same so than too very just also now here there
		then if because about again further once
		yeah yes ok okay hi hey hello thanks thank please sorry got get
		going go know like think see look make want give take`) {
		stopWords[w] = true
	}
}

// TopWords returns the n most frequent words across all records, excluding
// stop words. Ties break alphabetically.
func (a *Analyzer) TopWords(n int) []WordCount {
	return topWords(a.records, n)
}

// TopEmoji returns the n most frequent emoji across all records.
func (a *Analyzer) TopEmoji(n int) []WordCount {
	counts := make(map[string]int)
	for _, r := range a.records {
		for _, cluster := range emojiPattern.FindAllString(r.Body, -1) {
			for _, e := range cluster {
				counts[string(e)]++
			}
		}
	}
	return topCounts(counts, n)
}

// LongestMessage returns the record with the most words, or false when
// there are no records. The earliest such record wins a tie.
func (a *Analyzer) LongestMessage() (transcript.Record, bool) {
	if len(a.records) == 0 {
		return transcript.Record{}, false
	}
	best, bestWords := 0, len(strings.Fields(a.records[0].Body))
	for i, r := range a.records[1:] {
		if w := len(strings.Fields(r.Body)); w > bestWords {
			best, bestWords = i+1, w
		}
	}
	return a.records[best], true
}

func topWords(records []transcript.Record, n int) []WordCount {
	counts := make(map[string]int)
	for _, r := range records {
		for _, tok := range wordPattern.FindAllString(strings.ToLower(r.Body), -1) {
			if !stopWords[tok] {
				counts[tok]++
			}
		}
	}
	return topCounts(counts, n)
}

func topCounts(counts map[string]int, n int) []WordCount {
	if len(counts) == 0 || n <= 0 {
		return nil
	}
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
