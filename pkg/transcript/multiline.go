package transcript

import (
	"regexp"
	"strings"
)

// headerPattern matches a multiline header: an author display name, at least
// two spaces, then a clock time with optional meridiem and nothing else.
// Example: "David Shalom  10:23 AM"
var headerPattern = regexp.MustCompile(
	`^([A-Z][\w'.-]*(?:\s[A-Z][\w'.-]*)*)\s{2,}(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s?([AaPp])[Mm])?$`)

// reconstructor merges header lines with their following body lines into
// single records. In fallback mode, lines outside an open record are handed
// to the single-line grammar cascade instead of being treated as errors.
type reconstructor struct {
	parser   *Parser
	stats    *Stats
	out      *[]Record
	fallback bool

	open    bool
	author  string
	hour    int
	minute  int
	second  int
	body    []string
	pending int // physical lines contributing to the open record
}

func (r *reconstructor) run(lines []string) {
	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if line == "" {
			// A blank line closes an open record; with nothing
			// accumulated yet it changes nothing.
			if r.open && len(r.body) > 0 {
				r.flush()
			}
			r.stats.SkippedEmpty++
			continue
		}

		if m := headerPattern.FindStringSubmatch(line); m != nil {
			r.flush()
			r.openHeader(m)
			continue
		}

		if r.open {
			// In fallback mode a line that stands on its own as a
			// message ends the open record instead of joining its body.
			if r.fallback {
				if _, _, ok := matchLine(line); ok {
					r.flush()
					r.parser.parseLine(i, line, r.stats, r.out)
					continue
				}
			}
			r.body = append(r.body, line)
			r.pending++
			continue
		}

		if r.fallback {
			r.parser.parseLine(i, line, r.stats, r.out)
			continue
		}

		r.parser.tracef("multiline: unclaimed line %q", line)
		r.stats.recordFailure(line)
	}

	r.flush()
}

func (r *reconstructor) openHeader(m []string) {
	r.open = true
	r.author = m[1]
	r.hour = meridiemHour(atoi(m[2]), m[5])
	r.minute = atoi(m[3])
	r.second = atoi(m[4])
	r.body = nil
	r.pending = 1
}

// flush emits the open record, if any. A header that never accumulated a
// body is dropped; its line is accounted as empty so every line still lands
// in exactly one stats bucket.
func (r *reconstructor) flush() {
	if !r.open {
		return
	}
	r.open = false

	if len(r.body) == 0 {
		r.parser.tracef("multiline: dropping bodyless header for %q", r.author)
		r.stats.SkippedEmpty++
		return
	}

	text := strings.Join(r.body, " ")
	if IsSystemNotice(text) {
		r.stats.SkippedSystem += r.pending
		return
	}

	*r.out = append(*r.out, Record{
		Timestamp: r.parser.anchorClock(r.hour, r.minute, r.second),
		Author:    NormalizeAuthor(r.author),
		Body:      text,
	})
	r.stats.Parsed += r.pending
}

// meridiemHour converts a 12-hour clock reading to 24-hour. An empty
// meridiem leaves the hour untouched.
func meridiemHour(hour int, meridiem string) int {
	switch strings.ToUpper(meridiem) {
	case "P":
		if hour != 12 {
			hour += 12
		}
	case "A":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}
