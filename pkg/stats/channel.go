package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dshalom/chatwrapped/pkg/config"
	"github.com/dshalom/chatwrapped/pkg/transcript"
)

var quarterNames = []string{"Q1", "Q2", "Q3", "Q4"}

var dayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Analyzer computes statistics over a set of parsed records.
type Analyzer struct {
	records []transcript.Record
	cfg     *config.Config
	topN    int
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithConfig supplies user mappings and teams for display names.
func WithConfig(cfg *config.Config) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithTopN limits contributor rankings to the top n entries.
func WithTopN(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topN = n
		}
	}
}

// NewAnalyzer creates an analyzer over the given records.
func NewAnalyzer(records []transcript.Record, opts ...Option) *Analyzer {
	a := &Analyzer{
		records: records,
		topN:    config.DefaultTopContributors,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Channel calculates channel-wide statistics.
func (a *Analyzer) Channel() ChannelStats {
	if len(a.records) == 0 {
		return ChannelStats{}
	}

	cs := ChannelStats{
		TotalMessages:       len(a.records),
		MessagesByUser:      make(map[string]int),
		MessagesByQuarter:   map[string]int{"Q1": 0, "Q2": 0, "Q3": 0, "Q4": 0},
		MessagesByDayOfWeek: make(map[string]int, len(dayNames)),
	}
	for _, d := range dayNames {
		cs.MessagesByDayOfWeek[d] = 0
	}

	hourCounts := make(map[int]int)
	dateCounts := make(map[string]int)

	for _, r := range a.records {
		cs.TotalWords += len(strings.Fields(r.Body))
		cs.MessagesByUser[r.Author]++
		cs.MessagesByQuarter[quarterOf(r.Timestamp)]++
		cs.MessagesByDayOfWeek[r.Timestamp.Weekday().String()]++
		hourCounts[r.Timestamp.Hour()]++
		dateCounts[r.Timestamp.Format("2006-01-02")]++
	}

	cs.TotalContributors = len(cs.MessagesByUser)
	cs.ActiveDays = len(dateCounts)
	cs.AverageMessageLength = round2(float64(cs.TotalWords) / float64(cs.TotalMessages))

	// Ties resolve to the earliest hour, the first day in week order, and
	// the earliest date, so results are stable across runs.
	peakHour, best := 0, -1
	for h := 0; h < 24; h++ {
		if hourCounts[h] > best {
			peakHour, best = h, hourCounts[h]
		}
	}
	cs.PeakHour = peakHour

	best = -1
	for _, d := range dayNames {
		if cs.MessagesByDayOfWeek[d] > best {
			cs.PeakDay, best = d, cs.MessagesByDayOfWeek[d]
		}
	}

	dates := make([]string, 0, len(dateCounts))
	for d := range dateCounts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	best = -1
	for _, d := range dates {
		if dateCounts[d] > best {
			cs.MostActiveDate, best = d, dateCounts[d]
		}
	}

	return cs
}

func quarterOf(t time.Time) string {
	return quarterNames[(int(t.Month())-1)/3]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
