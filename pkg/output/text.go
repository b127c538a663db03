package output

import (
	"context"
	"fmt"
	"io"

	"github.com/dshalom/chatwrapped/pkg/stats"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "chatwrapped: %d messages from %d lines, %d skipped, %d errors\n",
		report.Summary.Messages,
		report.Summary.TotalLines,
		report.Summary.Skipped,
		report.Summary.ParseErrors)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	title := "Transcript Report"
	if report.Metadata.Channel != "" {
		title = fmt.Sprintf("Transcript Report: #%s", report.Metadata.Channel)
	}
	fmt.Fprintf(w, "=== %s ===\n\n", title)

	if report.Channel != nil {
		f.formatChannel(report.Channel, w)
	}

	if len(report.Contributors) > 0 {
		fmt.Fprintln(w, "Top contributors:")
		for i, c := range report.Contributors {
			name := c.DisplayName
			if c.Team != "" {
				name = fmt.Sprintf("%s (%s)", name, c.Team)
			}
			fmt.Fprintf(w, "  %d. %s: %d messages (%.1f%%)\n",
				i+1, name, c.MessageCount, c.ContributionPercent)
			if f.opts.Verbose && len(c.FavoriteWords) > 0 {
				fmt.Fprintf(w, "     favorite words: %s\n", joinWords(c.FavoriteWords))
			}
		}
		fmt.Fprintln(w)
	}

	if len(report.Teams) > 0 {
		fmt.Fprintln(w, "Teams:")
		for _, t := range report.Teams {
			fmt.Fprintf(w, "  %s: %d messages across %d members (%.1f each)\n",
				t.Name, t.Messages, t.Members, t.AveragePerPerson)
		}
		fmt.Fprintln(w)
	}

	if len(report.TopWords) > 0 {
		fmt.Fprintf(w, "Top words: %s\n", joinWords(report.TopWords))
	}
	if len(report.TopEmoji) > 0 {
		fmt.Fprintf(w, "Top emoji: %s\n", joinWords(report.TopEmoji))
	}
	if len(report.TopWords) > 0 || len(report.TopEmoji) > 0 {
		fmt.Fprintln(w)
	}

	if f.opts.Verbose && len(report.Records) > 0 {
		fmt.Fprintln(w, "Messages:")
		for _, r := range report.Records {
			fmt.Fprintf(w, "  [%s] %s: %s\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.Author, r.Body)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d messages from %d lines, %d skipped, %d parse errors\n",
		report.Summary.Messages,
		report.Summary.TotalLines,
		report.Summary.Skipped,
		report.Summary.ParseErrors)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatChannel(cs *stats.ChannelStats, w io.Writer) {
	fmt.Fprintf(w, "Messages: %d  Words: %d  Contributors: %d  Active days: %d\n",
		cs.TotalMessages, cs.TotalWords, cs.TotalContributors, cs.ActiveDays)
	if cs.PeakDay != "" {
		fmt.Fprintf(w, "Peak: %s at %02d:00", cs.PeakDay, cs.PeakHour)
		if cs.MostActiveDate != "" {
			fmt.Fprintf(w, ", busiest date %s", cs.MostActiveDate)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func joinWords(words []stats.WordCount) string {
	s := ""
	for i, wc := range words {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s (%d)", wc.Word, wc.Count)
	}
	return s
}
