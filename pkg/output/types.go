// Package output provides formatting and output generation for transcript
// reports.
package output

import (
	"time"

	"github.com/dshalom/chatwrapped/pkg/stats"
	"github.com/dshalom/chatwrapped/pkg/transcript"
)

// Report is the complete output of a transcript run.
type Report struct {
	// Summary provides aggregate parse statistics.
	Summary Summary `json:"summary"`

	// Records holds the parsed messages. Populated by the parse command,
	// omitted by stats.
	Records []transcript.Record `json:"records,omitempty"`

	// Channel holds channel-wide statistics when aggregation ran.
	Channel *stats.ChannelStats `json:"channel,omitempty"`

	// Contributors ranks the top contributors.
	Contributors []stats.ContributorStats `json:"contributors,omitempty"`

	// Teams holds per-team aggregates when a config defines teams.
	Teams []stats.TeamStats `json:"teams,omitempty"`

	// TopWords and TopEmoji hold frequency rankings.
	TopWords []stats.WordCount `json:"top_words,omitempty"`
	TopEmoji []stats.WordCount `json:"top_emoji,omitempty"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate parse statistics.
type Summary struct {
	// Messages is the number of records produced.
	Messages int `json:"messages"`

	// TotalLines is the number of physical input lines.
	TotalLines int `json:"total_lines"`

	// Skipped is the number of lines dropped as empty, system notices,
	// or field-like.
	Skipped int `json:"skipped"`

	// ParseErrors is the number of lines no grammar matched.
	ParseErrors int `json:"parse_errors"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Channel is the configured channel name, if any.
	Channel string `json:"channel,omitempty"`

	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the transcript files that were parsed.
	Sources []string `json:"sources,omitempty"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewSummary builds a Summary from parse statistics.
func NewSummary(s transcript.Stats, messages int) Summary {
	return Summary{
		Messages:    messages,
		TotalLines:  s.TotalLines,
		Skipped:     s.SkippedEmpty + s.SkippedSystem + s.SkippedFieldLike,
		ParseErrors: s.ParseErrors,
	}
}

// HasIssues returns true if any lines were skipped or failed to parse.
func (r *Report) HasIssues() bool {
	return r.Summary.Skipped > 0 || r.Summary.ParseErrors > 0
}
