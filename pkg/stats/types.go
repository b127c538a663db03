// Package stats aggregates parsed transcript records into channel,
// contributor, and word statistics.
package stats

// ChannelStats summarizes activity across the whole channel.
type ChannelStats struct {
	TotalMessages     int `json:"total_messages"`
	TotalWords        int `json:"total_words"`
	TotalContributors int `json:"total_contributors"`
	ActiveDays        int `json:"active_days"`

	MessagesByUser      map[string]int `json:"messages_by_user,omitempty"`
	MessagesByQuarter   map[string]int `json:"messages_by_quarter,omitempty"`
	MessagesByDayOfWeek map[string]int `json:"messages_by_day_of_week,omitempty"`

	// PeakHour is the hour of day (0-23) with the most messages.
	PeakHour int `json:"peak_hour"`

	// PeakDay is the weekday name with the most messages.
	PeakDay string `json:"peak_day,omitempty"`

	// AverageMessageLength is the mean word count per message.
	AverageMessageLength float64 `json:"average_message_length"`

	// MostActiveDate is the busiest calendar date in YYYY-MM-DD form.
	MostActiveDate string `json:"most_active_date,omitempty"`
}

// ContributorStats summarizes one contributor's activity.
type ContributorStats struct {
	Username             string      `json:"username"`
	DisplayName          string      `json:"display_name"`
	Team                 string      `json:"team,omitempty"`
	MessageCount         int         `json:"message_count"`
	WordCount            int         `json:"word_count"`
	ContributionPercent  float64     `json:"contribution_percent"`
	AverageMessageLength float64     `json:"average_message_length"`
	FavoriteWords        []WordCount `json:"favorite_words,omitempty"`
}

// TeamStats summarizes one team's activity.
type TeamStats struct {
	Name                string  `json:"name"`
	Messages            int     `json:"messages"`
	Members             int     `json:"members"`
	AveragePerPerson    float64 `json:"avg_per_person"`
	Words               int     `json:"words"`
	TopContributor      string  `json:"top_contributor,omitempty"`
	TopContributorCount int     `json:"top_contributor_count,omitempty"`
}

// WordCount is a word (or emoji) and its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}
