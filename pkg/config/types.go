// Package config provides configuration loading and validation for
// chatwrapped.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Channel      ChannelConfig   `yaml:"channel"`
	Teams        []TeamConfig    `yaml:"teams,omitempty"`
	UserMappings []UserMapping   `yaml:"user_mappings,omitempty"`
	Preferences  Preferences     `yaml:"preferences,omitempty"`
	Webhooks     []WebhookConfig `yaml:"webhooks,omitempty"`
}

// ChannelConfig describes the channel the transcripts came from.
type ChannelConfig struct {
	// Name appears in report metadata.
	Name string `yaml:"name"`

	// Year anchors transcript formats that carry only a clock time.
	Year int `yaml:"year,omitempty"`

	Description string `yaml:"description,omitempty"`
}

// TeamConfig groups usernames under a team name.
type TeamConfig struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members,omitempty"`
}

// UserMapping maps a normalized username to a display name and team.
type UserMapping struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name,omitempty"`
	Team        string `yaml:"team,omitempty"`
}

// Preferences tunes report generation.
type Preferences struct {
	// TopContributors is how many contributors the report ranks.
	TopContributors int `yaml:"top_contributors,omitempty"`

	// TopWords is how many entries the word frequency section lists.
	TopWords int `yaml:"top_words,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when the parse reported skips or
	// errors (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DisplayName returns the configured display name for a username, or the
// username itself when no mapping exists.
func (c *Config) DisplayName(username string) string {
	for _, m := range c.UserMappings {
		if m.Username == username && m.DisplayName != "" {
			return m.DisplayName
		}
	}
	return username
}

// Team returns the team for a username. User mappings take precedence over
// team member rosters.
func (c *Config) Team(username string) string {
	for _, m := range c.UserMappings {
		if m.Username == username && m.Team != "" {
			return m.Team
		}
	}
	for _, t := range c.Teams {
		for _, member := range t.Members {
			if member == username {
				return t.Name
			}
		}
	}
	return ""
}
