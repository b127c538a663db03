package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	if cfg.Channel.Year < 0 {
		return fmt.Errorf("channel: invalid year %d", cfg.Channel.Year)
	}
	if cfg.Channel.Year == 0 {
		cfg.Channel.Year = DefaultYear
	}

	if cfg.Preferences.TopContributors < 0 {
		return errors.New("preferences: top_contributors must be >= 0")
	}
	if cfg.Preferences.TopContributors == 0 {
		cfg.Preferences.TopContributors = DefaultTopContributors
	}
	if cfg.Preferences.TopWords < 0 {
		return errors.New("preferences: top_words must be >= 0")
	}
	if cfg.Preferences.TopWords == 0 {
		cfg.Preferences.TopWords = DefaultTopWords
	}

	for i := range cfg.Teams {
		if cfg.Teams[i].Name == "" {
			return fmt.Errorf("teams[%d]: name is required", i)
		}
	}

	seen := make(map[string]int, len(cfg.UserMappings))
	for i := range cfg.UserMappings {
		m := &cfg.UserMappings[i]
		if m.Username == "" {
			return fmt.Errorf("user_mappings[%d]: username is required", i)
		}
		if prev, dup := seen[m.Username]; dup {
			return fmt.Errorf("user_mappings[%d]: username %q already mapped at index %d", i, m.Username, prev)
		}
		seen[m.Username] = i
		if m.Team != "" && !cfg.hasTeam(m.Team) {
			return fmt.Errorf("user_mappings[%d] (%s): unknown team %q", i, m.Username, m.Team)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func (c *Config) hasTeam(name string) bool {
	for _, t := range c.Teams {
		if t.Name == name {
			return true
		}
	}
	return false
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	// Validate trigger if specified
	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
			// Valid
		default:
			return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
		}
	} else {
		// Default to on_issues
		wh.Trigger = WebhookTriggerOnIssues
	}

	// Default timeout
	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
