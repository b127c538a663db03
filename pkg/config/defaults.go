package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultWebhookTimeout  = 10 * time.Second
	DefaultTopContributors = 10
	DefaultTopWords        = 20
	DefaultYear            = 2025
)

// Environment variable names.
const (
	EnvChannelName = "CHATWRAPPED_CHANNEL_NAME"
	EnvDefaultYear = "CHATWRAPPED_DEFAULT_YEAR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Channel: ChannelConfig{
			Year: DefaultYear,
		},
		Preferences: Preferences{
			TopContributors: DefaultTopContributors,
			TopWords:        DefaultTopWords,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if name := os.Getenv(EnvChannelName); name != "" {
		c.Channel.Name = name
	}
	if year := os.Getenv(EnvDefaultYear); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			c.Channel.Year = y
		}
	}
}
