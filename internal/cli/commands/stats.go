package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshalom/chatwrapped/pkg/config"
	"github.com/dshalom/chatwrapped/pkg/output"
	"github.com/dshalom/chatwrapped/pkg/stats"
	"github.com/dshalom/chatwrapped/pkg/textfile"
	"github.com/dshalom/chatwrapped/pkg/transcript"
	"github.com/dshalom/chatwrapped/pkg/webhook"
)

// StatsOptions holds command-line options for the stats command.
type StatsOptions struct {
	Config  string
	Year    int
	Output  string
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats <transcript-file>...",
		Short: "Generate year-in-review statistics from transcripts",
		Long: `Parse transcript files and aggregate them into channel and
contributor statistics: message and word totals, quarterly and weekday
distributions, peak activity, contributor rankings, team breakdowns, and
word and emoji frequencies.

A config file supplies the channel name, display-name mappings, and
teams. Reports can be pushed to webhook endpoints.

Exit codes:
  0 - All lines parsed cleanly
  1 - Some lines were skipped or failed to parse
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file for channel, mappings, and webhooks")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "Year for transcripts without dates (overrides config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include favorite words and message listings")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, opts *StatsOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	cfg, err := loadOptionalConfig(ctx, opts.Config)
	if err != nil {
		return err
	}

	files, err := textfile.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding transcript paths: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no transcript files matched: %v", args)
	}

	parser := transcript.NewParser(parserOptions(cfg, opts.Year, false)...)

	var records []transcript.Record
	var combined transcript.Stats
	for _, file := range files {
		text, err := textfile.Read(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		recs, st, err := parser.Parse(text)
		addStats(&combined, st)
		if err != nil {
			var perr *transcript.ParseError
			if errors.As(err, &perr) {
				fmt.Fprintf(os.Stderr, "%s: %v\n", file, perr)
				ExitCode = 1
				continue
			}
			return fmt.Errorf("parsing %s: %w", file, err)
		}
		records = append(records, recs...)
	}

	if len(records) == 0 {
		return fmt.Errorf("no messages parsed from: %v", files)
	}

	report := buildStatsReport(cfg, records, combined)
	report.Metadata.ConfigFile = opts.Config
	report.Metadata.Sources = files
	report.Metadata.GeneratedAt = time.Now()
	report.Metadata.Duration = time.Since(start)

	formatter, err := newFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, cfg, opts, report)

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// buildStatsReport aggregates records into the report's stats sections.
func buildStatsReport(cfg *config.Config, records []transcript.Record, combined transcript.Stats) *output.Report {
	var analyzerOpts []stats.Option
	topWords := config.DefaultTopWords
	if cfg != nil {
		analyzerOpts = append(analyzerOpts,
			stats.WithConfig(cfg),
			stats.WithTopN(cfg.Preferences.TopContributors),
		)
		if cfg.Preferences.TopWords > 0 {
			topWords = cfg.Preferences.TopWords
		}
	}
	a := stats.NewAnalyzer(records, analyzerOpts...)

	channel := a.Channel()
	report := &output.Report{
		Summary:      output.NewSummary(combined, len(records)),
		Channel:      &channel,
		Contributors: a.Contributors(),
		Teams:        a.Teams(),
		TopWords:     a.TopWords(topWords),
		TopEmoji:     a.TopEmoji(5),
	}
	if cfg != nil {
		report.Metadata.Channel = cfg.Channel.Name
	}
	return report
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the run.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *StatsOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !webhook.ShouldSend(wh.Trigger, report) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *StatsOptions) []config.WebhookConfig {
	var webhooks []config.WebhookConfig

	if cfg != nil {
		webhooks = append(webhooks, cfg.Webhooks...)
	}

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
