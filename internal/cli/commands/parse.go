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
	"github.com/dshalom/chatwrapped/pkg/textfile"
	"github.com/dshalom/chatwrapped/pkg/transcript"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Config  string
	Year    int
	Output  string
	Verbose bool
	Quiet   bool
	Trace   bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <transcript-file>...",
		Short: "Parse transcript files into structured messages",
		Long: `Parse one or more transcript files into structured messages.

Each line is matched against the known transcript layouts in priority
order. Two-line header exports ("Name  10:30 AM" followed by the body)
are reconstructed into single messages. Structured data such as pasted
JSON is rejected with a diagnostic summary.

Exit codes:
  0 - All lines parsed cleanly
  1 - Some lines were skipped or failed to parse
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file for channel year and user mappings")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "Year for transcripts without dates (overrides config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "List every parsed message")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Print per-line parse decisions to stderr")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
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

	parser := transcript.NewParser(parserOptions(cfg, opts.Year, opts.Trace)...)

	var records []transcript.Record
	var combined transcript.Stats
	for _, file := range files {
		text, err := textfile.Read(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		recs, stats, err := parser.Parse(text)
		addStats(&combined, stats)
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

	report := &output.Report{
		Summary: output.NewSummary(combined, len(records)),
		Records: records,
		Metadata: output.Metadata{
			ConfigFile:  opts.Config,
			Sources:     files,
			GeneratedAt: time.Now(),
			Duration:    time.Since(start),
		},
	}
	if cfg != nil {
		report.Metadata.Channel = cfg.Channel.Name
	}

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

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// loadOptionalConfig loads a config file when a path is given, or returns
// nil so commands fall back to defaults.
func loadOptionalConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// parserOptions builds transcript parser options from config and flags.
// An explicit --year wins over the config's channel year.
func parserOptions(cfg *config.Config, year int, trace bool) []transcript.Option {
	var opts []transcript.Option
	switch {
	case year != 0:
		opts = append(opts, transcript.WithDefaultYear(year))
	case cfg != nil:
		opts = append(opts, transcript.WithDefaultYear(cfg.Channel.Year))
	}
	if trace {
		opts = append(opts, transcript.WithTrace(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	}
	return opts
}

func addStats(dst *transcript.Stats, src transcript.Stats) {
	dst.TotalLines += src.TotalLines
	dst.Parsed += src.Parsed
	dst.SkippedEmpty += src.SkippedEmpty
	dst.SkippedSystem += src.SkippedSystem
	dst.SkippedFieldLike += src.SkippedFieldLike
	dst.ParseErrors += src.ParseErrors
	if src.StructuredSuspected {
		dst.StructuredSuspected = true
	}
}

func newFormatter(format string, opts output.FormatOptions) (output.Formatter, error) {
	switch format {
	case "text":
		return output.NewTextFormatter(opts), nil
	case "json":
		return output.NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}
