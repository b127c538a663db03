package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshalom/chatwrapped/pkg/config"
	"github.com/dshalom/chatwrapped/pkg/textfile"
	"github.com/dshalom/chatwrapped/pkg/transcript"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Config  string
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <transcript-file>...",
		Short: "Diagnose common transcript and configuration issues",
		Long: `Diagnose common transcript and configuration issues.

This command checks transcript files for common problems:
- File existence, extension, and encoding
- Format sniffing health (structured data, ambiguous formats)
- Parse success rate on sampled lines
- Config file syntax and webhook configuration (with --config)

Example:
  chatwrapped diagnose export.txt
  chatwrapped diagnose -c config.yaml -v export.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file to check alongside the transcripts")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, files []string, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := []DiagnosticResult{}

	var cfg *config.Config
	if opts.Config != "" {
		result := checkConfigExists(opts.Config)
		results = append(results, result)
		if result.Status != "error" {
			var parseResult DiagnosticResult
			cfg, parseResult = checkConfigParseable(ctx, opts.Config)
			results = append(results, parseResult)
		}
	}

	parser := transcript.NewParser(parserOptions(cfg, 0, false)...)
	for _, file := range files {
		results = append(results, checkTranscriptFile(parser, file, opts)...)
	}

	if cfg != nil {
		results = append(results, checkWebhooks(cfg, opts)...)
	}

	printDiagnostics(results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Channel: %s (year %d)", cfg.Channel.Name, cfg.Channel.Year),
		fmt.Sprintf("User mappings: %d", len(cfg.UserMappings)),
		fmt.Sprintf("Teams: %d", len(cfg.Teams)),
	}
	return cfg, result
}

func checkTranscriptFile(parser *transcript.Parser, file string, opts *DiagnoseOptions) []DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Transcript: %s", file),
	}

	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = "File does not exist"
		result.Suggests = []string{"Check if the transcript path is correct"}
		return []DiagnosticResult{result}
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return []DiagnosticResult{result}
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		result.Suggests = []string{"Point at individual transcript files or use a glob"}
		return []DiagnosticResult{result}
	}
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "File is empty (0 bytes)"
		return []DiagnosticResult{result}
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
	results := []DiagnosticResult{result}

	if !textfile.IsSupported(file) {
		results = append(results, DiagnosticResult{
			Check:   fmt.Sprintf("Extension: %s", file),
			Status:  "warning",
			Message: "Unrecognized file extension",
			Suggests: []string{
				fmt.Sprintf("Supported extensions: %s", strings.Join(textfile.SupportedExtensions(), ", ")),
			},
		})
	}

	text, err := textfile.Read(file)
	if err != nil {
		results = append(results, DiagnosticResult{
			Check:    fmt.Sprintf("Encoding: %s", file),
			Status:   "error",
			Message:  fmt.Sprintf("Cannot decode file: %v", err),
			Suggests: []string{"Re-export the transcript as UTF-8 text"},
		})
		return results
	}

	results = append(results, checkFormat(parser, file, text, opts))
	return results
}

// checkFormat sniffs the transcript and reports parse health.
func checkFormat(parser *transcript.Parser, file, text string, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Format: %s", file),
	}

	sniff := transcript.Sniff(text)
	if sniff.Decision == transcript.DecisionStructuredData {
		result.Status = "error"
		result.Message = "File looks like structured data (JSON or similar), not a transcript"
		result.Suggests = []string{
			"Export the conversation as plain text instead of JSON",
		}
		return result
	}

	records, stats, err := parser.Parse(text)
	if err != nil {
		result.Status = "error"
		result.Message = "No messages could be parsed"
		for i, sample := range stats.FailedSamples {
			if i >= 3 {
				break
			}
			result.Details = append(result.Details, truncate(sample, 80))
		}
		result.Suggests = []string{
			"Run 'chatwrapped detect " + file + "' to see which formats were tried",
		}
		return result
	}

	skipped := stats.SkippedEmpty + stats.SkippedSystem + stats.SkippedFieldLike
	if stats.ParseErrors > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Parsed %d messages, but %d line(s) matched no format",
			len(records), stats.ParseErrors)
		for i, sample := range stats.FailedSamples {
			if i >= 3 {
				break
			}
			result.Details = append(result.Details, truncate(sample, 80))
		}
	} else {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Parsed %d messages from %d lines (%d skipped)",
			len(records), stats.TotalLines, skipped)
		if opts.Verbose {
			result.Details = append(result.Details,
				fmt.Sprintf("Decision: %s", sniff.Decision))
			if sniff.DominantGrammar != "" {
				result.Details = append(result.Details,
					fmt.Sprintf("Dominant format: %s", sniff.DominantGrammar))
			}
		}
	}

	return result
}

func printDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Println("=== chatwrapped Diagnostics ===")
	fmt.Println()

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Printf("[%s] %s\n", icon, r.Check)
		fmt.Printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Printf("      Hint: %s\n", s)
		}

		fmt.Println()
	}

	// Summary
	fmt.Println("---")
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Println("\nFix the errors above before running parse or stats.")
	} else if warnCount > 0 {
		fmt.Println("\nTranscripts are usable but have warnings.")
	} else {
		fmt.Println("\nEverything looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		// Webhooks are optional, just note they're not configured
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		issues := []string{}
		warnings := []string{}

		// Check URL
		if wh.URL == "" {
			issues = append(issues, "Missing url")
		} else {
			u, err := url.Parse(wh.URL)
			if err != nil {
				issues = append(issues, fmt.Sprintf("Invalid URL: %v", err))
			} else if u.Scheme != "http" && u.Scheme != "https" {
				issues = append(issues, fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme))
			} else if u.Host == "" {
				issues = append(issues, "URL must have a host")
			}
		}

		// Check trigger
		if wh.Trigger != "" {
			switch wh.Trigger {
			case config.WebhookTriggerOnIssues, config.WebhookTriggerAlways, config.WebhookTriggerNever:
				// Valid
			default:
				issues = append(issues, fmt.Sprintf("Invalid trigger %q (use on_issues, always, or never)", wh.Trigger))
			}
		}

		// Check if token looks like an unexpanded env var
		if strings.HasPrefix(wh.Token, "${") || strings.HasPrefix(wh.Token, "$") {
			warnings = append(warnings, fmt.Sprintf("Token appears to be an unresolved env var: %s", wh.Token))
		}

		if len(issues) > 0 {
			result.Status = "error"
			result.Message = fmt.Sprintf("%d configuration issue(s)", len(issues))
			result.Details = issues
		} else if len(warnings) > 0 {
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		} else {
			result.Status = "ok"
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
			if opts.Verbose {
				result.Details = []string{
					fmt.Sprintf("URL: %s", wh.URL),
					fmt.Sprintf("Timeout: %s", wh.Timeout),
				}
				if wh.Token != "" {
					result.Details = append(result.Details, "Token: configured")
				}
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			if wh.URL == "" {
				continue
			}

			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, result)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// Just do a HEAD request to check if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	// Any response (even 4xx/5xx) means the server is reachable
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}
