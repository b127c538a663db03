package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshalom/chatwrapped/pkg/textfile"
	"github.com/dshalom/chatwrapped/pkg/transcript"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output  string
	ShowAll bool
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <transcript-file>",
		Short: "Detect the transcript format of a file",
		Long: `Sample a transcript file and report which message format dominates.

Tests sampled lines against the known transcript layouts and reports the
sniffing decision:
  - line-by-line: messages parse one line at a time
  - multiline: two-line header exports needing reconstruction
  - structured-data: JSON or similar, not a transcript

Supports:
  - ISO 8601 timestamps (2025-01-15T09:30:00Z user: text)
  - Bracketed US dates ([1/15/2025 9:30 AM] user: text)
  - Clock-only layouts (user [09:30]: text, 09:30 user: text)
  - Date-space layouts (2025-01-15 09:30 user: text)
  - Display names and bare usernames (Name: text)
  - Two-line header exports (Name  9:30 AM / body)

Example:
  chatwrapped detect export.txt
  chatwrapped detect --all -o json export.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching formats, not just the dominant one")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	file := args[0]

	// Check file exists
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return fmt.Errorf("transcript file not found: %s", file)
	}

	text, err := textfile.Read(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	result := transcript.Sniff(text)

	switch opts.Output {
	case "json":
		return outputDetectJSON(result, file, opts)
	default:
		return outputDetectText(result, file, opts)
	}
}

func outputDetectText(result transcript.SniffResult, file string, opts *DetectOptions) error {
	fmt.Println("=== Transcript Format Detection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", file)
	fmt.Printf("Lines sampled: %d\n", result.SampledLines)
	fmt.Printf("Structured lines: %d\n", result.StructuredLines)
	fmt.Printf("Decision: %s\n", result.Decision)
	fmt.Println()

	if result.Decision == transcript.DecisionStructuredData {
		fmt.Println("This file looks like structured data (JSON or similar), not a")
		fmt.Println("chat transcript. Export the conversation as plain text instead.")
		return nil
	}

	if result.DominantGrammar == "" {
		fmt.Println("No single format dominates; lines will be parsed individually.")
	} else {
		fmt.Printf("Dominant format: %s\n", result.DominantGrammar)
	}
	fmt.Println()

	tallies := result.Tallies
	if !opts.ShowAll && len(tallies) > 1 {
		tallies = tallies[:1]
	}
	if len(tallies) > 0 {
		fmt.Println("--- Matched formats ---")
		for i, tally := range tallies {
			fmt.Printf("%d. %s (%d lines)\n", i+1, tally.Grammar, tally.Count)
			if tally.Sample != "" {
				fmt.Printf("   sample: %s\n", truncate(tally.Sample, 80))
			}
		}
		fmt.Println()
	}

	return nil
}

// detectJSON is the detect command's JSON output shape.
type detectJSON struct {
	File   string                `json:"file"`
	Result transcript.SniffResult `json:"result"`
}

func outputDetectJSON(result transcript.SniffResult, file string, opts *DetectOptions) error {
	if !opts.ShowAll && len(result.Tallies) > 1 {
		result.Tallies = result.Tallies[:1]
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(detectJSON{File: file, Result: result})
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
