package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshalom/chatwrapped/pkg/config"
	"github.com/dshalom/chatwrapped/pkg/transcript"
)

func TestNewDiagnoseCommand(t *testing.T) {
	cmd := NewDiagnoseCommand()

	if cmd.Use != "diagnose <transcript-file>..." {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	for _, flag := range []string{"config", "verbose"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestCheckConfigExists_NotFound(t *testing.T) {
	result := checkConfigExists("/nonexistent/config.yaml")

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "not found") {
		t.Errorf("Expected 'not found' in message, got: %s", result.Message)
	}
}

func TestCheckConfigExists_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.yaml")

	if err := os.WriteFile(configPath, []byte{}, 0644); err != nil {
		t.Fatalf("Failed to create empty file: %v", err)
	}

	result := checkConfigExists(configPath)

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "empty") {
		t.Errorf("Expected 'empty' in message, got: %s", result.Message)
	}
}

func TestCheckConfigExists_Directory(t *testing.T) {
	result := checkConfigExists(t.TempDir())

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "directory") {
		t.Errorf("Expected 'directory' in message, got: %s", result.Message)
	}
}

func TestCheckConfigExists_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("channel:\n  name: eng\n"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	result := checkConfigExists(configPath)

	if result.Status != "ok" {
		t.Errorf("Expected ok status, got %s: %s", result.Status, result.Message)
	}
}

func TestCheckConfigParseable_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")

	if err := os.WriteFile(configPath, []byte("channel: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cfg, result := checkConfigParseable(context.Background(), configPath)

	if cfg != nil {
		t.Error("Expected nil config for invalid YAML")
	}
	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
}

func TestCheckConfigParseable_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configYAML := `channel:
  name: engineering
  year: 2025
user_mappings:
  - username: alice
    display_name: Alice Liddell
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cfg, result := checkConfigParseable(context.Background(), configPath)

	if cfg == nil {
		t.Fatal("Expected parsed config")
	}
	if result.Status != "ok" {
		t.Errorf("Expected ok status, got %s: %s", result.Status, result.Message)
	}
	if cfg.Channel.Name != "engineering" {
		t.Errorf("Channel name = %q, want engineering", cfg.Channel.Name)
	}
}

func TestCheckTranscriptFile_Missing(t *testing.T) {
	parser := transcript.NewParser()
	results := checkTranscriptFile(parser, "/nonexistent/export.txt", &DiagnoseOptions{})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Status != "error" {
		t.Errorf("Expected error status, got %s", results[0].Status)
	}
}

func TestCheckTranscriptFile_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "empty.txt")
	if err := os.WriteFile(path, []byte{}, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	parser := transcript.NewParser()
	results := checkTranscriptFile(parser, path, &DiagnoseOptions{})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Status != "warning" {
		t.Errorf("Expected warning status for empty file, got %s", results[0].Status)
	}
}

func TestCheckTranscriptFile_UnsupportedExtension(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "export.dat")
	if err := os.WriteFile(path, []byte(sampleTranscript), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	parser := transcript.NewParser()
	results := checkTranscriptFile(parser, path, &DiagnoseOptions{})

	found := false
	for _, r := range results {
		if strings.HasPrefix(r.Check, "Extension:") && r.Status == "warning" {
			found = true
		}
	}
	if !found {
		t.Error("Expected extension warning for .dat file")
	}
}

func TestCheckTranscriptFile_Healthy(t *testing.T) {
	path := writeTranscript(t, "export.txt", sampleTranscript)

	parser := transcript.NewParser()
	results := checkTranscriptFile(parser, path, &DiagnoseOptions{})

	var format *DiagnosticResult
	for i := range results {
		if strings.HasPrefix(results[i].Check, "Format:") {
			format = &results[i]
		}
	}
	if format == nil {
		t.Fatal("Expected a format check result")
	}
	if format.Status != "ok" {
		t.Errorf("Expected ok format status, got %s: %s", format.Status, format.Message)
	}
	if !strings.Contains(format.Message, "Parsed 3 messages") {
		t.Errorf("Unexpected format message: %s", format.Message)
	}
}

func TestCheckFormat_StructuredData(t *testing.T) {
	parser := transcript.NewParser()
	text := `{
  "messages": [
    {"user": "alice", "text": "hi"},
    {"user": "bob", "text": "hello"}
  ]
}`

	result := checkFormat(parser, "export.json", text, &DiagnoseOptions{})

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "structured data") {
		t.Errorf("Expected structured data message, got: %s", result.Message)
	}
}

func TestCheckFormat_NoMessages(t *testing.T) {
	parser := transcript.NewParser()
	text := "just some prose without any chat structure\nand another line\n"

	result := checkFormat(parser, "notes.txt", text, &DiagnoseOptions{})

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
}

func TestCheckWebhooks_NoneConfigured(t *testing.T) {
	cfg := config.DefaultConfig()

	results := checkWebhooks(cfg, &DiagnoseOptions{})
	if len(results) != 0 {
		t.Errorf("Expected no results without webhooks, got %d", len(results))
	}

	// Verbose mode notes the absence
	results = checkWebhooks(cfg, &DiagnoseOptions{Verbose: true})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result in verbose mode, got %d", len(results))
	}
	if results[0].Status != "ok" {
		t.Errorf("Expected ok status, got %s", results[0].Status)
	}
}

func TestCheckWebhooks_InvalidURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Webhooks = []config.WebhookConfig{
		{Name: "bad", URL: "ftp://example.com/hook", Trigger: config.WebhookTriggerAlways},
	}

	results := checkWebhooks(cfg, &DiagnoseOptions{})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Status != "error" {
		t.Errorf("Expected error status, got %s", results[0].Status)
	}
}

func TestCheckWebhooks_UnresolvedToken(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Webhooks = []config.WebhookConfig{
		{Name: "hook", URL: "https://example.com/hook", Token: "${MISSING_VAR}", Trigger: config.WebhookTriggerAlways},
	}

	results := checkWebhooks(cfg, &DiagnoseOptions{})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Status != "warning" {
		t.Errorf("Expected warning status, got %s", results[0].Status)
	}
}

func TestCheckWebhookConnectivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := checkWebhookConnectivity(config.WebhookConfig{URL: server.URL})
	if result.Status != "ok" {
		t.Errorf("Expected ok status, got %s: %s", result.Status, result.Message)
	}

	result = checkWebhookConnectivity(config.WebhookConfig{URL: "http://127.0.0.1:1/hook"})
	if result.Status != "warning" {
		t.Errorf("Expected warning status for unreachable endpoint, got %s", result.Status)
	}
}

func TestRunDiagnose_EndToEnd(t *testing.T) {
	path := writeTranscript(t, "export.txt", sampleTranscript)

	cmd := NewDiagnoseCommand()
	cmd.SetArgs([]string{path})

	out, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Errorf("Diagnose failed: %v", err)
	}
	if !strings.Contains(out, "chatwrapped Diagnostics") {
		t.Error("Expected diagnostics header in output")
	}
	if !strings.Contains(out, "0 errors") {
		t.Errorf("Expected clean summary, got:\n%s", out)
	}
}

func TestPrintDiagnostics_Summary(t *testing.T) {
	results := []DiagnosticResult{
		{Check: "A", Status: "ok", Message: "fine"},
		{Check: "B", Status: "warning", Message: "hmm", Suggests: []string{"look closer"}},
		{Check: "C", Status: "error", Message: "broken", Details: []string{"detail"}},
	}

	out, _ := captureStdout(t, func() error {
		printDiagnostics(results, &DiagnoseOptions{})
		return nil
	})

	if !strings.Contains(out, "1 passed, 1 warnings, 1 errors") {
		t.Errorf("Unexpected summary line:\n%s", out)
	}
	if !strings.Contains(out, "Hint: look closer") {
		t.Error("Expected suggestion in output")
	}
	if !strings.Contains(out, "Fix the errors above") {
		t.Error("Expected error guidance in output")
	}
}
