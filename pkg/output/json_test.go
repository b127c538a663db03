package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Verify it's valid JSON
	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	// Check content
	if parsed.Summary.Messages != 3 {
		t.Errorf("Messages = %d, want 3", parsed.Summary.Messages)
	}
	if len(parsed.Records) != 3 {
		t.Errorf("len(Records) = %d, want 3", len(parsed.Records))
	}
	if len(parsed.Contributors) != 2 {
		t.Errorf("len(Contributors) = %d, want 2", len(parsed.Contributors))
	}
	if parsed.Metadata.Channel != "engineering" {
		t.Errorf("Channel = %q, want engineering", parsed.Metadata.Channel)
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Quiet mode should only output summary
	var parsed Summary
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Messages != 3 {
		t.Errorf("Messages = %d, want 3", parsed.Messages)
	}
	if strings.Contains(buf.String(), "records") {
		t.Error("Quiet output should not include records")
	}
}

func TestJSONFormatter_Format_Empty(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := &Report{}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	// Optional sections are omitted when empty
	if strings.Contains(buf.String(), "contributors") {
		t.Error("Empty report should omit contributors")
	}
}
