package textfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeUTF8(t *testing.T) {
	got, err := Decode([]byte("hello 🎉"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != "hello 🎉" {
		t.Errorf("Decode() = %q", got)
	}
}

func TestDecodeStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("Decode() = %q, want %q", got, "hello")
	}
}

func TestDecodeLatin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as a standalone UTF-8 byte.
	got, err := Decode([]byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != "café" {
		t.Errorf("Decode() = %q, want %q", got, "café")
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != "" {
		t.Errorf("Decode() = %q, want empty", got)
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.txt")
	content := "2025-03-15T14:23:00Z david.shalom: Hello\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != content {
		t.Errorf("Read() = %q, want %q", got, content)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read("/nonexistent/messages.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading transcript file") {
		t.Errorf("error = %v", err)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"messages.txt", true},
		{"notes.MD", true},
		{"channel.log", true},
		{"export.markdown", true},
		{"data.json", false},
		{"report.pdf", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.name); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ExpandGlobs([]string{filepath.Join(dir, "*.txt")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2: %v", len(files), files)
	}
}

func TestExpandGlobsKeepsLiteralMiss(t *testing.T) {
	files, err := ExpandGlobs([]string{"/no/such/path.txt"})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(files) != 1 || files[0] != "/no/such/path.txt" {
		t.Errorf("files = %v", files)
	}
}

func TestExpandGlobsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ExpandGlobs([]string{path, filepath.Join(dir, "*.txt")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want 1: %v", len(files), files)
	}
}
