// Package textfile reads transcript text from disk, with encoding fallback
// for exports that are not valid UTF-8.
package textfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fallbackEncodings are tried in order when the input is not valid UTF-8.
// Latin-1 maps every byte, so it is the effective terminal fallback;
// Windows-1252 stays in the chain to document the intended order.
var fallbackEncodings = []encoding.Encoding{
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// supportedExtensions lists the plain-text formats accepted as transcripts.
var supportedExtensions = []string{".txt", ".md", ".log", ".text", ".markdown"}

// SupportedExtensions returns the accepted transcript file extensions.
func SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// IsSupported reports whether the filename has a supported extension. Files
// without a recognized extension are still readable via Read; this exists
// for callers that want to warn first.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Read loads a transcript file and decodes it to a string.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided transcript paths are expected
	if err != nil {
		return "", fmt.Errorf("reading transcript file: %w", err)
	}
	return Decode(data)
}

// Decode converts raw file bytes to a string, trying UTF-8 (with or without
// BOM) first and then the legacy single-byte encodings.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range fallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), nil
	}

	return "", fmt.Errorf("could not decode input as UTF-8, Latin-1, or Windows-1252")
}

// ExpandGlobs expands file paths and glob patterns into a deduplicated,
// sorted list. Patterns matching nothing are kept as literal paths so the
// caller can produce a useful file-not-found error.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !seen[pattern] {
				seen[pattern] = true
				result = append(result, pattern)
			}
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)

	return result, nil
}
