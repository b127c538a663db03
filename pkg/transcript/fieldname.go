package transcript

import (
	"strings"
	"unicode"
)

// knownFieldNames are common export and API field names seen in pasted
// structured data. Checked case-insensitively.
var knownFieldNames = map[string]struct{}{
	"publicid":           {},
	"cloudname":          {},
	"resourcetype":       {},
	"secureurl":          {},
	"securedistribution": {},
	"adaptivestreaming":  {},
	"videosources":       {},
	"assignee":           {},
	"priority":           {},
	"status":             {},
	"format":             {},
	"width":              {},
	"height":             {},
	"createdat":          {},
	"updatedat":          {},
	"apikey":             {},
	"timestamp":          {},
	"version":            {},
}

// genericKeys are very short tokens that are far more likely to be
// structured-data keys than author handles.
var genericKeys = map[string]struct{}{
	"id":   {},
	"url":  {},
	"key":  {},
	"name": {},
	"type": {},
	"data": {},
}

// LooksLikeFieldName reports whether a candidate author token more plausibly
// names a structured-data key than a person. It is a best-effort heuristic:
// it will sometimes veto a legitimate camelCase handle, and that is accepted.
func LooksLikeFieldName(token string) bool {
	lower := strings.ToLower(strings.TrimSpace(token))
	if lower == "" {
		return false
	}

	if _, ok := knownFieldNames[lower]; ok {
		return true
	}

	if isCamelCase(token) {
		return true
	}

	if len(lower) <= 4 {
		if _, ok := genericKeys[lower]; ok {
			return true
		}
	}

	return false
}

// isCamelCase matches the programmatic-identifier shape: starts lowercase,
// contains an embedded uppercase letter, no spaces.
func isCamelCase(s string) bool {
	if s == "" || strings.ContainsRune(s, ' ') {
		return false
	}

	runes := []rune(s)
	if !unicode.IsLower(runes[0]) {
		return false
	}

	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
