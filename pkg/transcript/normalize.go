package transcript

import (
	"regexp"
	"strings"
)

// systemNoticePatterns match platform event bodies (joins, leaves, channel
// housekeeping) that should not count as human messages.
var systemNoticePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(joined|left)\s+the\s+channel`),
	regexp.MustCompile(`(?i)^has\s+(joined|left)`),
	regexp.MustCompile(`(?i)^this\s+channel\s+was\s+created`),
	regexp.MustCompile(`(?i)^channel\s+(created|archived)`),
	regexp.MustCompile(`(?i)^set\s+the\s+channel\s+(topic|purpose|description)`),
}

// IsSystemNotice reports whether a message body describes a platform event
// rather than human-authored content.
func IsSystemNotice(body string) bool {
	for _, p := range systemNoticePatterns {
		if p.MatchString(body) {
			return true
		}
	}
	return false
}

// NormalizeAuthor converts an author token or display name into the stable
// identifier form: lowercase, with spaces and underscores joined by dots.
// "David Shalom" and "david_shalom" both become "david.shalom".
func NormalizeAuthor(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), ".")
	return strings.ReplaceAll(s, "_", ".")
}
