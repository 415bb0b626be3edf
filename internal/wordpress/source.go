package wordpress

import (
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// NormalizeSource turns a user-supplied site identifier into the canonical
// form used both for requests and as the cache key. A missing scheme becomes
// https; surrounding whitespace and trailing slashes are dropped.
func NormalizeSource(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	if !schemePattern.MatchString(source) {
		source = "https://" + source
	}
	return strings.TrimRight(source, "/")
}
