// Package sanitize cleans user-provided free text before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`[ \t]+`)
)

// StripHTML removes HTML tags, including tags that were entity-encoded.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text strips markup, drops control characters other than newlines and
// collapses runs of spaces. Use for notes, reasons and feedback comments.
func Text(s string) string {
	result := StripHTML(s)
	result = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, result)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(result, " "))
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
