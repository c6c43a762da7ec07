package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	htmlTags     = regexp.MustCompile(`<[^>]*>`)
)

// SanitizeComment strips markup and control characters from a free-text
// comment and truncates it to maxLen runes. It returns nil for blank input.
func SanitizeComment(comment *string, maxLen int) *string {
	if comment == nil {
		return nil
	}
	cleaned := controlChars.ReplaceAllString(*comment, "")
	cleaned = htmlTags.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}
	if maxLen > 0 && utf8.RuneCountInString(cleaned) > maxLen {
		runes := []rune(cleaned)
		cleaned = strings.TrimSpace(string(runes[:maxLen]))
	}
	return &cleaned
}
