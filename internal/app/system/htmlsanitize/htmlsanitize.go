// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied text. Activity
// titles, descriptions, chat messages, and usernames are plain text by
// contract; anything that parses as HTML is removed before storage so
// the stored value is safe to render anywhere.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes every HTML element and attribute from s and decodes
// the entities the sanitizer introduced, returning the plain text that
// remains. Plain input passes through unchanged.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// CleanField trims surrounding whitespace and strips markup; the usual
// treatment for a single-line user field.
func CleanField(s string) string {
	return strings.TrimSpace(StripTags(s))
}
