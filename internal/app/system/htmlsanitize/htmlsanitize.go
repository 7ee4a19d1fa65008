// Package htmlsanitize cleans text that came from outside the app before it
// is shown to users.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxMessageLen caps upstream messages shown in flash boxes.
const MaxMessageLen = 200

var strict = bluemonday.StrictPolicy()

// Message reduces an upstream error message to plain text: all markup is
// removed, whitespace collapsed, and the result capped at MaxMessageLen runes.
// The template layer escapes the result on output.
func Message(s string) string {
	if s == "" {
		return ""
	}
	// StrictPolicy entity-encodes text nodes; decode once so templates
	// escape exactly once.
	text := strings.Join(strings.Fields(html.UnescapeString(strict.Sanitize(s))), " ")
	if r := []rune(text); len(r) > MaxMessageLen {
		text = strings.TrimSpace(string(r[:MaxMessageLen])) + "…"
	}
	return text
}
