package stream

import (
	"strings"
	"unicode"

	"github.com/vidgrab/vidgrab/internal/engine"
)

// SanitizeTitle strips characters that are unsafe inside a Content-Disposition
// filename, keeping letters, digits, spaces, dots, underscores and hyphens.
// Trailing whitespace is removed so the extension attaches cleanly.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// AttachmentFilename builds the download filename offered to the browser.
func AttachmentFilename(title string) string {
	return SanitizeTitle(title) + "." + engine.StreamContainer
}
