package compiler

import (
	"strings"
	"unicode"
)

// Sanitize makes human-authored text safe inside a quoted console command.
// It is applied to messages and help text, never to generated names.
//
// The console has no escape sequences, so offending characters are replaced
// or dropped: double quotes become two single quotes, semicolons (command
// separators) are removed, and "//" (a comment start, even inside quotes) is
// split with a space. Runs of spaces collapse to one. Newlines are kept; the
// segmenter treats them as hard breaks.
func Sanitize(text string) string {
	text = stripControl(text)
	text = strings.ReplaceAll(text, `"`, "''")
	text = strings.ReplaceAll(text, ";", "")
	for strings.Contains(text, "//") {
		text = strings.ReplaceAll(text, "//", "/ /")
	}
	return collapseSpaces(strings.TrimSpace(text))
}

// stripControl removes control characters except newlines. Tabs become spaces.
func stripControl(text string) string {
	// Fast path: nothing to strip.
	clean := true
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t':
			b.WriteRune(' ')
		case r == '\n' || !unicode.IsControl(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(text string) string {
	if !strings.Contains(text, "  ") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
