package console

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/soundboard/pkg/domain"
)

// Builder constructs directives, enforcing the command length ceiling.
type Builder struct {
	limits Limits
}

// NewBuilder creates a builder bound to the given limits.
func NewBuilder(limits Limits) *Builder {
	return &Builder{limits: limits}
}

// Limits returns the limits the builder enforces.
func (b *Builder) Limits() Limits {
	return b.limits
}

// check measures command in bytes, the unit the console's buffers use.
func (b *Builder) check(what, command string) error {
	if len(command) > b.limits.CommandLength {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", domain.ErrCommandTooLong, what, len(command), b.limits.CommandLength)
	}
	return nil
}

// Alias builds an alias definition. It fails when body exceeds the ceiling.
func (b *Builder) Alias(token, body string) (Alias, error) {
	if err := b.check("alias "+token, body); err != nil {
		return Alias{}, err
	}
	return Alias{Token: token, Body: body}, nil
}

// Bind returns a runtime bind command ("bind KP_END +x;") for use inside an alias body.
// command must be a single command; use an alias for lists.
func (b *Builder) Bind(d domain.Digit, command string) (string, error) {
	if err := b.check("bind "+d.String(), command); err != nil {
		return "", err
	}
	return Bind{Key: KeyFor(d), Command: command}.Line(), nil
}

// BindDirective returns a top-level binding directive.
func (b *Builder) BindDirective(d domain.Digit, command string) (Bind, error) {
	if err := b.check("bind "+d.String(), command); err != nil {
		return Bind{}, err
	}
	return Bind{Key: KeyFor(d), Command: command}, nil
}

// Echo prints text to the console, cut at the echo limit with a note of how much was dropped.
// text is expected to be sanitized already. Line breaks become spaces, since a
// directive cannot span lines. The limit counts bytes and never splits a rune.
func (b *Builder) Echo(text string) string {
	if strings.ContainsAny(text, "\r\n") {
		text = strings.Join(strings.Fields(text), " ")
	}
	if len(text) <= b.limits.EchoLength {
		return "echo " + text
	}
	cut := Truncate(text, b.limits.EchoLength)
	return fmt.Sprintf("echo %s... (+%d chrs)", cut, len(text)-len(cut))
}

// Truncate returns the longest prefix of s that fits in n bytes without
// splitting a rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
