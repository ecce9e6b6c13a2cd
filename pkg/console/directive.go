package console

import (
	"fmt"
	"strings"
)

// Directive is a single line of a console program.
type Directive interface {
	Line() string
}

// Alias defines a named command list. Body is stored unquoted.
type Alias struct {
	Token string
	Body  string
}

// Line renders the alias definition.
func (a Alias) Line() string {
	return "alias " + a.Token + " " + Quote(a.Body)
}

// Bind attaches a command to a physical key.
type Bind struct {
	Key     string
	Command string
}

// Line renders the binding as a top-level statement.
func (b Bind) Line() string {
	return "bind " + b.Key + " " + b.Command + ";"
}

// RawLine is emitted verbatim.
type RawLine struct {
	Text string
}

// Line returns the text unchanged.
func (r RawLine) Line() string {
	return r.Text
}

// Quote prepares a command list for use as an alias body.
// One trailing separator is dropped, and the result is quoted only when it
// contains a space or a separator. Empty commands become "".
func Quote(command string) string {
	if command == "" {
		return `""`
	}
	command = strings.TrimSuffix(command, ";")
	if strings.ContainsAny(command, " ;") {
		return `"` + command + `"`
	}
	return command
}

// Say returns the command that sends line through a chat command (say, say_team...).
func Say(command, line string) string {
	return command + " " + line + ";"
}

// Wait returns a timed delay of n frames.
func Wait(n int) string {
	return fmt.Sprintf("wait %d;", n)
}
