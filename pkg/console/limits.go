package console

import (
	"fmt"

	"github.com/aretw0/soundboard/pkg/domain"
)

const (
	// MaxLineLength is the most bytes one chat message may carry.
	MaxLineLength = 127
	// MaxCommandsPerAlias bounds how many sends share one alias body.
	MaxCommandsPerAlias = 3
	// MaxCommandLength is the console's command text ceiling, in bytes.
	MaxCommandLength = 512
	// MaxEchoLength is where echoed previews are cut.
	MaxEchoLength = 200
)

// Limits are the size budgets the compiler works within. All lengths count
// bytes of UTF-8 text.
type Limits struct {
	LineWidth     int
	SendsPerAlias int
	CommandLength int
	EchoLength    int
}

// DefaultLimits returns the limits of the stock Source console.
func DefaultLimits() Limits {
	return Limits{
		LineWidth:     MaxLineLength,
		SendsPerAlias: MaxCommandsPerAlias,
		CommandLength: MaxCommandLength,
		EchoLength:    MaxEchoLength,
	}
}

// Validate rejects limits that cannot produce a program.
func (l Limits) Validate() error {
	switch {
	case l.LineWidth <= 0:
		return fmt.Errorf("line width must be positive, got %d", l.LineWidth)
	case l.SendsPerAlias <= 0:
		return fmt.Errorf("sends per alias must be positive, got %d", l.SendsPerAlias)
	case l.CommandLength <= 0:
		return fmt.Errorf("command length must be positive, got %d", l.CommandLength)
	case l.EchoLength <= 0:
		return fmt.Errorf("echo length must be positive, got %d", l.EchoLength)
	}
	return nil
}

// keys maps numpad digits to the physical key names used by bind.
var keys = [10]string{
	"KP_INS",
	"KP_END",
	"KP_DOWNARROW",
	"KP_PGDN",
	"KP_LEFTARROW",
	"KP_5",
	"KP_RIGHTARROW",
	"KP_HOME",
	"KP_UPARROW",
	"KP_PGUP",
}

// KeyFor returns the physical key bound to a numpad digit.
func KeyFor(d domain.Digit) string {
	if int(d) >= len(keys) {
		return ""
	}
	return keys[d]
}
