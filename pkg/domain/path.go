package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Digit is a numpad digit. Menu keys are 1-9; 0 is reserved for resetting the menu.
type Digit uint8

const (
	// ResetDigit cancels the current selection at any depth.
	ResetDigit Digit = 0
	// MinDigit is the first digit usable as a menu key.
	MinDigit Digit = 1
	// MaxDigit is the last digit usable as a menu key.
	MaxDigit Digit = 9
)

// MenuDigits lists the digits a branch may assign, in traversal order.
var MenuDigits = []Digit{1, 2, 3, 4, 5, 6, 7, 8, 9}

// Valid reports whether d can be used as a menu key.
func (d Digit) Valid() bool {
	return d >= MinDigit && d <= MaxDigit
}

func (d Digit) String() string {
	return strconv.Itoa(int(d))
}

// ParseDigit converts a single-character key into a Digit.
// It accepts "0" so callers can report the reserved digit with its path.
func ParseDigit(key string) (Digit, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return Digit(key[0] - '0'), true
}

// Path is the sequence of digits pressed from the root to reach a node.
// The root is the empty path.
type Path []Digit

// Child returns a new path extended by d. The receiver is never modified.
func (p Path) Child(d Digit) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, d)
}

// Last returns the final digit of the path, or 0 for the root.
func (p Path) Last() Digit {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// IsRoot reports whether p addresses the root branch.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// String joins the digits without separators ("132"). Generated names use this form.
func (p Path) String() string {
	var sb strings.Builder
	sb.Grow(len(p))
	for _, d := range p {
		sb.WriteByte('0' + byte(d))
	}
	return sb.String()
}

// Dotted joins the digits with dots ("1.3.2"), the form used in error messages.
func (p Path) Dotted() string {
	parts := make([]string, len(p))
	for i, d := range p {
		parts[i] = d.String()
	}
	return strings.Join(parts, ".")
}

// ParsePath reads a path typed by a user, dotted ("1.3.2") or not ("132").
// Every digit must be a menu key.
func ParsePath(s string) (Path, error) {
	digits := strings.ReplaceAll(s, ".", "")
	if digits == "" {
		return nil, fmt.Errorf("empty path %q", s)
	}
	p := make(Path, 0, len(digits))
	for _, r := range digits {
		d, ok := ParseDigit(string(r))
		if !ok || !d.Valid() {
			return nil, fmt.Errorf("invalid path %q: %q is not a menu key", s, r)
		}
		p = append(p, d)
	}
	return p, nil
}
