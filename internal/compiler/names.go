package compiler

import (
	"fmt"

	"github.com/aretw0/soundboard/pkg/domain"
)

// Fixed aliases shared by every compiled soundboard.
const (
	resetAlias = "SSBreset"
	coutAlias  = "SSBcout"
	endlAlias  = "SSBendl"
)

// EnterName is the alias fired on key-down for path.
func EnterName(p domain.Path) string { return "+SSBsay_" + p.String() }

// ExitName is the alias fired on key-up for path.
func ExitName(p domain.Path) string { return "-SSBsay_" + p.String() }

// HelpName is the alias that echoes the help line of path.
func HelpName(p domain.Path) string { return "SSBhelp_" + p.String() }

// SegmentName is the alias holding page i of the message at path.
func SegmentName(p domain.Path, i int) string { return fmt.Sprintf("ssbs_%s_%d", p.String(), i) }
