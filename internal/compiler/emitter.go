package compiler

import (
	"fmt"

	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
)

// preamble enables the console filter that hides the menu's own command
// echoes, and defines the two aliases that toggle it.
func preamble(helpDuration int) []console.Directive {
	return []console.Directive{
		console.RawLine{Text: "developer 1"},
		console.RawLine{Text: "con_filter_enable 2"},
		console.RawLine{Text: `con_filter_text "*****"`},
		console.RawLine{Text: fmt.Sprintf("con_notifytime %d", helpDuration)},
		console.Alias{Token: coutAlias, Body: "con_filter_enable 0"},
		console.Alias{Token: endlAlias, Body: "con_filter_enable 2"},
	}
}

// epilogue defines SSBreset, binds the cancel key and performs the initial reset.
func (e *encoder) epilogue() error {
	var root domain.Path
	binds, err := e.bindAll(root)
	if err != nil {
		return err
	}
	if err := e.alias(root, resetAlias, binds); err != nil {
		return err
	}

	cancel, err := e.build.BindDirective(domain.ResetDigit, EnterName(root))
	if err != nil {
		return domain.NewCompileError(root, err, "")
	}
	e.program.Add(cancel, console.RawLine{Text: resetAlias + ";"})
	e.stats.Binds++
	return nil
}
