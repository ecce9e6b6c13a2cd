package cli

import (
	"log/slog"

	"github.com/aretw0/soundboard"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/aretw0/soundboard/pkg/observability"
)

// NewCompiler initializes a compiler with standard CLI conventions: the
// given logger, plus per-node debug logging when opts.Debug is set.
func NewCompiler(opts Options, logger *slog.Logger, hooks ...domain.CompileHooks) (*soundboard.Compiler, error) {
	if opts.Debug {
		hooks = append(hooks, observability.LoggingHooks(logger))
	}
	return soundboard.New(
		soundboard.WithLogger(logger),
		soundboard.WithHooks(observability.Chain(hooks...)),
	)
}
