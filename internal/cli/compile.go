package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/soundboard"
)

// Compile compiles opts.Source once and reports where the program went.
func Compile(ctx context.Context, opts Options, w io.Writer, logger *slog.Logger) error {
	c, err := NewCompiler(opts, logger)
	if err != nil {
		return err
	}
	return compileOnce(ctx, c, opts, w)
}

func compileOnce(ctx context.Context, c *soundboard.Compiler, opts Options, w io.Writer) error {
	out, res, err := c.CompileFile(ctx, opts.Source, opts.Out)
	if err != nil {
		return err
	}
	if !opts.Quiet {
		printSystemMessage(w, "Wrote %s (%d aliases, %d menus, %d messages, %d bytes).",
			out, res.Stats.Aliases, res.Stats.Branches, res.Stats.Leaves, res.Stats.Bytes)
	}
	return nil
}
