package soundboard

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/soundboard/internal/compiler"
	"github.com/aretw0/soundboard/internal/logging"
	"github.com/aretw0/soundboard/internal/validator"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
)

// Version is the release of this module.
//
//go:embed VERSION
var Version string

// Result is a compiled program and its summary.
type Result = compiler.Result

// Report summarises a soundboard that passed validation.
type Report = validator.Report

// Compiler is the high-level entry point for the library.
// It wraps the internal compiler and the file adapter.
type Compiler struct {
	core   *compiler.Compiler
	limits console.Limits
	hooks  domain.CompileHooks
	logger *slog.Logger
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithLimits overrides the console limits. Useful for engine forks with
// different ceilings, and for tests.
func WithLimits(l console.Limits) Option {
	return func(c *Compiler) {
		c.limits = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.CompileHooks) Option {
	return func(c *Compiler) {
		c.hooks = hooks
	}
}

// New creates a Compiler. It fails only when the configured limits cannot
// produce a program.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{
		limits: console.DefaultLimits(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.limits.Validate(); err != nil {
		return nil, fmt.Errorf("invalid limits: %w", err)
	}
	c.core = compiler.New(
		compiler.WithLimits(c.limits),
		compiler.WithLogger(c.logger),
		compiler.WithHooks(c.hooks),
	)
	return c, nil
}

// Limits returns the limits the compiler works within.
func (c *Compiler) Limits() console.Limits {
	return c.limits
}

// Compile encodes a soundboard tree into a console program.
func (c *Compiler) Compile(ctx context.Context, sb *domain.Soundboard) (*Result, error) {
	return c.core.Compile(ctx, sb)
}

// CompileBytes parses a YAML (or JSON) source and compiles it.
func (c *Compiler) CompileBytes(ctx context.Context, data []byte) (*Result, error) {
	sb, err := file.ParseContext(ctx, data)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, sb)
}

// CompileFile compiles the source at src and writes the program to out.
// An empty out writes next to the source with a .cfg extension.
// It returns the path written.
func (c *Compiler) CompileFile(ctx context.Context, src, out string) (string, *Result, error) {
	if out == "" {
		var err error
		if out, err = file.OutputPath(src); err != nil {
			return "", nil, err
		}
	} else if filepath.Clean(out) == filepath.Clean(src) {
		return "", nil, fmt.Errorf("%w: %s", file.ErrOverwriteSource, src)
	}
	sb, err := file.Load(src)
	if err != nil {
		return "", nil, err
	}
	res, err := c.Compile(ctx, sb)
	if err != nil {
		return "", nil, err
	}
	if err := file.WriteProgram(out, res.Program); err != nil {
		return "", nil, err
	}
	c.logger.Info("Program written", "source", src, "out", out, "bytes", res.Stats.Bytes)
	return out, res, nil
}

// Validate reports every problem in sb at once.
func (c *Compiler) Validate(ctx context.Context, sb *domain.Soundboard) (*Report, error) {
	return validator.Validate(ctx, sb, c.limits)
}
