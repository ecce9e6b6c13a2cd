package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/soundboard/internal/logging"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
)

// Compiler turns a soundboard tree into a console program.
// A Compiler holds no per-compilation state and is safe for concurrent use.
type Compiler struct {
	limits console.Limits
	logger *slog.Logger
	hooks  domain.CompileHooks
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithLimits overrides the console size limits.
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

// New creates a compiler with the stock Source limits.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		limits: console.DefaultLimits(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is a compiled program and its summary.
type Result struct {
	Program *console.Program
	Stats   domain.Stats
}

// Compile encodes sb in a single pass. The first error aborts compilation;
// no partial program is ever returned.
func (c *Compiler) Compile(ctx context.Context, sb *domain.Soundboard) (res *Result, err error) {
	start := time.Now()
	var stats domain.Stats
	defer func() {
		if err != nil {
			c.logger.Warn("Compilation failed", "err", err)
		}
		if c.hooks.OnCompiled != nil {
			c.hooks.OnCompiled(ctx, &domain.CompileEvent{
				Timestamp: time.Now(),
				Duration:  time.Since(start),
				Stats:     stats,
				Err:       err,
			})
		}
	}()

	if sb == nil || sb.Root == nil {
		return nil, domain.NewCompileError(nil, domain.ErrNotObject, "no root branch")
	}
	if err := c.limits.Validate(); err != nil {
		return nil, fmt.Errorf("invalid limits: %w", err)
	}
	settings := sb.Settings
	if settings.Wait < 0 {
		return nil, fmt.Errorf("wait must not be negative, got %d", settings.Wait)
	}
	if settings.HelpDuration <= 0 {
		settings.HelpDuration = domain.DefaultHelpDuration
	}

	program := console.NewProgram()
	program.Add(preamble(settings.HelpDuration)...)

	enc := &encoder{
		ctx:     ctx,
		build:   console.NewBuilder(c.limits),
		seg:     Segmenter{Width: c.limits.LineWidth, PerSegment: c.limits.SendsPerAlias},
		wait:    settings.Wait,
		program: program,
		hooks:   c.hooks,
		logger:  c.logger,
	}
	// SSBcout and SSBendl come from the preamble.
	enc.stats.Aliases = 2

	if err := enc.branch(sb.Root, nil); err != nil {
		return nil, err
	}
	if err := enc.epilogue(); err != nil {
		return nil, err
	}

	stats = enc.stats
	stats.Bytes = len(program.String())
	c.logger.Info("Soundboard compiled",
		"aliases", stats.Aliases,
		"leaves", stats.Leaves,
		"branches", stats.Branches,
		"bytes", stats.Bytes,
	)
	return &Result{Program: program, Stats: stats}, nil
}
