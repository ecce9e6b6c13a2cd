package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/soundboard/pkg/domain"
)

// LoggingHooks logs every encoded path at debug level and each compilation result.
func LoggingHooks(logger *slog.Logger) domain.CompileHooks {
	return domain.CompileHooks{
		OnNodeEncoded: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_encoded", "path", e.Path, "kind", e.Kind, "segments", e.Segments)
		},
		OnCompiled: func(ctx context.Context, e *domain.CompileEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "compile_failed", "err", e.Err, "duration", e.Duration)
				return
			}
			logger.InfoContext(ctx, "compiled",
				"aliases", e.Stats.Aliases,
				"bytes", e.Stats.Bytes,
				"duration", e.Duration,
			)
		},
	}
}

// Chain combines hook sets; each callback runs in the order given.
func Chain(sets ...domain.CompileHooks) domain.CompileHooks {
	var (
		onNode     []func(context.Context, *domain.NodeEvent)
		onCompiled []func(context.Context, *domain.CompileEvent)
	)
	for _, h := range sets {
		if h.OnNodeEncoded != nil {
			onNode = append(onNode, h.OnNodeEncoded)
		}
		if h.OnCompiled != nil {
			onCompiled = append(onCompiled, h.OnCompiled)
		}
	}

	var out domain.CompileHooks
	if len(onNode) > 0 {
		out.OnNodeEncoded = func(ctx context.Context, e *domain.NodeEvent) {
			for _, fn := range onNode {
				fn(ctx, e)
			}
		}
	}
	if len(onCompiled) > 0 {
		out.OnCompiled = func(ctx context.Context, e *domain.CompileEvent) {
			for _, fn := range onCompiled {
				fn(ctx, e)
			}
		}
	}
	return out
}
