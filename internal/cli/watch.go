package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

// Watch compiles opts.Source, then recompiles it on every save until ctx is
// done. Compile errors are reported and watching goes on.
func Watch(ctx context.Context, opts Options, w io.Writer, logger *slog.Logger) error {
	c, err := NewCompiler(opts, logger)
	if err != nil {
		return err
	}
	rebuild := func(ctx context.Context) {
		if err := compileOnce(ctx, c, opts, w); err != nil {
			printSystemMessage(w, "Compile failed: %v", err)
		}
	}
	printSystemMessage(w, "Watching '%s'. Press Ctrl+C to stop.", opts.Source)
	err = watchFile(ctx, opts.Source, DefaultDebounce, logger, rebuild)
	if isInterrupted(err) {
		return nil
	}
	return err
}

// watchFile calls rebuild once, then again after each quiet period of
// debounce following a change to path.
//
// The parent directory is watched rather than the file, since many editors
// save by writing a new file and renaming it over the old one.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, rebuild func(context.Context)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	rebuild(ctx)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "err", err)

		case <-timer.C:
			rebuild(ctx)
		}
	}
}
