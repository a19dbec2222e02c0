package chatbot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch retrains b whenever the corpus file at path is written or replaced.
// It blocks until ctx is done. A corpus that fails to load leaves the previous
// training in place.
func Watch(ctx context.Context, path string, b *Bot) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("corpus watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("corpus path: %w", err)
	}
	// editors often replace the file, so watch the directory
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger := log.Ctx(ctx)
	logger.Info().Str("corpus", target).Msg("watching corpus")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := b.TrainFile(ctx, target); err != nil {
				logger.Warn().Err(err).Str("corpus", target).Msg("retrain failed")
				continue
			}
			logger.Info().Str("corpus", target).Msg("corpus reloaded")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("corpus watcher error")
		}
	}
}
