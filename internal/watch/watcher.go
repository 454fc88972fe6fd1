// Package watch reports changes to a single file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher calls onChange whenever the watched file is written, created
// or renamed into place.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	target   string
	onChange func(path string, op fsnotify.Op)
	logger   zerolog.Logger
}

// ForFile creates a watcher for the file at path. The parent directory is
// watched so that editors replacing the file by rename are still noticed;
// its subdirectories are not.
func ForFile(path string, logger zerolog.Logger, onChange func(path string, op fsnotify.Op)) (*FileWatcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return &FileWatcher{
		watcher:  watcher,
		target:   target,
		onChange: onChange,
		logger:   logger.With().Str("component", "watch").Str("path", target).Logger(),
	}, nil
}

// Start delivers events for the watched file until ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 && fw.matches(event.Name) {
				fw.logger.Debug().Str("op", event.Op.String()).Msg("file changed")
				fw.onChange(event.Name, event.Op)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// matches reports whether an event path names the watched file.
func (fw *FileWatcher) matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Clean(abs) == fw.target
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
