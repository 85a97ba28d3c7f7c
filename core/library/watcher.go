package library

import (
	"context"
	"io/fs"
	"path/filepath"

	"mpdfm/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the library cache whenever something changes under the
// music directory. fsnotify watches are per-directory, so every
// subdirectory found at start is registered, and directories created later
// are added as their create events arrive. Runs until ctx is cancelled.
func (s *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirWatches(watcher, s.dir); err != nil {
		return err
	}

	logger.Info("watching music directory", logger.String("dir", s.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// A new directory needs its own watch before files inside
				// it produce events. For plain files WalkDir visits only
				// the file and adds nothing.
				_ = addDirWatches(watcher, event.Name)
			}
			logger.Debug("music directory changed", logger.String("path", event.Name))
			s.Invalidate(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("music directory watcher error", logger.ErrorField(err))
		}
	}
}

// addDirWatches registers root and every directory below it.
func addDirWatches(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
