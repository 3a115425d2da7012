package finder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Watch monitors the tree rooted at root and reports newly created
// files whose names match the pattern. Directories created while
// watching are added to the watch so matches inside them are seen too.
// It blocks until ctx is canceled.
func (f *Finder) Watch(ctx context.Context, root string) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("start path %s: %w", root, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := f.watchTree(watcher, filepath.Clean(root)); err != nil {
		return err
	}

	f.logger.Debug("watching", zap.String("root", root), zap.String("pattern", f.pattern))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			fi, err := os.Lstat(event.Name)
			if err != nil {
				// Created and removed again before we got here.
				continue
			}
			if fi.IsDir() {
				if err := f.watchTree(watcher, event.Name); err != nil {
					f.sink.Warnf("cannot watch %s: %v", event.Name, err)
				}
				continue
			}
			f.tryMatch(event.Name, filepath.Base(event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.sink.Warnf("watch error: %v", err)
		}
	}
}

// watchTree registers dir and every directory beneath it.
func (f *Finder) watchTree(watcher *fsnotify.Watcher, dir string) error {
	return godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return watcher.Add(path)
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			f.sink.Warnf("cannot watch %s: %v", path, err)
			return godirwalk.SkipNode
		},
	})
}
