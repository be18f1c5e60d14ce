package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch re-scans root whenever a source file is created, written, or
// removed, calling onScan with each fresh result. It blocks until ctx
// is cancelled or the watcher fails.
func (s *Scanner) Watch(ctx context.Context, root string, onScan func(*Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirs(watcher, root); err != nil {
		return err
	}

	result, err := s.ScanDir(ctx, root)
	if err != nil {
		return err
	}
	onScan(result)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories need watching before their files
			// produce events.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					addDirs(watcher, event.Name)
				}
			}
			if !IsSourceFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if s.log != nil {
				s.log.Debugf("change detected: %s", event)
			}
			result, err := s.ScanDir(ctx, root)
			if err != nil {
				return err
			}
			onScan(result)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if s.log != nil {
				s.log.Errorf("watch: %v", err)
			}
		}
	}
}

func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if name := info.Name(); len(name) > 1 && name[0] == '.' {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
