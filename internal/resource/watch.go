package resource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watch invalidates cached entries as files under the root change and,
// once writes settle for debounce, calls onChange with the changed ids in
// sorted order. It blocks until ctx is done.
func (l *Loader) Watch(ctx context.Context, debounce time.Duration, onChange func(ids []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := addTree(w, l.root); err != nil {
		return err
	}
	l.log.Debug().Str("dir", l.root).Msg("watching resources")

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		changed = map[string]struct{}{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if isDir(ev.Name) {
					_ = addTree(w, ev.Name)
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			id, ok := l.id(ev.Name)
			if !ok {
				continue
			}
			l.Invalidate(id)
			changed[id] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if len(changed) == 0 {
				continue
			}
			ids := make([]string, 0, len(changed))
			for id := range changed {
				ids = append(ids, id)
			}
			slices.Sort(ids)
			clear(changed)
			l.log.Debug().Strs("ids", ids).Msg("resources changed")
			if onChange != nil {
				onChange(ids)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.Warn().Err(err).Msg("resource watcher error")
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
