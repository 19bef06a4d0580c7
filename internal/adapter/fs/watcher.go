package fs

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports header changes under a root directory after a quiet
// period, so a burst of saves triggers a single callback.
type Watcher struct {
	watcher     *fsnotify.Watcher
	root        string
	walker      *Walker
	debounce    time.Duration
	accumulated map[string]bool
	mu          sync.Mutex
	timer       *time.Timer
}

func NewWatcher(root string, walker *Walker, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	root, err = filepath.Abs(root)
	if err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:     fw,
		root:        root,
		walker:      walker,
		debounce:    debounce,
		accumulated: make(map[string]bool),
	}
	if err := w.addRecursive(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is done, invoking onChange with the changed header
// paths once each burst of events settles.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, onChange func([]string)) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				log.Printf("watch %s: %v", event.Name, err)
			}
			return
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || !w.walker.Match(filepath.ToSlash(rel)) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.accumulated[event.Name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		paths := make([]string, 0, len(w.accumulated))
		for p := range w.accumulated {
			paths = append(paths, p)
		}
		w.accumulated = make(map[string]bool)
		w.mu.Unlock()

		onChange(paths)
	})
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		if rel != "." && w.walker.shouldExclude(filepath.ToSlash(rel)+"/") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
