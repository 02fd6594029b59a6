// Package watch reports changes to document files under a directory tree.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
)

// DefaultDebounce is used when the configured debounce is empty or invalid.
const DefaultDebounce = 300 * time.Millisecond

var documentExtensions = []string{".yaml", ".yml", ".json"}

// Watcher calls OnChange once per burst of document file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	onChange func()
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	mu       sync.Mutex
}

// ParseDebounce parses a duration such as "500ms", falling back to DefaultDebounce.
func ParseDebounce(s string) time.Duration {
	if s == "" {
		return DefaultDebounce
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Warn("Invalid watch debounce, using default", "debounce", s, "default", DefaultDebounce)
		return DefaultDebounce
	}
	return d
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string, debounce time.Duration, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrWatcherStart).
			WithContext("path", root).
			WithContext("cause", err.Error()).
			Err()
	}

	watcher := &Watcher{
		watcher:  w,
		root:     root,
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if err := watcher.addTree(root); err != nil {
		w.Close()
		return nil, errUtils.Build(errUtils.ErrWatcherStart).
			WithHint("Check that the base path exists and is readable").
			WithContext("path", root).
			WithContext("cause", err.Error()).
			Err()
	}

	log.Debug("Watcher initialized", "path", root, "debounce", debounce)
	return watcher, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			log.Trace("Document change", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

// relevant reports whether ev touches a document file. New directories are added to the watch.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log.Warn("Cannot watch new directory", "path", ev.Name, "error", err)
			}
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	for _, e := range documentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Stop stops watching and waits for the background goroutine.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}
	return w.watcher.Close()
}
