package daemon

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TemplateWatcher monitors the README for external edits and triggers a
// re-render. Events caused by the daemon's own rewrite converge on their
// own: the follow-up render is idempotent and an unchanged result is never
// written back.
type TemplateWatcher struct {
	path         string
	watcher      *fsnotify.Watcher
	onChange     func()
	logger       Logger
	debounceTime time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// NewTemplateWatcher creates a watcher for the document at path.
func NewTemplateWatcher(path string, onChange func(), logger Logger) (*TemplateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Resolve absolute path for consistent event matching
	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	return &TemplateWatcher{
		path:         absPath,
		watcher:      watcher,
		onChange:     onChange,
		logger:       logger,
		debounceTime: 2 * time.Second, // Debounce rapid file changes
		stopChan:     make(chan struct{}),
	}, nil
}

// Start begins monitoring. The containing directory is watched rather than
// the file itself: the atomic rename step of a rewrite would otherwise drop
// the watch.
func (w *TemplateWatcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.logger.Printf("Template watcher: watching %s", w.path)

	w.wg.Add(1)
	go w.watchLoop()

	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *TemplateWatcher) Stop() {
	close(w.stopChan)
	w.watcher.Close()
	w.wg.Wait()
}

// watchLoop collapses bursts of events into a single onChange call per
// debounce window.
func (w *TemplateWatcher) watchLoop() {
	defer w.wg.Done()

	var (
		debounce  *time.Timer
		debounceC <-chan time.Time
	)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(w.debounceTime)
				debounceC = debounce.C
			} else {
				// Drain a fire that raced the Stop, so Reset cannot
				// deliver a stale early trigger.
				if !debounce.Stop() {
					select {
					case <-debounceC:
					default:
					}
				}
				debounce.Reset(w.debounceTime)
			}

		case <-debounceC:
			debounce = nil
			debounceC = nil
			w.logger.Printf("Template watcher: %s changed, re-rendering", w.path)
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("Template watcher: error: %v", err)

		case <-w.stopChan:
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}
