// Package watch monitors the category source directories and triggers the
// non-interactive pipeline stages when downloads settle. Naming conflicts
// are never resolved here; they are reported and left for an interactive
// run.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/imiko/srefkit/config"
)

// DefaultSettle is how long a directory must stay quiet before a run is
// triggered. Generators drop files in bursts; one run per burst is enough.
const DefaultSettle = 500 * time.Millisecond

// Watcher debounces file events per directory and invokes Trigger once a
// burst settles.
type Watcher struct {
	Config *config.Config
	// Trigger runs the auto pipeline. Called from the watch goroutine,
	// never concurrently with itself.
	Trigger func(ctx context.Context) error
	// Settle overrides the debounce interval. Zero means DefaultSettle.
	Settle time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	fire   chan string
}

// Run watches every category source directory until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, cat := range w.Config.Categories {
		dir := w.Config.SourceDir(cat)
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		log.Info("watching", "dir", dir)
	}

	w.timers = make(map[string]*time.Timer)
	w.fire = make(chan string, 16)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".png" {
				continue
			}
			w.bump(filepath.Dir(event.Name))
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		case dir := <-w.fire:
			log.Info("changes settled, running pipeline", "dir", dir)
			if err := w.Trigger(ctx); err != nil {
				log.Error("auto run failed", "err", err)
			}
		}
	}
}

// bump resets the directory's settle timer, coalescing bursts of events
// into one trigger.
func (w *Watcher) bump(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	settle := w.Settle
	if settle == 0 {
		settle = DefaultSettle
	}
	if timer, ok := w.timers[dir]; ok {
		timer.Reset(settle)
		return
	}
	w.timers[dir] = time.AfterFunc(settle, func() {
		w.mu.Lock()
		delete(w.timers, dir)
		w.mu.Unlock()
		w.fire <- dir
	})
}
