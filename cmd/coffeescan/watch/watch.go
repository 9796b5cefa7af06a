// Package watch re-parses a file from scratch every time it changes on
// disk. Re-parsing is always total — a write event throws away the previous
// tree and runs the whole pipeline again.
package watch

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Result is one re-parse outcome, reported through the OnChange callback.
type Result struct {
	Source []byte
	Err    error
}

// Run watches path until ctx-equivalent stop is closed, invoking onChange
// once immediately and again after every debounced write event. debounce
// coalesces the burst of events a single save often produces (several
// WRITE/CHMOD events per editor save is typical).
func Run(path string, debounce time.Duration, stop <-chan struct{}, onChange func(Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	emit := func() {
		source, err := os.ReadFile(path)
		onChange(Result{Source: source, Err: err})
	}
	emit()

	var debounceTimer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			emit()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(Result{Err: fmt.Errorf("watcher error: %w", werr)})
		}
	}
}
