package shelfstore

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ag758/dashbin"
)

// watchDebounce coalesces the burst of events a single SQLite commit emits
// (main file, -wal, -shm) into one reload.
const watchDebounce = 200 * time.Millisecond

// Watcher reports external writes to the shelf database so an open session
// can reload history written by another window. Watch errors are logged,
// never fatal; at worst the other window's changes show up on restart.
type Watcher struct {
	fs   *fsnotify.Watcher
	deb  *dashbin.Debouncer
	done chan struct{}
}

// Watch starts watching the shelf directory and invokes onChange, debounced,
// whenever the database file is written or recreated.
func Watch(dir string, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}
	w := &Watcher{
		fs:   fs,
		deb:  dashbin.NewDebouncer(watchDebounce),
		done: make(chan struct{}),
	}
	go w.loop(onChange, logger)
	return w, nil
}

// Close stops the watcher and any pending reload.
func (w *Watcher) Close() error {
	close(w.done)
	w.deb.Stop()
	return w.fs.Close()
}

func (w *Watcher) loop(onChange func(), logger *zap.Logger) {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 && isShelfFile(ev.Name) {
				w.deb.Schedule(onChange)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("shelf watch error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// isShelfFile matches the database and its WAL/SHM sidecars.
func isShelfFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), FileName)
}
