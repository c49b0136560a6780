package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a report file must stay quiet after its last
// write before it is queued. Report generators write incrementally, so
// importing on the first Create event would parse a truncated file.
const settleDelay = 500 * time.Millisecond

// Watcher monitors the configured reports directory and queues newly
// written *.json files for import. The queue is drained on the next
// Update tick, so world mutation stays on the game loop's thread.
type Watcher struct {
	fw     *fsnotify.Watcher
	files  chan string
	logger *slog.Logger
}

// NewWatcher watches dir, creating it if missing.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, files: make(chan string, 16), logger: logger}
	go w.run()
	return w, nil
}

// Files returns the queue of report paths awaiting import.
func (w *Watcher) Files() <-chan string {
	return w.files
}

// Close stops the watcher and closes the queue.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// isReportEvent reports whether a filesystem event may be a turn report
// arriving. Create and Write both count: a slow writer keeps pushing
// the settle deadline back until the file stops changing.
func isReportEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	return strings.ToLower(filepath.Ext(ev.Name)) == ".json"
}

func (w *Watcher) run() {
	defer close(w.files)
	pending := map[string]time.Time{}
	tick := time.NewTicker(settleDelay / 2)
	defer tick.Stop()
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if isReportEvent(ev) {
				pending[ev.Name] = time.Now()
			}
		case now := <-tick.C:
			for name, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, name)
				if _, err := os.Stat(name); err != nil {
					continue
				}
				select {
				case w.files <- name:
				default:
					w.logger.Warn("import queue full, dropping report", "path", name)
				}
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("report watcher error", "err", err)
		}
	}
}
