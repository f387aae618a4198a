// Package watch notifies when the set of eligible data files may have changed.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"dataviz/internal/catalog"
	"dataviz/internal/errors"
	"dataviz/internal/log"
	"dataviz/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events, such as an editor saving a file
const DefaultDebounce = 150 * time.Millisecond

// Change is one coalesced notification about the data directory
type Change struct {
	// Paths of the matching files touched since the last notification
	Paths     []string
	Timestamp time.Time
}

// Watcher monitors the data directory with fsnotify and reports changes to
// files that match the catalog pattern
type Watcher struct {
	dir      string
	matcher  *catalog.Matcher
	debounce time.Duration

	// Channel to deliver catalog changes
	changes chan Change

	// Channel to signal stop
	stopChan chan struct{}
	done     chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	closed  bool
}

// New creates a watcher for dir reporting files that match pattern
func New(dir, pattern string) (*Watcher, error) {
	matcher, err := catalog.NewMatcher(pattern)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewFileError("cannot watch data directory", dir, errors.DirectoryNotFound, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("not a directory", dir, errors.DirectoryNotFound, nil)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, errors.Wrapf(err, "failed to add directory %s to watcher", dir)
	}

	return &Watcher{
		dir:       dir,
		matcher:   matcher,
		debounce:  DefaultDebounce,
		changes:   make(chan Change, 1),
		fsWatcher: fsWatcher,
	}, nil
}

// SetDebounce changes the quiet period before a notification is sent.
// It must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Changes returns the channel that delivers notifications. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return errors.Newf("watcher for %s is stopped", w.dir)
	}
	if w.running {
		return errors.Newf("watcher for %s already running", w.dir)
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop()

	log.LogWithFields(log.F("directory", w.dir), log.F("pattern", w.matcher.Pattern())).Info("Watching data directory")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	seen := make(map[string]bool)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if !seen[event.Name] {
				seen[event.Name] = true
				pending = append(pending, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			w.notify(Change{Paths: pending, Timestamp: time.Now()})
			pending = nil
			seen = make(map[string]bool)
			fire = nil

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant filters out chmod events, directories and non-matching names
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	if filepath.Dir(event.Name) != filepath.Clean(w.dir) || !w.matcher.Match(event.Name) {
		return false
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return false
	}
	return true
}

func (w *Watcher) notify(c Change) {
	metrics.CatalogChanges.Inc()
	// Drop the notification if the consumer has one queued already; it
	// will relist anyway.
	select {
	case w.changes <- c:
		log.LogWithFields(log.F("files", len(c.Paths))).Debug("Data directory changed")
	default:
		log.LogWithFields(log.F("files", len(c.Paths))).Debug("Change already pending, dropped notification")
	}
}

// Stop halts the watcher, releases the fsnotify watcher and closes the
// Changes channel. It is safe on a watcher that never started.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return
	}
	w.closed = true

	if w.running {
		close(w.stopChan)
		<-w.done
		w.running = false
	}

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	close(w.changes)

	log.Info("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
