// Package watcher reports files that settle in a directory.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op represents the type of file operation that triggered an event
type Op int

const (
	// Created indicates a new file appeared in the directory
	Created Op = iota
	// Written indicates an existing file was written to
	Written
)

// String returns a human-readable representation of the operation
func (op Op) String() string {
	switch op {
	case Created:
		return "created"
	case Written:
		return "written"
	default:
		return "unknown"
	}
}

// Event is emitted once a path has been quiet for the debounce delay
type Event struct {
	Path      string    // Absolute path to the file
	Op        Op        // First operation seen in the burst
	Timestamp time.Time // When the event was emitted
}

// DefaultDebounceDelay is used when a non-positive delay is given
const DefaultDebounceDelay = 500 * time.Millisecond

// Filter reports whether a path should be dropped before debouncing.
type Filter func(path string) bool

// Watcher watches the top level of one directory for created or written files.
// Subdirectories are not watched; removals, renames away and chmods are dropped.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	rootDir string
	skip    Filter

	mu            sync.Mutex
	debounceDelay time.Duration
	debounceMap   map[string]*pending
	closed        bool
}

type pending struct {
	timer *time.Timer
	op    Op
}

// New starts watching rootDir. skip may be nil.
func New(rootDir string, debounce time.Duration, skip Filter) (*Watcher, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:       fsw,
		events:        make(chan Event, 100),
		errors:        make(chan error, 10),
		done:          make(chan struct{}),
		rootDir:       root,
		skip:          skip,
		debounceDelay: debounce,
		debounceMap:   make(map[string]*pending),
	}

	go w.processEvents()

	return w, nil
}

// processEvents converts fsnotify events into debounced Events
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Error channel full, drop the error
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if filepath.Dir(path) != w.rootDir {
		return
	}
	if w.skip != nil && w.skip(path) {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = Created
	case event.Has(fsnotify.Write):
		op = Written
	default:
		return
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return
	}

	w.debounce(path, op)
}

// debounce coalesces a burst of events for the same path into one
func (w *Watcher) debounce(path string, op Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if p, exists := w.debounceMap[path]; exists {
		p.timer.Reset(w.debounceDelay)
		return
	}

	p := &pending{op: op}
	p.timer = time.AfterFunc(w.debounceDelay, func() {
		w.mu.Lock()
		delete(w.debounceMap, path)
		w.mu.Unlock()

		w.sendEvent(path, p.op)
	})
	w.debounceMap[path] = p
}

func (w *Watcher) sendEvent(path string, op Op) {
	event := Event{
		Path:      path,
		Op:        op,
		Timestamp: time.Now(),
	}

	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel of settled files
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// RootDir returns the absolute directory being watched
func (w *Watcher) RootDir() string {
	return w.rootDir
}

// Close stops the watcher and cancels pending debounce timers.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	for _, p := range w.debounceMap {
		p.timer.Stop()
	}
	w.debounceMap = nil
	w.mu.Unlock()

	close(w.done)

	return w.watcher.Close()
}
