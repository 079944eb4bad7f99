// Package watcher provides file watching for configuration live reload.
//
// The watcher monitors configuration files through fsnotify and calls
// handlers once a file has been quiet for the debounce interval. The
// directory holding each file is watched rather than the file itself, so
// editors that save by renaming a temporary file over the original are
// still seen.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last raw event for the file arrived.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.RWMutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	handlers []Handler
	onError  func(error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running bool

	debounce  time.Duration
	pendingMu sync.Mutex
	pending   map[string]*pendingEvent
}

// pendingEvent holds a debounced event until its timer fires.
type pendingEvent struct {
	Op    Operation
	Time  time.Time
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the function told about fsnotify errors.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a new file watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*pendingEvent),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Watch adds a file to the watch list. The file need not exist yet; its
// directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[absPath] {
		return nil
	}
	dir := filepath.Dir(absPath)
	if w.fsw != nil && w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.files[absPath] = true
	w.dirs[dir]++
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[absPath] {
		return nil
	}
	delete(w.files, absPath)
	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if w.fsw != nil {
		return w.fsw.Remove(dir)
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching files for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return err
		}
	}

	w.fsw = fsw
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true

	w.wg.Add(1)
	go w.eventLoop(fsw)
	return nil
}

// Stop stops watching files. Pending debounced events are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	_ = fsw.Close()
	w.wg.Wait()

	w.pendingMu.Lock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.pendingMu.Unlock()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the list of watched files.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

func (w *Watcher) eventLoop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// handle filters a raw event down to the watched files.
func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	var op Operation
	switch {
	case ev.Has(fsnotify.Remove):
		op = OpRemove
	case ev.Has(fsnotify.Rename):
		op = OpRename
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Write):
		op = OpWrite
	default:
		return
	}

	event := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce > 0 {
		w.queueEvent(event)
	} else {
		w.emitEvent(event)
	}
}

// queueEvent queues an event for debounced delivery.
// It coalesces events:
// - create + write => create
// - write + write => write
// - any + remove => remove
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	existing, exists := w.pending[event.Path]
	if !exists {
		p := &pendingEvent{Op: event.Op, Time: event.Time}
		p.timer = time.AfterFunc(w.debounce, func() { w.fire(event.Path) })
		w.pending[event.Path] = p
		return
	}

	switch event.Op {
	case OpRemove, OpCreate:
		existing.Op = event.Op
	case OpWrite:
	default:
		if existing.Op == OpWrite {
			existing.Op = event.Op
		}
	}
	existing.Time = event.Time
	existing.timer.Reset(w.debounce)
}

// fire emits the pending event for path once its timer expires.
func (w *Watcher) fire(path string) {
	w.pendingMu.Lock()
	p, ok := w.pending[path]
	if ok {
		delete(w.pending, path)
	}
	w.pendingMu.Unlock()

	if ok && w.IsRunning() {
		w.emitEvent(Event{Path: path, Op: p.Op, Time: p.Time})
	}
}

// emitEvent calls all handlers with the event. A panicking handler does
// not stop the others or the watcher.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		w.safeCallHandler(handler, event)
	}
}

func (w *Watcher) safeCallHandler(handler Handler, event Event) {
	defer func() {
		_ = recover()
	}()
	handler(event)
}
