// Package watcher polls a render inbox and reports new or changed images.
package watcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Operations reported in events.
const (
	OpCreate = "create"
	OpModify = "modify"
	OpDelete = "delete"
)

// Event represents a file system change event.
type Event struct {
	Path      string
	Operation string
	Timestamp time.Time
}

// Handler is called with each debounced batch of events.
type Handler func(events []Event)

// Config configures the watcher.
type Config struct {
	// Root is the directory to watch.
	Root string

	// Extensions is the list of file extensions to watch, matched
	// case-insensitively.
	Extensions []string

	// Exclude lists doublestar patterns, relative to Root, for files and
	// directories to skip.
	Exclude []string

	// Debounce is the duration to wait after the last change before triggering.
	Debounce time.Duration

	// Interval is the polling period. Default: 250ms.
	Interval time.Duration

	// IncludeExisting reports files already present at Start as created.
	IncludeExisting bool

	// OnChange is called when changes are detected.
	OnChange Handler
}

// DefaultConfig returns a configuration for watching PNG renders.
// Stored snapshots and failed variants are never reported.
func DefaultConfig(root string, onChange Handler) Config {
	return Config{
		Root:       root,
		Extensions: []string{".png"},
		Exclude:    []string{"**/__snapshots__", "**/.snapguard", "**/.git", "**/*-FAILED.png"},
		Debounce:   500 * time.Millisecond,
		Interval:   250 * time.Millisecond,
		OnChange:   onChange,
	}
}

type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher watches for file changes and triggers callbacks.
type Watcher struct {
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	debouncer *debouncer
}

// New creates a new file watcher.
func New(config Config) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 250 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
	w.debouncer = newDebouncer(config.Debounce, config.OnChange)
	return w
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	files, err := w.collectFiles()
	if err != nil {
		return err
	}

	w.debouncer.start(w.ctx)

	if w.config.IncludeExisting {
		w.detectChanges(map[string]fileState{}, files)
	}

	w.wg.Add(1)
	go w.poll(files)

	return nil
}

// Stop stops the watcher. Pending events are discarded.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *Watcher) poll(initial map[string]fileState) {
	defer w.wg.Done()

	current := initial
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			next, err := w.collectFiles()
			if err != nil {
				continue
			}
			w.detectChanges(current, next)
			current = next
		}
	}
}

// collectFiles collects all watched files and their modification state.
func (w *Watcher) collectFiles() (map[string]fileState, error) {
	files := make(map[string]fileState)

	err := filepath.WalkDir(w.config.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.config.Root {
				return err
			}
			return nil // Skip inaccessible files
		}

		if d.IsDir() {
			if path != w.config.Root && w.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.shouldWatch(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		files[path] = fileState{modTime: info.ModTime(), size: info.Size()}
		return nil
	})

	return files, err
}

// shouldWatch returns true if the file should be watched.
func (w *Watcher) shouldWatch(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	hasValidExt := false
	for _, e := range w.config.Extensions {
		if ext == strings.ToLower(e) {
			hasValidExt = true
			break
		}
	}
	if !hasValidExt {
		return false
	}

	return !w.excluded(path)
}

func (w *Watcher) excluded(path string) bool {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.config.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// A directory pattern also covers everything below it.
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/")+"/**", rel); ok {
			return true
		}
	}
	return false
}

// detectChanges compares old and new file states and emits events.
func (w *Watcher) detectChanges(old, next map[string]fileState) {
	now := time.Now()

	for path, state := range next {
		prev, exists := old[path]
		switch {
		case !exists:
			w.debouncer.add(Event{Path: path, Operation: OpCreate, Timestamp: now})
		case !state.modTime.Equal(prev.modTime) || state.size != prev.size:
			w.debouncer.add(Event{Path: path, Operation: OpModify, Timestamp: now})
		}
	}

	for path := range old {
		if _, exists := next[path]; !exists {
			w.debouncer.add(Event{Path: path, Operation: OpDelete, Timestamp: now})
		}
	}
}

// Coalesce keeps the last event per path, dropping paths whose final
// operation is a delete. Order follows first appearance.
func Coalesce(events []Event) []Event {
	last := make(map[string]Event, len(events))
	var order []string
	for _, e := range events {
		if _, seen := last[e.Path]; !seen {
			order = append(order, e.Path)
		}
		last[e.Path] = e
	}

	out := make([]Event, 0, len(order))
	for _, p := range order {
		if e := last[p]; e.Operation != OpDelete {
			out = append(out, e)
		}
	}
	return out
}

// debouncer collects events and triggers the handler after a delay.
type debouncer struct {
	delay   time.Duration
	handler Handler
	mu      sync.Mutex
	events  []Event
	timer   *time.Timer
}

func newDebouncer(delay time.Duration, handler Handler) *debouncer {
	return &debouncer{
		delay:   delay,
		handler: handler,
	}
}

func (d *debouncer) start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		d.mu.Lock()
		if d.timer != nil {
			d.timer.Stop()
		}
		d.mu.Unlock()
	}()
}

func (d *debouncer) add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	events := d.events
	d.events = nil
	d.mu.Unlock()

	if len(events) > 0 && d.handler != nil {
		d.handler(events)
	}
}
