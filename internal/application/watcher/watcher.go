// Package watcher drives the sync engine.
//
// Change notifications from any goroutine land in an event queue. Each tick
// drains the queue, force-checks the active object, links new objects,
// checks every text buffer for edits and finally removes documents whose
// geometry is gone. Ticks never overlap: a tick requested while another is
// running is folded into a re-run of the running one.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"vpgsync/internal/application"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// DefaultInterval is the poll period
const DefaultInterval = 100 * time.Millisecond

// EventKind tags an Event
type EventKind int

const (
	// GeometryChanged is the host reporting an edited object
	GeometryChanged EventKind = iota
	// ForceCheck asks for a geometry check whether or not anything was reported
	ForceCheck
	// TextChanged is a VPG file changing on disk
	TextChanged
)

func (k EventKind) String() string {
	switch k {
	case GeometryChanged:
		return "geometry-changed"
	case ForceCheck:
		return "force-check"
	case TextChanged:
		return "text-changed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one queued change notification
type Event struct {
	Kind   EventKind
	Object string // GeometryChanged, ForceCheck
	Path   string // TextChanged
}

// Options configures a Watcher
type Options struct {
	Interval     time.Duration
	HistorySize  int
	HistoryStore ports.HistoryStore // nil keeps history in memory only
	OnTick       func(domain.TickStats)
}

// RestoreResult describes an undo or redo step
type RestoreResult struct {
	Applied   bool
	ShortName string
	Path      string
	Cursor    int
	Len       int
}

// Watcher schedules engine work
type Watcher struct {
	engine   *engine.Engine
	host     ports.GeometryHost
	logger   *slog.Logger
	interval time.Duration
	onTick   func(domain.TickStats)

	// mu serialises ticks and commands; everything below it is guarded by it
	mu           sync.Mutex
	history      *History
	historyStore ports.HistoryStore

	qmu   sync.Mutex
	queue []Event
	wake  chan struct{}

	inTick atomic.Bool
	rerun  atomic.Bool

	statsMu sync.Mutex
	last    domain.TickStats
	ticks   int
}

// New creates a watcher and loads persisted history
func New(eng *engine.Engine, host ports.GeometryHost, opts Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	w := &Watcher{
		engine:       eng,
		host:         host,
		logger:       logger.With("component", "watcher"),
		interval:     opts.Interval,
		onTick:       opts.OnTick,
		history:      NewHistory(opts.HistorySize),
		historyStore: opts.HistoryStore,
		wake:         make(chan struct{}, 1),
	}
	if w.historyStore != nil {
		entries, cursor, err := w.historyStore.LoadHistory()
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		w.history.Load(entries, cursor)
	}
	return w, nil
}

// Notify queues an event and requests a run. Safe from any goroutine,
// including from inside a tick.
func (w *Watcher) Notify(ev Event) {
	w.qmu.Lock()
	w.queue = append(w.queue, ev)
	w.qmu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// ObjectChanged queues a GeometryChanged event; it fits a host change callback
func (w *Watcher) ObjectChanged(name string) {
	w.Notify(Event{Kind: GeometryChanged, Object: name})
}

// FileChanged queues a TextChanged event; it fits a disk watcher callback
func (w *Watcher) FileChanged(path string) {
	w.Notify(Event{Kind: TextChanged, Path: path})
}

func (w *Watcher) drain() []Event {
	w.qmu.Lock()
	defer w.qmu.Unlock()
	events := w.queue
	w.queue = nil
	return events
}

// Pending returns the number of queued events
func (w *Watcher) Pending() int {
	w.qmu.Lock()
	defer w.qmu.Unlock()
	return len(w.queue)
}

// Run ticks every interval, and early when an event arrives, until ctx is
// done
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watching", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Tick()
		case <-w.wake:
			w.Tick()
		}
	}
}

// Tick runs one reconciliation pass. A call made while another tick is in
// flight returns at once with Deferred set, and the running tick goes round
// again before it returns.
func (w *Watcher) Tick() domain.TickStats {
	if !w.inTick.CompareAndSwap(false, true) {
		w.rerun.Store(true)
		return domain.TickStats{Deferred: true}
	}

	w.mu.Lock()
	var stats domain.TickStats
	for {
		w.rerun.Store(false)
		stats = w.tick()
		if !w.rerun.Load() {
			break
		}
	}
	w.mu.Unlock()
	w.inTick.Store(false)

	w.statsMu.Lock()
	w.last = stats
	w.ticks++
	w.statsMu.Unlock()

	if w.onTick != nil {
		w.onTick(stats)
	}
	return stats
}

// tick is one pass; a panic anywhere in it is recovered so the next
// scheduled tick still runs
func (w *Watcher) tick() (stats domain.TickStats) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			stats.Failures++
			w.logger.Error("tick aborted", "panic", r)
		}
		stats.Duration = time.Since(start)
	}()

	events := w.drain()
	stats.EventsDrained = len(events)

	checked := make(map[string]bool)
	for _, ev := range events {
		switch ev.Kind {
		case GeometryChanged, ForceCheck:
			if checked[ev.Object] {
				continue
			}
			checked[ev.Object] = true
			w.syncGeometry(ev.Object, &stats)
		case TextChanged:
			if err := w.engine.Reload(ev.Path); err != nil {
				w.logger.Debug("ignoring file change", "path", ev.Path, "err", err)
			}
		}
	}

	if active, ok := w.host.ActiveObject(); ok && !checked[active] {
		w.syncGeometry(active, &stats)
	}

	w.autoLink(&stats)
	w.syncTexts(&stats)
	stats.OrphansRemoved = w.cleanup()
	return stats
}

func (w *Watcher) syncGeometry(name string, stats *domain.TickStats) {
	if !w.engine.Linked(name) {
		return
	}
	out, err := w.engine.SyncGeometry(name)
	if err != nil {
		stats.Failures++
		w.logger.Warn("geometry sync failed", "object", name, "err", err)
		return
	}
	if out == domain.OutcomeGeometryToText {
		stats.GeometryApplied++
	}
}

func (w *Watcher) autoLink(stats *domain.TickStats) {
	names, err := w.host.Objects()
	if err != nil {
		stats.Failures++
		w.logger.Warn("failed to list objects", "err", err)
		return
	}
	for _, name := range names {
		if w.engine.Linked(name) {
			continue
		}
		linked, err := w.engine.AutoLink(name)
		if err != nil {
			stats.Failures++
			w.logger.Warn("auto-link failed", "object", name, "err", err)
			continue
		}
		if linked {
			stats.Linked++
		}
	}
}

// syncTexts applies buffer edits. Each applied edit is an external one, so
// it is recorded in the history once per document.
func (w *Watcher) syncTexts(stats *domain.TickStats) {
	recorded := make(map[string]bool)
	for _, name := range w.engine.LinkedObjects() {
		out, err := w.engine.SyncText(name)
		if err != nil {
			stats.Failures++
			w.logger.Warn("text sync failed", "object", name, "err", err)
			continue
		}
		if out != domain.OutcomeTextToGeometry {
			continue
		}
		stats.TextApplied++

		path, _ := w.engine.Path(name)
		if recorded[path] {
			continue
		}
		recorded[path] = true
		if text, ok := w.engine.Text(name); ok {
			w.history.Record(domain.HistoryEntry{
				ShortName: domain.ShortName(path),
				Text:      text,
			})
			w.saveHistory()
		}
	}
}

// cleanup deletes every tracked document no live object refers to, along
// with its path mapping and history
func (w *Watcher) cleanup() int {
	live, err := w.engine.Prune()
	if err != nil {
		w.logger.Warn("orphan cleanup skipped", "err", err)
		return 0
	}

	docs := w.engine.Documents()
	removed := 0
	for _, path := range docs.Paths() {
		if live[path] {
			continue
		}
		if err := w.engine.RemoveDocument(path); err != nil {
			w.logger.Warn("failed to remove orphaned document", "path", path, "err", err)
			continue
		}
		if w.history.Forget(docs.ShortName(path)) > 0 {
			w.saveHistory()
		}
		removed++
		w.logger.Info("removed orphaned document", "path", path)
	}
	return removed
}

// Undo restores the previous history entry
func (w *Watcher) Undo() (*RestoreResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restore(w.history.Undo())
}

// Redo restores the next history entry
func (w *Watcher) Redo() (*RestoreResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restore(w.history.Redo())
}

// restore writes an entry's text into its buffer and rebuilds the geometry
// from it without recording a new entry
func (w *Watcher) restore(entry domain.HistoryEntry, ok bool) (*RestoreResult, error) {
	result := &RestoreResult{Cursor: w.history.Cursor(), Len: w.history.Len()}
	if !ok {
		return result, nil
	}
	w.saveHistory()

	docs := w.engine.Documents()
	path, found := docs.Resolve(entry.ShortName)
	if !found {
		return result, &application.SyncError{Op: "restore", Path: entry.ShortName, Err: application.ErrNotFound}
	}
	if err := docs.Write(path, entry.Text); err != nil {
		return result, err
	}

	for _, name := range w.engine.ObjectsForPath(path) {
		if _, err := w.engine.SyncText(name); err != nil {
			return result, err
		}
	}

	result.Applied = true
	result.ShortName = entry.ShortName
	result.Path = path
	w.logger.Info("restored history entry", "document", entry.ShortName, "cursor", result.Cursor)
	return result, nil
}

// History returns the history length and cursor
func (w *Watcher) History() (length, cursor int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history.Len(), w.history.Cursor()
}

func (w *Watcher) saveHistory() {
	if w.historyStore == nil {
		return
	}
	entries, cursor := w.history.Snapshot()
	if err := w.historyStore.SaveHistory(entries, cursor); err != nil {
		w.logger.Warn("failed to save history", "err", err)
	}
}

// Do runs fn with exclusive access to the engine
func (w *Watcher) Do(fn func(e *engine.Engine) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.engine)
}

// Status returns the engine's per-object status
func (w *Watcher) Status() []domain.ObjectStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.Status()
}

// LastStats returns the stats of the most recent tick and the tick count
func (w *Watcher) LastStats() (domain.TickStats, int) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	return w.last, w.ticks
}
