package filesystem

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events one save produces
const DefaultDebounce = 50 * time.Millisecond

// ErrWatcherClosed is returned by calls on a closed DiskWatcher
var ErrWatcherClosed = errors.New("disk watcher closed")

// DiskWatcher reports writes to tracked files.
//
// fsnotify watches directories; the parent directory of every tracked file
// is watched and events for untracked files in it are dropped. Editors that
// save by writing a new file and renaming it over the old one show up as a
// Create, which counts as a change.
type DiskWatcher struct {
	mu sync.Mutex

	watcher  *fsnotify.Watcher
	onChange func(path string)
	debounce time.Duration
	logger   *slog.Logger

	files  map[string]bool
	dirs   map[string]int // watched directory -> tracked files in it
	timers map[string]*time.Timer

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewDiskWatcher starts a watcher calling onChange, from its own goroutine,
// for each settled change to a tracked file
func NewDiskWatcher(onChange func(path string), debounce time.Duration, logger *slog.Logger) (*DiskWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	d := &DiskWatcher{
		watcher:  fsw,
		onChange: onChange,
		debounce: debounce,
		logger:   logger.With("component", "disk-watcher"),
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
	}

	d.wg.Add(1)
	go d.processLoop()
	return d, nil
}

// Track starts reporting changes to path. Relative paths are ignored: they
// name buffers that were never saved to disk.
func (d *DiskWatcher) Track(path string) error {
	if !filepath.IsAbs(path) {
		return nil
	}
	path = filepath.Clean(path)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrWatcherClosed
	}
	if d.files[path] {
		return nil
	}

	dir := filepath.Dir(path)
	if d.dirs[dir] == 0 {
		if err := d.watcher.Add(dir); err != nil {
			return err
		}
	}
	d.dirs[dir]++
	d.files[path] = true
	return nil
}

// Untrack stops reporting changes to path
func (d *DiskWatcher) Untrack(path string) error {
	path = filepath.Clean(path)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrWatcherClosed
	}
	if !d.files[path] {
		return nil
	}
	delete(d.files, path)

	dir := filepath.Dir(path)
	d.dirs[dir]--
	if d.dirs[dir] <= 0 {
		delete(d.dirs, dir)
		if err := d.watcher.Remove(dir); err != nil {
			return err
		}
	}
	return nil
}

// Sync makes the tracked set equal to paths
func (d *DiskWatcher) Sync(paths []string) error {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			want[filepath.Clean(p)] = true
		}
	}

	var errs []error
	for _, p := range d.Tracked() {
		if !want[p] {
			errs = append(errs, d.Untrack(p))
		}
	}
	for p := range want {
		errs = append(errs, d.Track(p))
	}
	return errors.Join(errs...)
}

// Tracked returns the tracked paths, sorted
func (d *DiskWatcher) Tracked() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, 0, len(d.files))
	for p := range d.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Close stops the watcher and cancels pending notifications
func (d *DiskWatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.closeCh)
	for _, t := range d.timers {
		t.Stop()
	}
	d.mu.Unlock()

	d.wg.Wait()
	return d.watcher.Close()
}

func (d *DiskWatcher) processLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.closeCh:
			return

		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				d.schedule(filepath.Clean(ev.Name))
			}

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("watch error", "err", err)
		}
	}
}

// schedule (re)starts the debounce timer of a tracked path
func (d *DiskWatcher) schedule(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || !d.files[path] {
		return
	}
	if t, ok := d.timers[path]; ok {
		t.Reset(d.debounce)
		return
	}
	d.timers[path] = time.AfterFunc(d.debounce, func() {
		d.mu.Lock()
		delete(d.timers, path)
		stop := d.closed || !d.files[path]
		d.mu.Unlock()
		if stop {
			return
		}
		d.logger.Debug("file changed", "path", path)
		d.onChange(path)
	})
}
