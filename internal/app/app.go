// Package app wires the SQLite store, the document store, the engine and the
// watcher together for the binaries.
package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vpgsync/internal/adapters/filesystem"
	"vpgsync/internal/adapters/sqlite"
	"vpgsync/internal/application/documents"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/config"
	"vpgsync/internal/domain"
)

// Runtime holds the wired components of one process
type Runtime struct {
	Config  config.Config
	Logger  *slog.Logger
	Store   *sqlite.Store
	Scene   *sqlite.Scene
	Files   filesystem.Files
	Engine  *engine.Engine
	Watcher *watcher.Watcher

	diskMu sync.Mutex
	disk   *filesystem.DiskWatcher
}

// Open opens the database, restores persisted links and history and
// returns a ready watcher. The caller must Close the runtime.
func Open(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Scene:  store.Scene(),
		Files:  filesystem.NewFiles(),
	}

	buffers := store.Buffers()
	docs, err := documents.NewStore(buffers, rt.Files, buffers, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	rt.Engine = engine.New(rt.Scene, docs, logger)
	restored, err := rt.Engine.Restore()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to restore links: %w", err)
	}

	rt.Watcher, err = watcher.New(rt.Engine, rt.Scene, watcher.Options{
		Interval:     cfg.PollInterval,
		HistorySize:  cfg.HistorySize,
		HistoryStore: store.History(),
		OnTick:       rt.onTick,
	}, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	logger.Debug("runtime ready", "db", store.Path(), "restored", restored)
	return rt, nil
}

// WatchDisk starts reporting writes to tracked .vpg files as watcher events.
// The tracked set follows the document store after every tick.
func (rt *Runtime) WatchDisk(debounce time.Duration) error {
	rt.diskMu.Lock()
	defer rt.diskMu.Unlock()
	if rt.disk != nil {
		return nil
	}
	disk, err := filesystem.NewDiskWatcher(rt.Watcher.FileChanged, debounce, rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to start disk watcher: %w", err)
	}
	rt.disk = disk
	return rt.syncDisk()
}

// Watched returns the files the disk watcher currently reports on
func (rt *Runtime) Watched() []string {
	rt.diskMu.Lock()
	defer rt.diskMu.Unlock()
	if rt.disk == nil {
		return nil
	}
	return rt.disk.Tracked()
}

func (rt *Runtime) onTick(domain.TickStats) {
	rt.diskMu.Lock()
	defer rt.diskMu.Unlock()
	if rt.disk == nil {
		return
	}
	if err := rt.syncDisk(); err != nil {
		rt.Logger.Warn("failed to update watched files", "err", err)
	}
}

// syncDisk must be called with diskMu held
func (rt *Runtime) syncDisk() error {
	var paths []string
	rt.Watcher.Do(func(e *engine.Engine) error {
		paths = e.Documents().Paths()
		return nil
	})
	return rt.disk.Sync(paths)
}

// Close stops the disk watcher and closes the database
func (rt *Runtime) Close() error {
	rt.diskMu.Lock()
	if rt.disk != nil {
		rt.disk.Close()
		rt.disk = nil
	}
	rt.diskMu.Unlock()
	return rt.Store.Close()
}
