// Package documents tracks the text buffers that mirror VPG files.
//
// Buffers are keyed by short name (the file's base name). The store owns the
// short name -> full path mapping and refuses to track two different paths
// under one short name.
package documents

import (
	"fmt"
	"log/slog"
	"sort"

	"vpgsync/internal/application"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// Store is the document store
type Store struct {
	buffers ports.TextBuffers
	fs      ports.FileSystem
	paths   ports.PathMap // nil keeps the mapping in memory only
	logger  *slog.Logger

	byShort map[string]string
}

// NewStore creates a document store and loads any persisted path mapping
func NewStore(buffers ports.TextBuffers, fs ports.FileSystem, paths ports.PathMap, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		buffers: buffers,
		fs:      fs,
		paths:   paths,
		logger:  logger.With("component", "documents"),
		byShort: make(map[string]string),
	}
	if paths != nil {
		loaded, err := paths.LoadPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to load path mapping: %w", err)
		}
		for short, full := range loaded {
			s.byShort[short] = full
		}
	}
	return s, nil
}

// ShortName returns the buffer name used for path
func (s *Store) ShortName(path string) string {
	return domain.ShortName(path)
}

// Write stores text in the buffer for path, creating the buffer and the
// mapping on first use
func (s *Store) Write(path, text string) error {
	short := domain.ShortName(path)
	if existing, ok := s.byShort[short]; ok && existing != path {
		return &application.CollisionError{ShortName: short, Existing: existing, Requested: path}
	}

	if err := s.buffers.Put(short, text); err != nil {
		return fmt.Errorf("failed to write buffer %s: %w", short, err)
	}

	if _, ok := s.byShort[short]; !ok {
		s.byShort[short] = path
		if s.paths != nil {
			if err := s.paths.SavePath(short, path); err != nil {
				return fmt.Errorf("failed to save path mapping: %w", err)
			}
		}
	}
	return nil
}

// Read returns the buffer content for path
func (s *Store) Read(path string) (string, bool) {
	short := domain.ShortName(path)
	if full, ok := s.byShort[short]; !ok || full != path {
		return "", false
	}
	return s.buffers.Get(short)
}

// Remove deletes the buffer and mapping for path
func (s *Store) Remove(path string) error {
	short := domain.ShortName(path)
	if full, ok := s.byShort[short]; ok && full != path {
		return nil
	}
	if err := s.buffers.Delete(short); err != nil {
		return fmt.Errorf("failed to delete buffer %s: %w", short, err)
	}
	delete(s.byShort, short)
	if s.paths != nil {
		if err := s.paths.DeletePath(short); err != nil {
			return fmt.Errorf("failed to delete path mapping: %w", err)
		}
	}
	return nil
}

// Tracked reports whether path has a buffer mapping
func (s *Store) Tracked(path string) bool {
	full, ok := s.byShort[domain.ShortName(path)]
	return ok && full == path
}

// Resolve returns the full path tracked under a short name
func (s *Store) Resolve(shortName string) (string, bool) {
	full, ok := s.byShort[shortName]
	return full, ok
}

// Paths returns all tracked paths, sorted
func (s *Store) Paths() []string {
	out := make([]string, 0, len(s.byShort))
	for _, full := range s.byShort {
		out = append(out, full)
	}
	sort.Strings(out)
	return out
}

// Documents returns a snapshot of every tracked document
func (s *Store) Documents() []domain.TextDocument {
	var docs []domain.TextDocument
	for _, path := range s.Paths() {
		content, _ := s.Read(path)
		docs = append(docs, domain.TextDocument{
			ShortName: domain.ShortName(path),
			FullPath:  path,
			Content:   content,
		})
	}
	return docs
}

// LoadFromDisk reads path from disk into its buffer and returns the text
func (s *Store) LoadFromDisk(path string) (string, error) {
	text, ok := s.fs.ReadFile(path)
	if !ok {
		return "", &application.SyncError{Op: "read", Path: path, Err: application.ErrIO}
	}
	if err := s.Write(path, text); err != nil {
		return "", err
	}
	return text, nil
}

// SaveToDisk writes the buffer for path to disk
func (s *Store) SaveToDisk(path string) error {
	text, ok := s.Read(path)
	if !ok {
		return &application.SyncError{Op: "save", Path: path, Err: application.ErrNotFound}
	}
	return s.WriteFile(path, text)
}

// WriteFile writes text straight to disk
func (s *Store) WriteFile(path, text string) error {
	if !s.fs.WriteFile(path, text) {
		return &application.SyncError{Op: "write", Path: path, Err: application.ErrIO}
	}
	s.logger.Debug("wrote file", "path", path, "bytes", len(text))
	return nil
}

// ReadFile reads path from disk without touching any buffer
func (s *Store) ReadFile(path string) (string, error) {
	text, ok := s.fs.ReadFile(path)
	if !ok {
		return "", &application.SyncError{Op: "read", Path: path, Err: application.ErrIO}
	}
	return text, nil
}

// CanTrack reports whether path could be written without a name collision
func (s *Store) CanTrack(path string) error {
	short := domain.ShortName(path)
	if existing, ok := s.byShort[short]; ok && existing != path {
		return &application.CollisionError{ShortName: short, Existing: existing, Requested: path}
	}
	return nil
}
