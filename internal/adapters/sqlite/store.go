// Package sqlite persists the scene, the text buffers and the undo history
// in one SQLite database so that separate CLI runs share state.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store is an open vpgsync database
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if needed) the database at dbPath
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps PRAGMAs and transactions on the same handle
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS objects (
			name TEXT PRIMARY KEY,
			id TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS vertices (
			object TEXT NOT NULL REFERENCES objects(name) ON DELETE CASCADE ON UPDATE CASCADE,
			idx INTEGER NOT NULL,
			vid TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			PRIMARY KEY (object, idx)
		);
		CREATE TABLE IF NOT EXISTS faces (
			object TEXT NOT NULL REFERENCES objects(name) ON DELETE CASCADE ON UPDATE CASCADE,
			seq INTEGER NOT NULL,
			indices TEXT NOT NULL,
			PRIMARY KEY (object, seq)
		);
		CREATE TABLE IF NOT EXISTS metadata (
			object TEXT PRIMARY KEY REFERENCES objects(name) ON DELETE CASCADE ON UPDATE CASCADE,
			path TEXT NOT NULL,
			cached_text TEXT NOT NULL,
			vertex_count INTEGER NOT NULL,
			face_count INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS buffers (
			name TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			cursor_line INTEGER NOT NULL DEFAULT 0,
			cursor_col INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS paths (
			short_name TEXT PRIMARY KEY,
			full_path TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS history (
			pos INTEGER PRIMARY KEY,
			short_name TEXT NOT NULL,
			text TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_metadata_path ON metadata(path);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.setMeta("schema_version", schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) meta(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (s *Store) deleteMeta(key string) error {
	_, err := s.db.Exec(`DELETE FROM meta WHERE key = ?`, key)
	return err
}
