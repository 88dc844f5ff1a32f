package sqlite

import (
	"strings"

	"vpgsync/internal/ports"
)

// Buffers implements ports.TextBuffers and ports.PathMap
type Buffers struct {
	store *Store
}

var (
	_ ports.TextBuffers = (*Buffers)(nil)
	_ ports.PathMap     = (*Buffers)(nil)
)

// Buffers returns the store's text buffers
func (s *Store) Buffers() *Buffers {
	return &Buffers{store: s}
}

// Get returns a buffer's content
func (b *Buffers) Get(name string) (string, bool) {
	var content string
	err := b.store.db.QueryRow(`SELECT content FROM buffers WHERE name = ?`, name).Scan(&content)
	if err != nil {
		return "", false
	}
	return content, true
}

// Put replaces a buffer's content. The stored cursor is clamped to the new
// content rather than reset.
func (b *Buffers) Put(name, content string) error {
	line, col, _ := b.Cursor(name)
	line, col = clampCursor(content, line, col)
	_, err := b.store.db.Exec(`
		INSERT INTO buffers (name, content, cursor_line, cursor_col) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			content = excluded.content,
			cursor_line = excluded.cursor_line,
			cursor_col = excluded.cursor_col
	`, name, content, line, col)
	return err
}

// Delete removes a buffer
func (b *Buffers) Delete(name string) error {
	_, err := b.store.db.Exec(`DELETE FROM buffers WHERE name = ?`, name)
	return err
}

// Names returns all buffer names, sorted
func (b *Buffers) Names() ([]string, error) {
	rows, err := b.store.db.Query(`SELECT name FROM buffers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Cursor returns a buffer's cursor
func (b *Buffers) Cursor(name string) (line, col int, ok bool) {
	err := b.store.db.QueryRow(`
		SELECT cursor_line, cursor_col FROM buffers WHERE name = ?
	`, name).Scan(&line, &col)
	if err != nil {
		return 0, 0, false
	}
	return line, col, true
}

// SetCursor moves a buffer's cursor, clamped to its content
func (b *Buffers) SetCursor(name string, line, col int) error {
	content, ok := b.Get(name)
	if !ok {
		return nil
	}
	line, col = clampCursor(content, line, col)
	_, err := b.store.db.Exec(`
		UPDATE buffers SET cursor_line = ?, cursor_col = ? WHERE name = ?
	`, line, col, name)
	return err
}

// LoadPaths returns the short name -> full path mapping
func (b *Buffers) LoadPaths() (map[string]string, error) {
	rows, err := b.store.db.Query(`SELECT short_name, full_path FROM paths`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var short, full string
		if err := rows.Scan(&short, &full); err != nil {
			return nil, err
		}
		paths[short] = full
	}
	return paths, rows.Err()
}

// SavePath records a short name mapping
func (b *Buffers) SavePath(shortName, fullPath string) error {
	_, err := b.store.db.Exec(`
		INSERT OR REPLACE INTO paths (short_name, full_path) VALUES (?, ?)
	`, shortName, fullPath)
	return err
}

// DeletePath drops a short name mapping
func (b *Buffers) DeletePath(shortName string) error {
	_, err := b.store.db.Exec(`DELETE FROM paths WHERE short_name = ?`, shortName)
	return err
}

func clampCursor(content string, line, col int) (int, int) {
	lines := strings.Split(content, "\n")
	line = max(0, min(line, len(lines)-1))
	col = max(0, min(col, len(lines[line])))
	return line, col
}
