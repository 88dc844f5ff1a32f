package sqlite

import (
	"strconv"

	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// History implements ports.HistoryStore
type History struct {
	store *Store
}

var _ ports.HistoryStore = (*History)(nil)

// History returns the store's undo history
func (s *Store) History() *History {
	return &History{store: s}
}

// LoadHistory returns the saved ring and cursor; an empty ring has cursor -1
func (h *History) LoadHistory() ([]domain.HistoryEntry, int, error) {
	rows, err := h.store.db.Query(`SELECT short_name, text FROM history ORDER BY pos`)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ShortName, &e.Text); err != nil {
			return nil, -1, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	cursor := -1
	if v, ok := h.store.meta("history_cursor"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cursor = n
		}
	}
	return entries, cursor, nil
}

// SaveHistory replaces the saved ring
func (h *History) SaveHistory(entries []domain.HistoryEntry, cursor int) error {
	tx, err := h.store.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM history`); err != nil {
		tx.Rollback()
		return err
	}
	for i, e := range entries {
		if _, err := tx.Exec(`
			INSERT INTO history (pos, short_name, text) VALUES (?, ?, ?)
		`, i, e.ShortName, e.Text); err != nil {
			tx.Rollback()
			return err
		}
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('history_cursor', ?)
	`, strconv.Itoa(cursor)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
