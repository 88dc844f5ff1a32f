package watcher

import "vpgsync/internal/domain"

// DefaultHistorySize is the undo ring capacity
const DefaultHistorySize = 250

// History is the undo/redo ring of text snapshots.
// The cursor points at the entry matching the current text; -1 means empty.
type History struct {
	capacity int
	entries  []domain.HistoryEntry
	cursor   int
}

// NewHistory creates an empty ring holding at most capacity entries
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity, cursor: -1}
}

// Record inserts an entry after the cursor, dropping any redo tail and the
// oldest entry once the ring is full
func (h *History) Record(e domain.HistoryEntry) {
	h.entries = append(h.entries[:h.cursor+1], e)
	h.cursor = len(h.entries) - 1
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
		h.cursor = len(h.entries) - 1
	}
}

// Undo steps the cursor back and returns the entry to restore
func (h *History) Undo() (domain.HistoryEntry, bool) {
	return h.step(-1)
}

// Redo steps the cursor forward and returns the entry to restore
func (h *History) Redo() (domain.HistoryEntry, bool) {
	return h.step(1)
}

func (h *History) step(delta int) (domain.HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return domain.HistoryEntry{}, false
	}
	h.cursor = clamp(h.cursor+delta, 0, len(h.entries)-1)
	return h.entries[h.cursor], true
}

// Forget removes every entry for shortName and returns how many went
func (h *History) Forget(shortName string) int {
	kept := h.entries[:0]
	cursor := h.cursor
	removed := 0
	for i, e := range h.entries {
		if e.ShortName == shortName {
			removed++
			if i <= h.cursor {
				cursor--
			}
			continue
		}
		kept = append(kept, e)
	}
	h.entries = kept
	if len(h.entries) == 0 {
		h.cursor = -1
	} else {
		h.cursor = clamp(cursor, 0, len(h.entries)-1)
	}
	return removed
}

// Len returns the number of entries
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the cursor position, -1 when empty
func (h *History) Cursor() int {
	return h.cursor
}

// Snapshot returns a copy of the ring for persistence
func (h *History) Snapshot() ([]domain.HistoryEntry, int) {
	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out, h.cursor
}

// Load replaces the ring's contents, keeping the newest entries that fit
func (h *History) Load(entries []domain.HistoryEntry, cursor int) {
	if len(entries) > h.capacity {
		drop := len(entries) - h.capacity
		entries = entries[drop:]
		cursor -= drop
	}
	h.entries = append([]domain.HistoryEntry(nil), entries...)
	if len(h.entries) == 0 {
		h.cursor = -1
		return
	}
	h.cursor = clamp(cursor, 0, len(h.entries)-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
