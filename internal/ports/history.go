package ports

import "vpgsync/internal/domain"

// HistoryStore persists the undo/redo ring between runs
type HistoryStore interface {
	LoadHistory() (entries []domain.HistoryEntry, cursor int, err error)
	SaveHistory(entries []domain.HistoryEntry, cursor int) error
}
