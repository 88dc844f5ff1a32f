package commands

import (
	"context"
	"fmt"

	"vpgsync/internal/application/watcher"
)

// HistoryResult contains the result of an undo or redo
type HistoryResult struct {
	*watcher.RestoreResult
	Message string
}

// UndoCommand restores the previous text snapshot
type UndoCommand struct {
	watcher *watcher.Watcher
}

// NewUndoCommand creates a new UndoCommand
func NewUndoCommand(w *watcher.Watcher) *UndoCommand {
	return &UndoCommand{watcher: w}
}

// Execute performs the undo
func (c *UndoCommand) Execute(ctx context.Context) (*HistoryResult, error) {
	res, err := c.watcher.Undo()
	if err != nil {
		return nil, fmt.Errorf("failed to undo: %w", err)
	}
	return historyResult(res, "undo"), nil
}

// RedoCommand re-applies the next text snapshot
type RedoCommand struct {
	watcher *watcher.Watcher
}

// NewRedoCommand creates a new RedoCommand
func NewRedoCommand(w *watcher.Watcher) *RedoCommand {
	return &RedoCommand{watcher: w}
}

// Execute performs the redo
func (c *RedoCommand) Execute(ctx context.Context) (*HistoryResult, error) {
	res, err := c.watcher.Redo()
	if err != nil {
		return nil, fmt.Errorf("failed to redo: %w", err)
	}
	return historyResult(res, "redo"), nil
}

func historyResult(res *watcher.RestoreResult, op string) *HistoryResult {
	if !res.Applied {
		return &HistoryResult{RestoreResult: res, Message: "Nothing to " + op}
	}
	return &HistoryResult{
		RestoreResult: res,
		Message:       fmt.Sprintf("Restored %s (%d/%d)", res.ShortName, res.Cursor+1, res.Len),
	}
}
