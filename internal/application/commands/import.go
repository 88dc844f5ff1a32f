package commands

import (
	"context"
	"fmt"

	"vpgsync/internal/application"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/application/watcher"
)

// ImportResult contains the result of importing a VPG file
type ImportResult struct {
	*engine.ImportResult
	Message string
}

// ImportCommand imports a VPG file as a geometry object
type ImportCommand struct {
	watcher *watcher.Watcher
	Path    string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(w *watcher.Watcher, path string) *ImportCommand {
	return &ImportCommand{
		watcher: w,
		Path:    path,
	}
}

// Validate checks if the import is valid
func (c *ImportCommand) Validate() error {
	return application.ValidateVPGPath("path", c.Path)
}

// Execute performs the import
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var res *engine.ImportResult
	err := c.watcher.Do(func(e *engine.Engine) error {
		var err error
		res, err = e.Import(c.Path)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", c.Path, err)
	}

	verb := "Imported"
	if res.Reused {
		verb = "Re-imported"
	}
	msg := fmt.Sprintf("%s %s as %s (%d vertices, %d faces)", verb, res.Path, res.Object, res.Vertices, res.Faces)
	if res.Warning != "" {
		msg += ": " + res.Warning
	}

	return &ImportResult{ImportResult: res, Message: msg}, nil
}
