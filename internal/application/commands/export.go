package commands

import (
	"context"
	"fmt"

	"vpgsync/internal/application"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/application/watcher"
)

// ExportResult contains the result of exporting an object
type ExportResult struct {
	*engine.ExportResult
	Message string
}

// ExportCommand writes an object's VPG text to disk
type ExportCommand struct {
	watcher    *watcher.Watcher
	ObjectName string
	DestPath   string // empty exports to the linked path
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(w *watcher.Watcher, objectName, destPath string) *ExportCommand {
	return &ExportCommand{
		watcher:    w,
		ObjectName: objectName,
		DestPath:   destPath,
	}
}

// Validate checks if the export is valid
func (c *ExportCommand) Validate() error {
	if err := application.ValidateRequired("objectName", c.ObjectName); err != nil {
		return err
	}
	if c.DestPath != "" {
		return application.ValidateVPGPath("destPath", c.DestPath)
	}
	return nil
}

// Execute performs the export
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var res *engine.ExportResult
	err := c.watcher.Do(func(e *engine.Engine) error {
		var err error
		res, err = e.Export(c.ObjectName, c.DestPath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", c.ObjectName, err)
	}

	msg := fmt.Sprintf("Exported %s to %s (%d bytes)", res.Object, res.Path, res.Bytes)
	if res.Relinked {
		msg += "; now linked to " + res.Path
	}
	return &ExportResult{ExportResult: res, Message: msg}, nil
}
