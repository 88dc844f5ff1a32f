package commands

import (
	"context"
	"fmt"

	"vpgsync/internal/application"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
	"vpgsync/internal/vpg"
)

// StatusResult is a snapshot of the sync session
type StatusResult struct {
	Objects       []domain.ObjectStatus
	Documents     []domain.TextDocument
	LastTick      domain.TickStats
	Ticks         int
	HistoryLen    int
	HistoryCursor int
}

// StatusCommand reports linked objects, tracked documents and history
type StatusCommand struct {
	watcher *watcher.Watcher
}

// NewStatusCommand creates a new StatusCommand
func NewStatusCommand(w *watcher.Watcher) *StatusCommand {
	return &StatusCommand{watcher: w}
}

// Execute collects the status
func (c *StatusCommand) Execute(ctx context.Context) (*StatusResult, error) {
	res := &StatusResult{}
	c.watcher.Do(func(e *engine.Engine) error {
		res.Objects = e.Status()
		res.Documents = e.Documents().Documents()
		return nil
	})
	res.LastTick, res.Ticks = c.watcher.LastStats()
	res.HistoryLen, res.HistoryCursor = c.watcher.History()
	return res, nil
}

// ShowResult is one object's text with the lines the parser dropped
type ShowResult struct {
	Object string
	Path   string
	Phase  domain.Phase
	Text   string
	Issues []vpg.LineIssue
}

// ShowCommand returns the live VPG text of a linked object
type ShowCommand struct {
	watcher    *watcher.Watcher
	ObjectName string
}

// NewShowCommand creates a new ShowCommand
func NewShowCommand(w *watcher.Watcher, objectName string) *ShowCommand {
	return &ShowCommand{
		watcher:    w,
		ObjectName: objectName,
	}
}

// Validate checks if the show is valid
func (c *ShowCommand) Validate() error {
	return application.ValidateRequired("objectName", c.ObjectName)
}

// Execute looks up the object's text
func (c *ShowCommand) Execute(ctx context.Context) (*ShowResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := &ShowResult{Object: c.ObjectName}
	err := c.watcher.Do(func(e *engine.Engine) error {
		path, ok := e.Path(c.ObjectName)
		if !ok {
			return &application.SyncError{Op: "show", Object: c.ObjectName, Err: application.ErrNotLinked}
		}
		res.Path = path
		res.Phase = e.Phase(c.ObjectName)
		res.Text, _ = e.Text(c.ObjectName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	_, res.Issues = vpg.ParseWithIssues(res.Text)
	return res, nil
}

// CheckResult reports how a VPG file parses
type CheckResult struct {
	Path     string
	Vertices int
	Faces    int
	Issues   []vpg.LineIssue
	Message  string
}

// CheckCommand parses a VPG file on disk without importing it
type CheckCommand struct {
	fs   ports.FileSystem
	Path string
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(fs ports.FileSystem, path string) *CheckCommand {
	return &CheckCommand{
		fs:   fs,
		Path: path,
	}
}

// Validate checks if the check is valid
func (c *CheckCommand) Validate() error {
	return application.ValidateVPGPath("path", c.Path)
}

// Execute parses the file
func (c *CheckCommand) Execute(ctx context.Context) (*CheckResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	text, ok := c.fs.ReadFile(c.Path)
	if !ok {
		return nil, &application.SyncError{Op: "check", Path: c.Path, Err: application.ErrIO}
	}

	doc, issues := vpg.ParseWithIssues(text)
	res := &CheckResult{
		Path:     c.Path,
		Vertices: doc.VertexCount(),
		Faces:    doc.FaceCount(),
		Issues:   issues,
	}

	switch {
	case res.Vertices == 0:
		res.Message = fmt.Sprintf("%s: %v", c.Path, application.ErrParseEmpty)
	case len(issues) == 0:
		res.Message = fmt.Sprintf("%s: ok (%d vertices, %d faces)", c.Path, res.Vertices, res.Faces)
	default:
		res.Message = fmt.Sprintf("%s: %d vertices, %d faces, %d lines skipped", c.Path, res.Vertices, res.Faces, len(issues))
	}
	return res, nil
}
