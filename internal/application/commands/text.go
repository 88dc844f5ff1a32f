package commands

import (
	"context"
	"fmt"

	"vpgsync/internal/application"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// resolveDocument maps an object name, full path or short name to a
// tracked document path
func resolveDocument(e *engine.Engine, target string) (string, error) {
	docs := e.Documents()
	if docs.Tracked(target) {
		return target, nil
	}
	if path, ok := e.Path(target); ok {
		return path, nil
	}
	if path, ok := docs.Resolve(target); ok {
		return path, nil
	}
	return "", &application.SyncError{Op: "resolve", Path: target, Err: application.ErrNotFound}
}

// TextResult contains the result of replacing a document's text
type TextResult struct {
	Path     string
	Objects  []domain.ObjectStatus
	Deferred bool
	Message  string
}

// PutTextCommand replaces the text of a tracked document and lets the
// watcher rebuild the geometry from it
type PutTextCommand struct {
	watcher *watcher.Watcher
	Target  string // object name, full path or short name
	Text    string
}

// NewPutTextCommand creates a new PutTextCommand
func NewPutTextCommand(w *watcher.Watcher, target, text string) *PutTextCommand {
	return &PutTextCommand{
		watcher: w,
		Target:  target,
		Text:    text,
	}
}

// Validate checks if the put is valid
func (c *PutTextCommand) Validate() error {
	return application.ValidateRequired("objectName", c.Target)
}

// Execute writes the buffer and runs a tick
func (c *PutTextCommand) Execute(ctx context.Context) (*TextResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var path string
	err := c.watcher.Do(func(e *engine.Engine) error {
		var err error
		if path, err = resolveDocument(e, c.Target); err != nil {
			return err
		}
		return e.Documents().Write(path, c.Text)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", c.Target, err)
	}

	return applied(c.watcher, path), nil
}

// applied ticks the watcher and reports the objects using path
func applied(w *watcher.Watcher, path string) *TextResult {
	stats := w.Tick()
	res := &TextResult{Path: path, Deferred: stats.Deferred}

	w.Do(func(e *engine.Engine) error {
		for _, st := range e.Status() {
			if st.Path == path {
				res.Objects = append(res.Objects, st)
			}
		}
		return nil
	})

	res.Message = fmt.Sprintf("Updated %s", domain.ShortName(path))
	if res.Deferred {
		res.Message += "; sync queued"
	} else {
		for _, st := range res.Objects {
			if st.LastError != "" {
				res.Message += fmt.Sprintf("; %s kept its geometry: %s", st.Object, st.LastError)
			} else {
				res.Message += fmt.Sprintf("; %s has %d vertices, %d faces", st.Object, st.VertexCount, st.FaceCount)
			}
		}
	}
	return res
}

// EditCommand opens an object's text in an external editor and applies
// what was saved
type EditCommand struct {
	watcher    *watcher.Watcher
	editor     ports.EditorOpener
	ObjectName string
}

// NewEditCommand creates a new EditCommand
func NewEditCommand(w *watcher.Watcher, editor ports.EditorOpener, objectName string) *EditCommand {
	return &EditCommand{
		watcher:    w,
		editor:     editor,
		ObjectName: objectName,
	}
}

// Validate checks if the edit is valid
func (c *EditCommand) Validate() error {
	return application.ValidateRequired("objectName", c.ObjectName)
}

// Execute runs the editor. The watcher is not locked while the editor is open.
func (c *EditCommand) Execute(ctx context.Context) (*TextResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var path, text string
	err := c.watcher.Do(func(e *engine.Engine) error {
		var err error
		if path, err = resolveDocument(e, c.ObjectName); err != nil {
			return err
		}
		text, _ = e.Documents().Read(path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	edited, err := c.editor.EditText(domain.ShortName(path), text)
	if err != nil {
		return nil, fmt.Errorf("failed to edit %s: %w", c.ObjectName, err)
	}
	if edited == text {
		return &TextResult{Path: path, Message: "No changes"}, nil
	}

	return NewPutTextCommand(c.watcher, path, edited).Execute(ctx)
}

// ReloadCommand re-reads a tracked document from disk
type ReloadCommand struct {
	watcher *watcher.Watcher
	Target  string
}

// NewReloadCommand creates a new ReloadCommand
func NewReloadCommand(w *watcher.Watcher, target string) *ReloadCommand {
	return &ReloadCommand{
		watcher: w,
		Target:  target,
	}
}

// Validate checks if the reload is valid
func (c *ReloadCommand) Validate() error {
	return application.ValidateRequired("path", c.Target)
}

// Execute loads the file into its buffer and runs a tick
func (c *ReloadCommand) Execute(ctx context.Context) (*TextResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var path string
	err := c.watcher.Do(func(e *engine.Engine) error {
		var err error
		if path, err = resolveDocument(e, c.Target); err != nil {
			return err
		}
		return e.Reload(path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s: %w", c.Target, err)
	}

	res := applied(c.watcher, path)
	res.Message = "Reloaded from disk. " + res.Message
	return res, nil
}

// SaveResult contains the result of writing a buffer to disk
type SaveResult struct {
	Path    string
	Message string
}

// SaveCommand writes a tracked buffer to its own path on disk
type SaveCommand struct {
	watcher *watcher.Watcher
	Target  string
}

// NewSaveCommand creates a new SaveCommand
func NewSaveCommand(w *watcher.Watcher, target string) *SaveCommand {
	return &SaveCommand{
		watcher: w,
		Target:  target,
	}
}

// Validate checks if the save is valid
func (c *SaveCommand) Validate() error {
	return application.ValidateRequired("path", c.Target)
}

// Execute writes the buffer
func (c *SaveCommand) Execute(ctx context.Context) (*SaveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var path string
	err := c.watcher.Do(func(e *engine.Engine) error {
		var err error
		if path, err = resolveDocument(e, c.Target); err != nil {
			return err
		}
		return e.Save(path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", c.Target, err)
	}
	return &SaveResult{Path: path, Message: "Saved " + path}, nil
}
