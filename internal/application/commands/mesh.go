package commands

import (
	"context"
	"errors"
	"fmt"

	"vpgsync/internal/application"
	"vpgsync/internal/application/engine"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// MeshEditResult contains the geometry and text after a mesh edit
type MeshEditResult struct {
	Object   string
	Vertices int
	Faces    int
	Text     string
	Message  string
}

// editMesh applies fn to an object's geometry as the host would, then
// reports the change and runs a tick so the text catches up
func editMesh(w *watcher.Watcher, host ports.GeometryHost, name string, fn func(g *domain.Geometry) error) (*MeshEditResult, error) {
	g, err := host.Read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := fn(g); err != nil {
		var ve *application.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, &application.ValidationError{Field: "index", Message: err.Error()}
	}
	if err := host.Write(name, g); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	w.ObjectChanged(name)
	w.Tick()

	res := &MeshEditResult{Object: name, Vertices: g.VertexCount(), Faces: g.FaceCount()}
	w.Do(func(e *engine.Engine) error {
		res.Text, _ = e.Text(name)
		return nil
	})
	return res, nil
}

// MoveVertexCommand moves one vertex of an object
type MoveVertexCommand struct {
	watcher    *watcher.Watcher
	host       ports.GeometryHost
	ObjectName string
	Index      int
	Position   domain.Vec3
}

// NewMoveVertexCommand creates a new MoveVertexCommand
func NewMoveVertexCommand(w *watcher.Watcher, host ports.GeometryHost, objectName string, index int, pos domain.Vec3) *MoveVertexCommand {
	return &MoveVertexCommand{
		watcher:    w,
		host:       host,
		ObjectName: objectName,
		Index:      index,
		Position:   pos,
	}
}

// Validate checks if the move is valid
func (c *MoveVertexCommand) Validate() error {
	if err := application.ValidateRequired("objectName", c.ObjectName); err != nil {
		return err
	}
	if c.Index < 0 {
		return &application.ValidationError{
			Field:   "index",
			Message: fmt.Sprintf("index must not be negative, got %d", c.Index),
		}
	}
	return nil
}

// Execute performs the move
func (c *MoveVertexCommand) Execute(ctx context.Context) (*MeshEditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := editMesh(c.watcher, c.host, c.ObjectName, func(g *domain.Geometry) error {
		if err := application.ValidateIndex("index", c.Index, g.VertexCount()); err != nil {
			return err
		}
		return g.MoveVertex(c.Index, c.Position)
	})
	if err != nil {
		return nil, err
	}
	p := c.Position
	res.Message = fmt.Sprintf("Moved vertex %d of %s to (%g, %g, %g)", c.Index, c.ObjectName, p.X, p.Y, p.Z)
	return res, nil
}

// AddVertexCommand appends a vertex, optionally closing a triangle with two
// existing vertices
type AddVertexCommand struct {
	watcher    *watcher.Watcher
	host       ports.GeometryHost
	ObjectName string
	Position   domain.Vec3
	Face       []int // two existing vertex indices, or nil
}

// NewAddVertexCommand creates a new AddVertexCommand
func NewAddVertexCommand(w *watcher.Watcher, host ports.GeometryHost, objectName string, pos domain.Vec3, face []int) *AddVertexCommand {
	return &AddVertexCommand{
		watcher:    w,
		host:       host,
		ObjectName: objectName,
		Position:   pos,
		Face:       face,
	}
}

// Validate checks if the add is valid
func (c *AddVertexCommand) Validate() error {
	if err := application.ValidateRequired("objectName", c.ObjectName); err != nil {
		return err
	}
	if len(c.Face) != 0 && len(c.Face) != 2 {
		return &application.ValidationError{
			Field:   "face",
			Message: fmt.Sprintf("expected two vertex indices, got %d", len(c.Face)),
		}
	}
	return nil
}

// Execute performs the add
func (c *AddVertexCommand) Execute(ctx context.Context) (*MeshEditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var added int
	res, err := editMesh(c.watcher, c.host, c.ObjectName, func(g *domain.Geometry) error {
		added = g.AddVertex(c.Position)
		if len(c.Face) == 2 {
			return g.AddFace(c.Face[0], c.Face[1], added)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Message = fmt.Sprintf("Added vertex %d to %s", added, c.ObjectName)
	return res, nil
}

// DeleteVertexCommand removes a vertex and the faces using it
type DeleteVertexCommand struct {
	watcher    *watcher.Watcher
	host       ports.GeometryHost
	ObjectName string
	Index      int
}

// NewDeleteVertexCommand creates a new DeleteVertexCommand
func NewDeleteVertexCommand(w *watcher.Watcher, host ports.GeometryHost, objectName string, index int) *DeleteVertexCommand {
	return &DeleteVertexCommand{
		watcher:    w,
		host:       host,
		ObjectName: objectName,
		Index:      index,
	}
}

// Validate checks if the delete is valid
func (c *DeleteVertexCommand) Validate() error {
	return application.ValidateRequired("objectName", c.ObjectName)
}

// Execute performs the delete
func (c *DeleteVertexCommand) Execute(ctx context.Context) (*MeshEditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := editMesh(c.watcher, c.host, c.ObjectName, func(g *domain.Geometry) error {
		if err := application.ValidateIndex("index", c.Index, g.VertexCount()); err != nil {
			return err
		}
		return g.RemoveVertex(c.Index)
	})
	if err != nil {
		return nil, err
	}
	res.Message = fmt.Sprintf("Deleted vertex %d of %s", c.Index, c.ObjectName)
	return res, nil
}

// DeleteObjectResult contains the result of deleting an object
type DeleteObjectResult struct {
	Object         string
	OrphansRemoved int
	Message        string
}

// DeleteObjectCommand removes an object from the scene. The next tick drops
// its document if nothing else uses it.
type DeleteObjectCommand struct {
	watcher    *watcher.Watcher
	scene      ports.SceneEditor
	ObjectName string
}

// NewDeleteObjectCommand creates a new DeleteObjectCommand
func NewDeleteObjectCommand(w *watcher.Watcher, scene ports.SceneEditor, objectName string) *DeleteObjectCommand {
	return &DeleteObjectCommand{
		watcher:    w,
		scene:      scene,
		ObjectName: objectName,
	}
}

// Validate checks if the delete is valid
func (c *DeleteObjectCommand) Validate() error {
	return application.ValidateRequired("objectName", c.ObjectName)
}

// Execute performs the delete
func (c *DeleteObjectCommand) Execute(ctx context.Context) (*DeleteObjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.scene.Delete(c.ObjectName); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.ObjectName, err)
	}

	stats := c.watcher.Tick()
	msg := fmt.Sprintf("Deleted %s", c.ObjectName)
	if stats.OrphansRemoved > 0 {
		msg += fmt.Sprintf("; removed %d orphaned document(s)", stats.OrphansRemoved)
	}
	return &DeleteObjectResult{Object: c.ObjectName, OrphansRemoved: stats.OrphansRemoved, Message: msg}, nil
}
