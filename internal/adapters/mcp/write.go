package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"vpgsync/internal/application/commands"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// RegisterWriteTools adds all tools that change geometry or text to the MCP server.
func RegisterWriteTools(s *server.MCPServer, sess *Session) {
	s.AddTool(importTool(), importHandler(sess))
	s.AddTool(exportTool(), exportHandler(sess))
	s.AddTool(putTextTool(), putTextHandler(sess))
	s.AddTool(reloadTool(), reloadHandler(sess))
	s.AddTool(moveVertexTool(), moveVertexHandler(sess))
	s.AddTool(addVertexTool(), addVertexHandler(sess))
	s.AddTool(deleteVertexTool(), deleteVertexHandler(sess))
	s.AddTool(undoTool(), undoHandler(sess))
	s.AddTool(redoTool(), redoHandler(sess))
	if editor, ok := sess.Host.(ports.SceneEditor); ok {
		s.AddTool(deleteObjectTool(), deleteObjectHandler(sess, editor))
	}
}

// --- import ---

func importTool() mcp.Tool {
	return mcp.NewTool("import",
		mcp.WithDescription("Import a VPG file from disk as a geometry object and keep the two in sync. Re-importing a linked file rebuilds its object."),
		mcp.WithString("path",
			mcp.Description("Absolute path of the .vpg file"),
			mcp.Required(),
		),
	)
}

func importHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")

		result, err := commands.NewImportCommand(sess.Watcher, path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Write an object's VPG text to disk. Exporting to a new path links the object to it."),
		mcp.WithString("object",
			mcp.Description("Geometry object name"),
			mcp.Required(),
		),
		mcp.WithString("path",
			mcp.Description("Destination .vpg path. Omit to write to the linked file."),
		),
	)
}

func exportHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")
		path := req.GetString("path", "")

		result, err := commands.NewExportCommand(sess.Watcher, object, path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- put_text ---

func putTextTool() mcp.Tool {
	return mcp.NewTool("put_text",
		mcp.WithDescription("Replace the VPG text of a linked object and rebuild its geometry. Text without any valid vertex line is rejected and the geometry is kept."),
		mcp.WithString("object",
			mcp.Description("Geometry object name, VPG path or buffer name"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Complete VPG text"),
			mcp.Required(),
		),
	)
}

func putTextHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")
		text := req.GetString("text", "")

		result, err := commands.NewPutTextCommand(sess.Watcher, object, text).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- reload ---

func reloadTool() mcp.Tool {
	return mcp.NewTool("reload",
		mcp.WithDescription("Re-read a linked VPG file from disk, discarding unsaved buffer edits."),
		mcp.WithString("object",
			mcp.Description("Geometry object name, VPG path or buffer name"),
			mcp.Required(),
		),
	)
}

func reloadHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")

		result, err := commands.NewReloadCommand(sess.Watcher, object).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move_vertex ---

func moveVertexTool() mcp.Tool {
	return mcp.NewTool("move_vertex",
		mcp.WithDescription("Move one vertex of an object, as an edit in the geometry host would. Returns the updated VPG text."),
		mcp.WithString("object",
			mcp.Description("Geometry object name"),
			mcp.Required(),
		),
		mcp.WithNumber("index",
			mcp.Description("Zero-based vertex index"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("New X coordinate"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y coordinate"), mcp.Required()),
		mcp.WithNumber("z", mcp.Description("New Z coordinate"), mcp.Required()),
	)
}

func moveVertexHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")
		index := req.GetInt("index", -1)

		cmd := commands.NewMoveVertexCommand(sess.Watcher, sess.Host, object, index, position(req))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return meshResult(result), nil
	}
}

// --- add_vertex ---

func addVertexTool() mcp.Tool {
	return mcp.NewTool("add_vertex",
		mcp.WithDescription("Append a vertex to an object, optionally closing a triangle with two existing vertices."),
		mcp.WithString("object",
			mcp.Description("Geometry object name"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("X coordinate"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y coordinate"), mcp.Required()),
		mcp.WithNumber("z", mcp.Description("Z coordinate"), mcp.Required()),
		mcp.WithString("face",
			mcp.Description("Two zero-based vertex indices separated by a space (e.g. \"0 2\") to form a triangle with the new vertex"),
		),
	)
}

func addVertexHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")
		face, err := parseIndices(req.GetString("face", ""))
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewAddVertexCommand(sess.Watcher, sess.Host, object, position(req), face)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return meshResult(result), nil
	}
}

// --- delete_vertex ---

func deleteVertexTool() mcp.Tool {
	return mcp.NewTool("delete_vertex",
		mcp.WithDescription("Delete a vertex and every face that uses it."),
		mcp.WithString("object",
			mcp.Description("Geometry object name"),
			mcp.Required(),
		),
		mcp.WithNumber("index",
			mcp.Description("Zero-based vertex index"),
			mcp.Required(),
		),
	)
}

func deleteVertexHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")
		index := req.GetInt("index", -1)

		result, err := commands.NewDeleteVertexCommand(sess.Watcher, sess.Host, object, index).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return meshResult(result), nil
	}
}

// --- delete_object ---

func deleteObjectTool() mcp.Tool {
	return mcp.NewTool("delete_object",
		mcp.WithDescription("Delete a geometry object. Its VPG buffer is dropped when no other object uses it; the file on disk is kept."),
		mcp.WithString("object",
			mcp.Description("Geometry object name"),
			mcp.Required(),
		),
	)
}

func deleteObjectHandler(sess *Session, editor ports.SceneEditor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")

		result, err := commands.NewDeleteObjectCommand(sess.Watcher, editor, object).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- undo / redo ---

func undoTool() mcp.Tool {
	return mcp.NewTool("undo",
		mcp.WithDescription("Restore the previous VPG text snapshot and rebuild the geometry from it."),
	)
}

func undoHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewUndoCommand(sess.Watcher).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

func redoTool() mcp.Tool {
	return mcp.NewTool("redo",
		mcp.WithDescription("Re-apply the next VPG text snapshot after an undo."),
	)
}

func redoHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewRedoCommand(sess.Watcher).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- helpers ---

func position(req mcp.CallToolRequest) domain.Vec3 {
	return domain.Vec3{
		X: req.GetFloat("x", 0),
		Y: req.GetFloat("y", 0),
		Z: req.GetFloat("z", 0),
	}
}

func parseIndices(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q", f)
		}
		out[i] = n
	}
	return out, nil
}

func meshResult(r *commands.MeshEditResult) *mcp.CallToolResult {
	return mcp.NewToolResultText(r.Message + "\n\n" + r.Text)
}
