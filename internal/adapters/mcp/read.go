// Package mcp exposes a sync session as MCP tools so agents can inspect and
// edit geometry through its VPG text.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"vpgsync/internal/application/commands"
	"vpgsync/internal/application/watcher"
	"vpgsync/internal/domain"
	"vpgsync/internal/ports"
)

// Session is what the tools operate on
type Session struct {
	Watcher *watcher.Watcher
	Host    ports.GeometryHost
	Files   ports.FileSystem
}

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, sess *Session) {
	s.AddTool(listTool(), listHandler(sess))
	s.AddTool(statusTool(), statusHandler(sess))
	s.AddTool(showTool(), showHandler(sess))
	s.AddTool(checkTool(), checkHandler(sess))
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List every geometry object in the scene with the VPG file it is linked to."),
	)
}

func listHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := sess.Host.Objects()
		if err != nil {
			return toolError(err)
		}

		status, err := commands.NewStatusCommand(sess.Watcher).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		paths := make(map[string]string, len(status.Objects))
		for _, st := range status.Objects {
			paths[st.Object] = st.Path
		}

		return formatEntities(names, func(name string) string {
			if path, ok := paths[name]; ok {
				return fmt.Sprintf("%s  %s", name, path)
			}
			return fmt.Sprintf("%s  (unlinked)", name)
		})
	}
}

// --- status ---

func statusTool() mcp.Tool {
	return mcp.NewTool("status",
		mcp.WithDescription("Show the sync phase, vertex and face counts and last error of every linked object, plus undo history position."),
	)
}

func statusHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewStatusCommand(sess.Watcher).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, st := range res.Objects {
			sb.WriteString(formatStatus(st))
			sb.WriteByte('\n')
		}
		if len(res.Objects) == 0 {
			sb.WriteString("No linked objects.\n")
		}
		fmt.Fprintf(&sb, "history: %d/%d\n", res.HistoryCursor+1, res.HistoryLen)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- show ---

func showTool() mcp.Tool {
	return mcp.NewTool("show",
		mcp.WithDescription("Return the live VPG text of a linked object. Lines the parser skips are listed after the text."),
		mcp.WithString("object",
			mcp.Description("Geometry object name"),
			mcp.Required(),
		),
	)
}

func showHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		object := req.GetString("object", "")

		res, err := commands.NewShowCommand(sess.Watcher, object).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s (%s)\n", res.Path, res.Phase)
		sb.WriteString(res.Text)
		if !strings.HasSuffix(res.Text, "\n") {
			sb.WriteByte('\n')
		}
		for _, issue := range res.Issues {
			fmt.Fprintf(&sb, "! %s\n", issue)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- check ---

func checkTool() mcp.Tool {
	return mcp.NewTool("check",
		mcp.WithDescription("Parse a VPG file on disk without importing it and report skipped lines."),
		mcp.WithString("path",
			mcp.Description("Absolute path of the .vpg file"),
			mcp.Required(),
		),
	)
}

func checkHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")

		res, err := commands.NewCheckCommand(sess.Files, path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(res.Message)
		sb.WriteByte('\n')
		for _, issue := range res.Issues {
			fmt.Fprintf(&sb, "! %s\n", issue)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatStatus(st domain.ObjectStatus) string {
	line := fmt.Sprintf("%s  %s  %s  v=%d f=%d", st.Object, st.Path, st.Phase, st.VertexCount, st.FaceCount)
	if st.LastError != "" {
		line += "  error: " + st.LastError
	}
	return line
}
