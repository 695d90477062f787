package notetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
)

// GetNoteTool handles the get_note MCP tool.
type GetNoteTool struct {
	store note.Store
}

// NewGetNoteTool creates a GetNoteTool.
func NewGetNoteTool(store note.Store) *GetNoteTool {
	return &GetNoteTool{store: store}
}

// Definition returns the MCP tool definition for get_note.
func (t *GetNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("get_note",
		mcp.WithDescription("Get the full content of a note by ID."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The note ID to retrieve"),
		),
	)
}

// Handle processes the get_note tool call.
func (t *GetNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	n, err := t.store.Get(id)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("note %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to read note: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	fmt.Fprintf(&b, "**ID:** %s\n", n.ID)
	fmt.Fprintf(&b, "**Type:** %s\n", n.Type)
	if n.Project != "" {
		fmt.Fprintf(&b, "**Project:** %s\n", n.Project)
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(n.Tags, ", "))
	}
	fmt.Fprintf(&b, "**Created:** %s\n", n.CreatedAt)
	fmt.Fprintf(&b, "**Updated:** %s\n\n", n.UpdatedAt)
	fmt.Fprintf(&b, "## Content\n\n%s\n", n.Content)

	return mcp.NewToolResultText(b.String()), nil
}
