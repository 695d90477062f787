package notetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
)

// ─── UpdateNoteTool ─────────────────────────────────────────────────────────

// UpdateNoteTool handles the update_note MCP tool. Fields omitted from the
// call are left untouched; the note's type is immutable.
type UpdateNoteTool struct {
	store note.Store
}

// NewUpdateNoteTool creates an UpdateNoteTool.
func NewUpdateNoteTool(store note.Store) *UpdateNoteTool {
	return &UpdateNoteTool{store: store}
}

// Definition returns the MCP tool definition for update_note.
func (t *UpdateNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("update_note",
		mcp.WithDescription(
			"Update a note's title, content, tags, or project. Omitted fields are "+
				"left as they are. The note type cannot be changed.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The note ID to update"),
		),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content (replaces the old body)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags (replaces the old set)")),
		mcp.WithString("project", mcp.Description("New project")),
	)
}

// Handle processes the update_note tool call.
func (t *UpdateNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	args := req.GetArguments()
	var params note.UpdateParams
	if v, ok := args["title"].(string); ok {
		params.Title = &v
	}
	if v, ok := args["content"].(string); ok {
		params.Content = &v
	}
	if _, ok := args["tags"].(string); ok {
		tags := csvArg(req, "tags")
		params.Tags = &tags
	}
	if v, ok := args["project"].(string); ok {
		params.Project = &v
	}

	n, err := t.store.Update(id, params)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("note %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to update note: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("📝 Note updated: %s (%s)", n.Title, n.ID)), nil
}

// ─── DeleteNoteTool ─────────────────────────────────────────────────────────

// DeleteNoteTool handles the delete_note MCP tool. Workflows and tasks hold
// only weak references to notes, so deletion never cascades; any remaining
// references simply stop resolving.
type DeleteNoteTool struct {
	store note.Store
}

// NewDeleteNoteTool creates a DeleteNoteTool.
func NewDeleteNoteTool(store note.Store) *DeleteNoteTool {
	return &DeleteNoteTool{store: store}
}

// Definition returns the MCP tool definition for delete_note.
func (t *DeleteNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_note",
		mcp.WithDescription(
			"Delete a note permanently. Links from workflows or tasks are weak "+
				"references and are not cleaned up — they just stop resolving.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The note ID to delete"),
		),
	)
}

// Handle processes the delete_note tool call.
func (t *DeleteNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	if err := t.store.Delete(id); err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("note %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("🗑️ Note %s deleted", id)), nil
}
