package notetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
)

// AddNoteTool handles the add_note MCP tool.
type AddNoteTool struct {
	store note.Store
}

// NewAddNoteTool creates an AddNoteTool with the given note store.
func NewAddNoteTool(store note.Store) *AddNoteTool {
	return &AddNoteTool{store: store}
}

// Definition returns the MCP tool definition for add_note.
func (t *AddNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("add_note",
		mcp.WithDescription(
			"Create a new note. Notes are freeform typed content: a prompt worth reusing, "+
				"a plan (whose list items can later seed a workflow), a choice (decision record), "+
				"or an insight (learning). The type is fixed at creation.",
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("What the note captures"),
			mcp.Enum(note.TypeValues()...),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short, searchable title"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The note body (markdown welcome)"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags, e.g. 'auth,backend'"),
		),
		mcp.WithString("project",
			mcp.Description("Project this note belongs to"),
		),
	)
}

// Handle processes the add_note tool call.
func (t *AddNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteType := note.Type(req.GetString("type", ""))
	title := req.GetString("title", "")
	content := req.GetString("content", "")

	if err := note.ValidateType(noteType); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	n, err := t.store.Create(note.CreateParams{
		Type:    noteType,
		Title:   title,
		Content: content,
		Tags:    csvArg(req, "tags"),
		Project: req.GetString("project", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
	}

	response := fmt.Sprintf("📝 Note created: %s\n\nID: %s\nType: %s", n.Title, n.ID, n.Type)
	if n.Project != "" {
		response += fmt.Sprintf("\nProject: %s", n.Project)
	}
	if len(n.Tags) > 0 {
		response += fmt.Sprintf("\nTags: %s", strings.Join(n.Tags, ", "))
	}
	return mcp.NewToolResultText(response), nil
}
