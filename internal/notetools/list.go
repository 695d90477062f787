package notetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
)

// ListNotesTool handles the list_notes MCP tool.
type ListNotesTool struct {
	store note.Store
}

// NewListNotesTool creates a ListNotesTool.
func NewListNotesTool(store note.Store) *ListNotesTool {
	return &ListNotesTool{store: store}
}

// Definition returns the MCP tool definition for list_notes.
func (t *ListNotesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_notes",
		mcp.WithDescription(
			"List notes, newest first. Filters are AND-combined: type, project, "+
				"tags (note must carry all), and a case-insensitive search over "+
				"titles and tags.",
		),
		mcp.WithString("type",
			mcp.Description("Only notes of this type"),
			mcp.Enum(note.TypeValues()...),
		),
		mcp.WithString("project",
			mcp.Description("Only notes in this project"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags the note must carry"),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring to match in titles and tags"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 20)"),
		),
	)
}

// Handle processes the list_notes tool call.
func (t *ListNotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteType := note.Type(req.GetString("type", ""))
	if noteType != "" {
		if err := note.ValidateType(noteType); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	notes, err := t.store.List(note.Filter{
		Type:    noteType,
		Project: req.GetString("project", ""),
		Tags:    csvArg(req, "tags"),
		Search:  req.GetString("search", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}

	if len(notes) == 0 {
		return mcp.NewToolResultText("No notes match."), nil
	}

	total := len(notes)
	limit := intArg(req, "limit", 20)
	if limit >= 0 && len(notes) > limit {
		notes = notes[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Notes (%d)\n\n", total)
	for _, n := range notes {
		fmt.Fprintf(&b, "- [%s] **%s** (%s)", n.Type, n.Title, n.ID)
		if n.Project != "" {
			fmt.Fprintf(&b, " — %s", n.Project)
		}
		if len(n.Tags) > 0 {
			fmt.Fprintf(&b, " #%s", strings.Join(n.Tags, " #"))
		}
		fmt.Fprintf(&b, "\n  %s\n", summarize(n.Content, 120))
	}

	if len(notes) < total {
		fmt.Fprintf(&b, "\n📊 Showing %d of %d — raise 'limit' to see more.\n", len(notes), total)
	}
	return mcp.NewToolResultText(b.String()), nil
}
