package notetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
)

// UpsertInsightTool handles the upsert_insight MCP tool.
//
// Each project has at most one insight note; every call appends a dated
// entry to it instead of creating a new note. This keeps discoveries for a
// project in one growing, chronological document.
type UpsertInsightTool struct {
	store note.Store
}

// NewUpsertInsightTool creates an UpsertInsightTool.
func NewUpsertInsightTool(store note.Store) *UpsertInsightTool {
	return &UpsertInsightTool{store: store}
}

// Definition returns the MCP tool definition for upsert_insight.
func (t *UpsertInsightTool) Definition() mcp.Tool {
	return mcp.NewTool("upsert_insight",
		mcp.WithDescription(
			"Record an insight for a project. Appends a dated entry to the project's "+
				"single insight note, creating the note on first use — call it freely; "+
				"it never duplicates notes.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the insight belongs to"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The insight itself: what was learned and why it matters"),
		),
	)
}

// Handle processes the upsert_insight tool call.
func (t *UpsertInsightTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	content := req.GetString("content", "")

	if strings.TrimSpace(project) == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	n, created, err := t.store.UpsertInsight(project, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save insight: %v", err)), nil
	}

	verb := "appended to"
	if created {
		verb = "started"
	}
	return mcp.NewToolResultText(fmt.Sprintf("💡 Insight %s %q (note %s)", verb, n.Title, n.ID)), nil
}
