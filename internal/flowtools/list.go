package flowtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// ListWorkflowsTool handles the list_workflows MCP tool.
type ListWorkflowsTool struct {
	store workflow.Store
}

// NewListWorkflowsTool creates a ListWorkflowsTool.
func NewListWorkflowsTool(store workflow.Store) *ListWorkflowsTool {
	return &ListWorkflowsTool{store: store}
}

// Definition returns the MCP tool definition for list_workflows.
func (t *ListWorkflowsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_workflows",
		mcp.WithDescription(
			"List workflow summaries (no task bodies), most recently updated first. "+
				"Filters are AND-combined.",
		),
		mcp.WithString("project",
			mcp.Description("Only workflows in this project"),
		),
		mcp.WithString("status",
			mcp.Description("Only workflows with this status"),
			mcp.Enum(workflow.StatusValues()...),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring over titles, descriptions, and tags"),
		),
		mcp.WithBoolean("active_only",
			mcp.Description("Shorthand for status=active"),
		),
	)
}

// Handle processes the list_workflows tool call.
func (t *ListWorkflowsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := workflow.Status(req.GetString("status", ""))
	if status != "" {
		if err := workflow.ValidateStatus(status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	summaries, err := t.store.List(workflow.Filter{
		Project:    req.GetString("project", ""),
		Status:     status,
		Search:     req.GetString("search", ""),
		ActiveOnly: req.GetBool("active_only", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list workflows: %v", err)), nil
	}

	if len(summaries) == 0 {
		return mcp.NewToolResultText("No workflows match."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Workflows (%d)\n\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(&b, "- **%s** [%s] %d%% (%s)", s.Title, s.Status, s.Progress.Percentage, s.ID)
		if s.Project != "" {
			fmt.Fprintf(&b, " — %s", s.Project)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
