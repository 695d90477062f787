package flowtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// GetWorkflowTool handles the get_workflow MCP tool.
type GetWorkflowTool struct {
	store workflow.Store
}

// NewGetWorkflowTool creates a GetWorkflowTool.
func NewGetWorkflowTool(store workflow.Store) *GetWorkflowTool {
	return &GetWorkflowTool{store: store}
}

// Definition returns the MCP tool definition for get_workflow.
func (t *GetWorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("get_workflow",
		mcp.WithDescription("Get a workflow with its full task list."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The workflow ID to retrieve"),
		),
	)
}

// Handle processes the get_workflow tool call.
func (t *GetWorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	wf, err := t.store.Get(id)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to read workflow: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", wf.Title)
	fmt.Fprintf(&b, "**ID:** %s\n", wf.ID)
	fmt.Fprintf(&b, "**Status:** %s\n", wf.Status)
	if wf.Project != "" {
		fmt.Fprintf(&b, "**Project:** %s\n", wf.Project)
	}
	if len(wf.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(wf.Tags, ", "))
	}
	fmt.Fprintf(&b, "**Progress:** [%s] %d%% (%d/%d tasks)\n",
		workflow.ProgressBar(wf.Progress), wf.Progress.Percentage,
		wf.Progress.Completed, wf.Progress.Total)
	if wf.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", wf.Description)
	}

	if len(wf.Tasks) > 0 {
		b.WriteString("\n## Tasks\n\n")
		for _, task := range wf.Tasks {
			fmt.Fprintf(&b, "- [%s] **%s** (%s, %s) — %s\n",
				task.Status, task.Title, task.Priority, task.ID, taskDetail(task))
		}
	}
	if len(wf.RelatedNoteIDs) > 0 {
		fmt.Fprintf(&b, "\n🔗 Related notes: %s\n", strings.Join(wf.RelatedNoteIDs, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// taskDetail renders the secondary facts of a task line.
func taskDetail(task workflow.Task) string {
	var parts []string
	if len(task.DependsOn) > 0 {
		parts = append(parts, fmt.Sprintf("depends on %d", len(task.DependsOn)))
	}
	if len(task.NoteIDs) > 0 {
		parts = append(parts, fmt.Sprintf("%d notes", len(task.NoteIDs)))
	}
	if task.CompletedAt != "" {
		parts = append(parts, "done "+task.CompletedAt)
	}
	if len(parts) == 0 {
		return "no extras"
	}
	return strings.Join(parts, ", ")
}
