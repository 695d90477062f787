package flowtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// ─── UpdateWorkflowTool ─────────────────────────────────────────────────────

// UpdateWorkflowTool handles the update_workflow MCP tool. Omitted fields
// are left untouched. Status changes are validated against the enum; the
// intended lifecycle is advisory unless strict transitions are configured.
type UpdateWorkflowTool struct {
	store workflow.Store
}

// NewUpdateWorkflowTool creates an UpdateWorkflowTool.
func NewUpdateWorkflowTool(store workflow.Store) *UpdateWorkflowTool {
	return &UpdateWorkflowTool{store: store}
}

// Definition returns the MCP tool definition for update_workflow.
func (t *UpdateWorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("update_workflow",
		mcp.WithDescription(
			"Update a workflow's title, description, status, or tags. "+
				"Status changes are recorded in the event log.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The workflow ID to update"),
		),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("status",
			mcp.Description("New status"),
			mcp.Enum(workflow.StatusValues()...),
		),
		mcp.WithString("tags", mcp.Description("Comma-separated tags (replaces the old set)")),
	)
}

// Handle processes the update_workflow tool call.
func (t *UpdateWorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	args := req.GetArguments()
	var params workflow.UpdateParams
	if v, ok := args["title"].(string); ok {
		params.Title = &v
	}
	if v, ok := args["description"].(string); ok {
		params.Description = &v
	}
	if v, ok := args["status"].(string); ok {
		status := workflow.Status(v)
		params.Status = &status
	}
	if _, ok := args["tags"].(string); ok {
		tags := csvArg(req, "tags")
		params.Tags = &tags
	}

	wf, err := t.store.Update(id, params)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to update workflow: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✏️ Workflow updated: %s", workflowHeader(wf))), nil
}

// ─── DeleteWorkflowTool ─────────────────────────────────────────────────────

// DeleteWorkflowTool handles the delete_workflow MCP tool. Deletion
// cascades to everything the workflow owns: tasks, checkpoints, and the
// event log. Linked notes are not touched.
type DeleteWorkflowTool struct {
	store workflow.Store
}

// NewDeleteWorkflowTool creates a DeleteWorkflowTool.
func NewDeleteWorkflowTool(store workflow.Store) *DeleteWorkflowTool {
	return &DeleteWorkflowTool{store: store}
}

// Definition returns the MCP tool definition for delete_workflow.
func (t *DeleteWorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_workflow",
		mcp.WithDescription(
			"Delete a workflow permanently, including its tasks, checkpoints, and "+
				"event history. Linked notes survive. To keep the data, use "+
				"archive_workflow instead.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The workflow ID to delete"),
		),
	)
}

// Handle processes the delete_workflow tool call.
func (t *DeleteWorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	if err := t.store.Delete(id); err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete workflow: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("🗑️ Workflow %s deleted (tasks, checkpoints, and events removed)", id)), nil
}

// ─── ArchiveWorkflowTool ────────────────────────────────────────────────────

// ArchiveWorkflowTool handles the archive_workflow MCP tool: the
// data-retaining alternative to deletion, equivalent to setting the status
// to completed.
type ArchiveWorkflowTool struct {
	store workflow.Store
}

// NewArchiveWorkflowTool creates an ArchiveWorkflowTool.
func NewArchiveWorkflowTool(store workflow.Store) *ArchiveWorkflowTool {
	return &ArchiveWorkflowTool{store: store}
}

// Definition returns the MCP tool definition for archive_workflow.
func (t *ArchiveWorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("archive_workflow",
		mcp.WithDescription(
			"Archive a workflow: marks it completed and keeps all data. "+
				"Use delete_workflow to remove it entirely.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The workflow ID to archive"),
		),
	)
}

// Handle processes the archive_workflow tool call.
func (t *ArchiveWorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	wf, err := t.store.Archive(id)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to archive workflow: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("📦 Workflow archived: %s", workflowHeader(wf))), nil
}
