package flowtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// ─── GetWorkflowStatusTool ──────────────────────────────────────────────────

// GetWorkflowStatusTool handles the get_workflow_status MCP tool: a
// rendered progress report with the current, blocked, and next-actionable
// tasks.
type GetWorkflowStatusTool struct {
	store workflow.Store
}

// NewGetWorkflowStatusTool creates a GetWorkflowStatusTool.
func NewGetWorkflowStatusTool(store workflow.Store) *GetWorkflowStatusTool {
	return &GetWorkflowStatusTool{store: store}
}

// Definition returns the MCP tool definition for get_workflow_status.
func (t *GetWorkflowStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("get_workflow_status",
		mcp.WithDescription(
			"Render a workflow progress report: progress bar, current task, blocked "+
				"tasks, and what is actionable next. 'detailed' adds the full task "+
				"list; 'minimal' is a one-liner.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The workflow ID to report on"),
		),
		mcp.WithString("format",
			mcp.Description("Report depth (default summary)"),
			mcp.Enum(workflow.StatusFormatValues()...),
		),
	)
}

// Handle processes the get_workflow_status tool call.
func (t *GetWorkflowStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	format := workflow.StatusFormat(req.GetString("format", string(workflow.FormatSummary)))
	if err := workflow.ValidateStatusFormat(format); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	wf, err := t.store.Get(id)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load workflow: %v", err)), nil
	}

	return mcp.NewToolResultText(workflow.RenderStatus(wf, format)), nil
}

// ─── ResumeWorkflowTool ─────────────────────────────────────────────────────

// ResumeWorkflowTool handles the resume_workflow MCP tool: the
// picking-up-where-you-left-off digest combining the latest checkpoint,
// progress, recent events, and linked-note count.
type ResumeWorkflowTool struct {
	store workflow.Store
}

// NewResumeWorkflowTool creates a ResumeWorkflowTool.
func NewResumeWorkflowTool(store workflow.Store) *ResumeWorkflowTool {
	return &ResumeWorkflowTool{store: store}
}

// Definition returns the MCP tool definition for resume_workflow.
func (t *ResumeWorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("resume_workflow",
		mcp.WithDescription(
			"Get everything needed to pick a workflow back up after a break: the "+
				"latest checkpoint, progress, last completed and current tasks, next "+
				"actions, and recent events.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The workflow ID to resume"),
		),
	)
}

// Handle processes the resume_workflow tool call.
func (t *ResumeWorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	wf, err := t.store.Get(id)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load workflow: %v", err)), nil
	}

	checkpoints, err := t.store.ListCheckpoints(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load checkpoints: %v", err)), nil
	}
	events, err := t.store.Events(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load events: %v", err)), nil
	}

	linked := len(wf.RelatedNoteIDs)
	for _, task := range wf.Tasks {
		linked += len(task.NoteIDs)
	}

	return mcp.NewToolResultText(workflow.RenderResume(wf, checkpoints, events, linked)), nil
}
