package flowtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// ─── SetTaskStatusTool ──────────────────────────────────────────────────────

// SetTaskStatusTool handles the set_task_status MCP tool: the primary
// progress-reporting operation. It records an event, recomputes progress,
// and drives the workflow lifecycle (first task started activates a draft,
// last task completed completes the workflow).
type SetTaskStatusTool struct {
	store workflow.Store
}

// NewSetTaskStatusTool creates a SetTaskStatusTool.
func NewSetTaskStatusTool(store workflow.Store) *SetTaskStatusTool {
	return &SetTaskStatusTool{store: store}
}

// Definition returns the MCP tool definition for set_task_status.
func (t *SetTaskStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("set_task_status",
		mcp.WithDescription(
			"Set a task's status and record it in the workflow's event log. "+
				"Starting the first task activates a draft workflow; completing the "+
				"last one completes it.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow containing the task"),
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID to update"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("The new task status"),
			mcp.Enum(workflow.TaskStatusValues()...),
		),
		mcp.WithString("note",
			mcp.Description("Optional context recorded with the event"),
		),
	)
}

// Handle processes the set_task_status tool call.
func (t *SetTaskStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	status := req.GetString("status", "")
	if status == "" {
		return mcp.NewToolResultError("'status' is required"), nil
	}
	if err := workflow.ValidateTaskStatus(workflow.TaskStatus(status)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	wf, task, err := t.store.SetTaskStatus(workflowID, taskID, workflow.TaskStatus(status), req.GetString("note", ""))
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to set task status: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Task %q is now %s\n\n%s", task.Title, task.Status, workflowHeader(wf))
	if wf.Status == workflow.StatusCompleted {
		b.WriteString("\n\n🎉 All tasks complete — workflow finished.")
	} else if next := workflow.NextActionable(wf); len(next) > 0 {
		fmt.Fprintf(&b, "\n\nNext up: %s (%s)", next[0].Title, next[0].ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── ReorderTasksTool ───────────────────────────────────────────────────────

// ReorderTasksTool handles the reorder_tasks MCP tool. Listed tasks take
// positions 0..n-1 in the given order; unlisted tasks keep their previous
// order values.
type ReorderTasksTool struct {
	store workflow.Store
}

// NewReorderTasksTool creates a ReorderTasksTool.
func NewReorderTasksTool(store workflow.Store) *ReorderTasksTool {
	return &ReorderTasksTool{store: store}
}

// Definition returns the MCP tool definition for reorder_tasks.
func (t *ReorderTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("reorder_tasks",
		mcp.WithDescription(
			"Reorder a workflow's tasks. Listed task IDs take the leading positions "+
				"in the given order; tasks not listed keep their previous positions.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow to reorder"),
		),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Comma-separated task IDs in the desired order; an empty list changes nothing"),
		),
	)
}

// Handle processes the reorder_tasks tool call.
func (t *ReorderTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}
	// An empty list is a valid no-op; the store leaves every order as-is.
	ids := csvArg(req, "task_ids")

	wf, err := t.store.ReorderTasks(workflowID, ids)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to reorder tasks: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔀 Tasks reordered in %s:\n", wf.Title)
	for i, task := range workflow.OrderedTasks(wf) {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, task.Title, task.ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── DelegateTaskTool ───────────────────────────────────────────────────────

// DelegateTaskTool handles the delegate_task MCP tool. Delegation marks
// the task in progress and records who it was handed to; there is no
// actual dispatch.
type DelegateTaskTool struct {
	store workflow.Store
}

// NewDelegateTaskTool creates a DelegateTaskTool.
func NewDelegateTaskTool(store workflow.Store) *DelegateTaskTool {
	return &DelegateTaskTool{store: store}
}

// Definition returns the MCP tool definition for delegate_task.
func (t *DelegateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delegate_task",
		mcp.WithDescription(
			"Hand a task off to a sub-agent: marks it in progress and records the "+
				"agent type and instructions in the event log. The caller is "+
				"responsible for actually dispatching the work.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow containing the task"),
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID to delegate"),
		),
		mcp.WithString("agent_type",
			mcp.Required(),
			mcp.Description("The kind of agent receiving the task (e.g. 'code-reviewer')"),
		),
		mcp.WithString("instructions",
			mcp.Description("Instructions to pass along with the task"),
		),
	)
}

// Handle processes the delegate_task tool call.
func (t *DelegateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	agentType := req.GetString("agent_type", "")
	if agentType == "" {
		return mcp.NewToolResultError("'agent_type' is required"), nil
	}

	task, err := t.store.DelegateTask(workflowID, taskID, agentType, req.GetString("instructions", ""))
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delegate task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"🤝 Task %q delegated to %s and marked in progress (%s)",
		task.Title, agentType, task.ID)), nil
}
