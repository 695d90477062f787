package flowtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// ─── AddTaskTool ────────────────────────────────────────────────────────────

// AddTaskTool handles the add_task MCP tool. New tasks start pending and
// are appended at the end of the workflow's order.
type AddTaskTool struct {
	store workflow.Store
}

// NewAddTaskTool creates an AddTaskTool.
func NewAddTaskTool(store workflow.Store) *AddTaskTool {
	return &AddTaskTool{store: store}
}

// Definition returns the MCP tool definition for add_task.
func (t *AddTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription(
			"Add a task to a workflow. The task starts pending and is placed at "+
				"the end of the current order. Use reorder_tasks to move it.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow to add the task to"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("What the task accomplishes"),
		),
		mcp.WithString("description",
			mcp.Description("Longer context for the task"),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority (default medium)"),
			mcp.Enum(workflow.PriorityValues()...),
		),
		mcp.WithString("depends_on",
			mcp.Description("Comma-separated task IDs this task depends on"),
		),
		mcp.WithString("note_ids",
			mcp.Description("Comma-separated note IDs to attach"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags"),
		),
	)
}

// Handle processes the add_task tool call.
func (t *AddTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}
	title := req.GetString("title", "")
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	task, err := t.store.AddTask(workflowID, workflow.AddTaskParams{
		Title:       title,
		Description: req.GetString("description", ""),
		Priority:    workflow.Priority(req.GetString("priority", "")),
		DependsOn:   csvArg(req, "depends_on"),
		NoteIDs:     csvArg(req, "note_ids"),
		Tags:        csvArg(req, "tags"),
	})
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"➕ Task added: %s (%s)\nPosition: %d | Priority: %s | Status: %s",
		task.Title, task.ID, task.Order+1, task.Priority, task.Status)), nil
}

// ─── UpdateTaskTool ─────────────────────────────────────────────────────────

// UpdateTaskTool handles the update_task MCP tool. Omitted fields are left
// untouched. Changing status here skips the event log; use set_task_status
// when the change should show up in the timeline.
type UpdateTaskTool struct {
	store workflow.Store
}

// NewUpdateTaskTool creates an UpdateTaskTool.
func NewUpdateTaskTool(store workflow.Store) *UpdateTaskTool {
	return &UpdateTaskTool{store: store}
}

// Definition returns the MCP tool definition for update_task.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription(
			"Update a task's title, description, status, priority, dependencies, or "+
				"tags. Prefer set_task_status for status changes you want recorded in "+
				"the event log.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow containing the task"),
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID to update"),
		),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("status",
			mcp.Description("New status (no event is emitted)"),
			mcp.Enum(workflow.TaskStatusValues()...),
		),
		mcp.WithString("priority",
			mcp.Description("New priority"),
			mcp.Enum(workflow.PriorityValues()...),
		),
		mcp.WithString("depends_on", mcp.Description("Comma-separated task IDs (replaces the old set)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags (replaces the old set)")),
	)
}

// Handle processes the update_task tool call.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	args := req.GetArguments()
	var params workflow.UpdateTaskParams
	if v, ok := args["title"].(string); ok {
		params.Title = &v
	}
	if v, ok := args["description"].(string); ok {
		params.Description = &v
	}
	if v, ok := args["status"].(string); ok {
		status := workflow.TaskStatus(v)
		params.Status = &status
	}
	if v, ok := args["priority"].(string); ok {
		priority := workflow.Priority(v)
		params.Priority = &priority
	}
	if _, ok := args["depends_on"].(string); ok {
		deps := csvArg(req, "depends_on")
		params.DependsOn = &deps
	}
	if _, ok := args["tags"].(string); ok {
		tags := csvArg(req, "tags")
		params.Tags = &tags
	}

	task, err := t.store.UpdateTask(workflowID, taskID, params)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to update task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✏️ Task updated: %s (%s)\nStatus: %s | Priority: %s",
		task.Title, task.ID, task.Status, task.Priority)), nil
}

// ─── RemoveTaskTool ─────────────────────────────────────────────────────────

// RemoveTaskTool handles the remove_task MCP tool. Other tasks keep their
// order values; dependencies pointing at the removed task become dangling,
// which the store tolerates.
type RemoveTaskTool struct {
	store workflow.Store
}

// NewRemoveTaskTool creates a RemoveTaskTool.
func NewRemoveTaskTool(store workflow.Store) *RemoveTaskTool {
	return &RemoveTaskTool{store: store}
}

// Definition returns the MCP tool definition for remove_task.
func (t *RemoveTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("remove_task",
		mcp.WithDescription(
			"Remove a task from a workflow. Progress is recomputed; other tasks "+
				"keep their positions.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow containing the task"),
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID to remove"),
		),
	)
}

// Handle processes the remove_task tool call.
func (t *RemoveTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	if err := t.store.RemoveTask(workflowID, taskID); err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("🗑️ Task %s removed from workflow %s", taskID, workflowID)), nil
}
