package flowtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// ─── CreateCheckpointTool ───────────────────────────────────────────────────

// CreateCheckpointTool handles the create_checkpoint MCP tool. A
// checkpoint freezes the workflow's status, progress, and full task list
// so a later session can restore or review it.
type CreateCheckpointTool struct {
	store workflow.Store
}

// NewCreateCheckpointTool creates a CreateCheckpointTool.
func NewCreateCheckpointTool(store workflow.Store) *CreateCheckpointTool {
	return &CreateCheckpointTool{store: store}
}

// Definition returns the MCP tool definition for create_checkpoint.
func (t *CreateCheckpointTool) Definition() mcp.Tool {
	return mcp.NewTool("create_checkpoint",
		mcp.WithDescription(
			"Snapshot a workflow's current state (status, progress, tasks) so it can "+
				"be restored later. Take one before risky changes or at the end of a "+
				"session.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow to checkpoint"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form context about where the work stands"),
		),
		mcp.WithString("reason",
			mcp.Description("Why the checkpoint was taken (default manual)"),
			mcp.Enum(workflow.ReasonValues()...),
		),
	)
}

// Handle processes the create_checkpoint tool call.
func (t *CreateCheckpointTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}

	reason := workflow.CheckpointReason(req.GetString("reason", string(workflow.ReasonManual)))
	if err := workflow.ValidateReason(reason); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cp, err := t.store.CreateCheckpoint(workflowID, req.GetString("notes", ""), reason)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to create checkpoint: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"📍 Checkpoint created: %s\nReason: %s | Captured: %s at %d%% (%d/%d tasks)",
		cp.ID, cp.Reason, cp.Snapshot.Status,
		cp.Snapshot.Progress.Percentage, cp.Snapshot.Progress.Completed, cp.Snapshot.Progress.Total)), nil
}

// ─── ListCheckpointsTool ────────────────────────────────────────────────────

// ListCheckpointsTool handles the list_checkpoints MCP tool, newest first.
type ListCheckpointsTool struct {
	store workflow.Store
}

// NewListCheckpointsTool creates a ListCheckpointsTool.
func NewListCheckpointsTool(store workflow.Store) *ListCheckpointsTool {
	return &ListCheckpointsTool{store: store}
}

// Definition returns the MCP tool definition for list_checkpoints.
func (t *ListCheckpointsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_checkpoints",
		mcp.WithDescription("List a workflow's checkpoints, newest first."),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow whose checkpoints to list"),
		),
	)
}

// Handle processes the list_checkpoints tool call.
func (t *ListCheckpointsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}

	checkpoints, err := t.store.ListCheckpoints(workflowID)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to list checkpoints: %v", err)), nil
	}

	if len(checkpoints) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No checkpoints for workflow %s yet. Use create_checkpoint to take one.", workflowID)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📍 %d checkpoint(s), newest first:\n\n", len(checkpoints))
	for _, cp := range checkpoints {
		fmt.Fprintf(&b, "- %s | %s | %s | %s at %d%% (%d/%d tasks)",
			cp.ID, cp.CreatedAt, cp.Reason, cp.Snapshot.Status,
			cp.Snapshot.Progress.Percentage, cp.Snapshot.Progress.Completed, cp.Snapshot.Progress.Total)
		if cp.Notes != "" {
			fmt.Fprintf(&b, "\n  %s", cp.Notes)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── RestoreCheckpointTool ──────────────────────────────────────────────────

// RestoreCheckpointTool handles the restore_checkpoint MCP tool. Restore
// overwrites the live status, progress, and task list with the snapshot;
// it never merges. Checkpoints and the event log are untouched.
type RestoreCheckpointTool struct {
	store workflow.Store
}

// NewRestoreCheckpointTool creates a RestoreCheckpointTool.
func NewRestoreCheckpointTool(store workflow.Store) *RestoreCheckpointTool {
	return &RestoreCheckpointTool{store: store}
}

// Definition returns the MCP tool definition for restore_checkpoint.
func (t *RestoreCheckpointTool) Definition() mcp.Tool {
	return mcp.NewTool("restore_checkpoint",
		mcp.WithDescription(
			"Restore a workflow to a checkpoint's snapshot. The live status, "+
				"progress, and tasks are replaced wholesale. Omit checkpoint_id to "+
				"restore the most recent checkpoint.",
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow to restore"),
		),
		mcp.WithString("checkpoint_id",
			mcp.Description("The checkpoint to restore (default: the latest one)"),
		),
	)
}

// Handle processes the restore_checkpoint tool call.
func (t *RestoreCheckpointTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}

	checkpointID := req.GetString("checkpoint_id", "")
	if checkpointID == "" {
		latest, err := t.store.LatestCheckpoint(workflowID)
		if err != nil {
			if notFound(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("failed to look up checkpoints: %v", err)), nil
		}
		if latest == nil {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %s has no checkpoints to restore", workflowID)), nil
		}
		checkpointID = latest.ID
	}

	wf, err := t.store.RestoreCheckpoint(workflowID, checkpointID)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to restore checkpoint: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"⏪ Restored checkpoint %s\n\n%s", checkpointID, workflowHeader(wf))), nil
}
