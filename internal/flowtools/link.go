package flowtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
	"github.com/magicnote/magic-note/internal/workflow"
)

// ─── LinkArtifactTool ───────────────────────────────────────────────────────

// LinkArtifactTool handles the link_artifact MCP tool. With a task_id the
// note attaches to that task, otherwise to the workflow. The reference is
// weak: the note keeps no back-pointer and may be linked to many
// workflows. Linking is idempotent.
type LinkArtifactTool struct {
	store workflow.Store
	notes note.Store
}

// NewLinkArtifactTool creates a LinkArtifactTool.
func NewLinkArtifactTool(store workflow.Store, notes note.Store) *LinkArtifactTool {
	return &LinkArtifactTool{store: store, notes: notes}
}

// Definition returns the MCP tool definition for link_artifact.
func (t *LinkArtifactTool) Definition() mcp.Tool {
	return mcp.NewTool("link_artifact",
		mcp.WithDescription(
			"Link a note to a workflow, or to one of its tasks when task_id is "+
				"given. Linking the same note twice is a no-op.",
		),
		mcp.WithString("note_id",
			mcp.Required(),
			mcp.Description("The note to link"),
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow to link the note to"),
		),
		mcp.WithString("task_id",
			mcp.Description("Attach to this task instead of the workflow"),
		),
		mcp.WithString("role",
			mcp.Description("How the note relates to the work (e.g. 'plan', 'evidence'); echoed back, not stored"),
		),
	)
}

// Handle processes the link_artifact tool call.
func (t *LinkArtifactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID := req.GetString("note_id", "")
	if noteID == "" {
		return mcp.NewToolResultError("'note_id' is required"), nil
	}
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}

	n, err := t.notes.Get(noteID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %q not found", noteID)), nil
	}

	taskID := req.GetString("task_id", "")
	wf, err := t.store.Link(noteID, workflowID, taskID)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to link note: %v", err)), nil
	}

	target := fmt.Sprintf("workflow %q", wf.Title)
	if taskID != "" {
		if task := workflow.FindTask(wf, taskID); task != nil {
			target = fmt.Sprintf("task %q", task.Title)
		}
	}
	msg := fmt.Sprintf("🔗 Note %q linked to %s", n.Title, target)
	if role := req.GetString("role", ""); role != "" {
		msg += fmt.Sprintf(" as %s", role)
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── UnlinkArtifactTool ─────────────────────────────────────────────────────

// UnlinkArtifactTool handles the unlink_artifact MCP tool. Removing a link
// that does not exist is a no-op; the note itself is never touched.
type UnlinkArtifactTool struct {
	store workflow.Store
	notes note.Store
}

// NewUnlinkArtifactTool creates an UnlinkArtifactTool.
func NewUnlinkArtifactTool(store workflow.Store, notes note.Store) *UnlinkArtifactTool {
	return &UnlinkArtifactTool{store: store, notes: notes}
}

// Definition returns the MCP tool definition for unlink_artifact.
func (t *UnlinkArtifactTool) Definition() mcp.Tool {
	return mcp.NewTool("unlink_artifact",
		mcp.WithDescription(
			"Remove a note's link from a workflow, or from one of its tasks when "+
				"task_id is given. The note itself is not deleted.",
		),
		mcp.WithString("note_id",
			mcp.Required(),
			mcp.Description("The note to unlink"),
		),
		mcp.WithString("workflow_id",
			mcp.Required(),
			mcp.Description("The workflow holding the link"),
		),
		mcp.WithString("task_id",
			mcp.Description("Detach from this task instead of the workflow"),
		),
	)
}

// Handle processes the unlink_artifact tool call.
func (t *UnlinkArtifactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID := req.GetString("note_id", "")
	if noteID == "" {
		return mcp.NewToolResultError("'note_id' is required"), nil
	}
	workflowID := req.GetString("workflow_id", "")
	if workflowID == "" {
		return mcp.NewToolResultError("'workflow_id' is required"), nil
	}

	if _, err := t.notes.Get(noteID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %q not found", noteID)), nil
	}

	taskID := req.GetString("task_id", "")
	wf, err := t.store.Unlink(noteID, workflowID, taskID)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to unlink note: %v", err)), nil
	}

	target := fmt.Sprintf("workflow %q", wf.Title)
	if taskID != "" {
		if task := workflow.FindTask(wf, taskID); task != nil {
			target = fmt.Sprintf("task %q", task.Title)
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("🔓 Note %s unlinked from %s", noteID, target)), nil
}
