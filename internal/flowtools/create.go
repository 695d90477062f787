package flowtools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
	"github.com/magicnote/magic-note/internal/workflow"
)

// taskSeedInput is the JSON shape accepted by create_workflow's tasks
// argument.
type taskSeedInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// CreateWorkflowTool handles the create_workflow MCP tool.
//
// A workflow can be seeded two ways: an explicit tasks array, or a plan
// note whose markdown list items become tasks (the note is then linked).
// Seeded workflows start active; empty ones start as drafts.
type CreateWorkflowTool struct {
	store workflow.Store
	notes note.Store
}

// NewCreateWorkflowTool creates a CreateWorkflowTool.
func NewCreateWorkflowTool(store workflow.Store, notes note.Store) *CreateWorkflowTool {
	return &CreateWorkflowTool{store: store, notes: notes}
}

// Definition returns the MCP tool definition for create_workflow.
func (t *CreateWorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("create_workflow",
		mcp.WithDescription(
			"Create a workflow: a tracked, multi-step unit of work with ordered tasks. "+
				"Seed tasks inline via 'tasks' (JSON array), or from a plan note via "+
				"'plan_note_id' — its markdown list items become pending tasks. "+
				"Seeded workflows start active; empty ones start as drafts.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("What this workflow delivers"),
		),
		mcp.WithString("description",
			mcp.Description("Longer context for the work"),
		),
		mcp.WithString("project",
			mcp.Description("Project this workflow belongs to"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags"),
		),
		mcp.WithString("tasks",
			mcp.Description(
				"JSON array of initial tasks, in order. Each: "+
					`{"title": "...", "description": "...", "priority": "low|medium|high|critical"}. `+
					"Priority defaults to medium.",
			),
		),
		mcp.WithString("plan_note_id",
			mcp.Description("A note of type 'plan' to derive tasks from (ignored when 'tasks' is given)"),
		),
	)
}

// Handle processes the create_workflow tool call.
func (t *CreateWorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	seeds, errResult := t.resolveSeeds(req)
	if errResult != nil {
		return errResult, nil
	}

	planNoteID := req.GetString("plan_note_id", "")
	wf, err := t.store.Create(workflow.CreateParams{
		Title:       title,
		Description: req.GetString("description", ""),
		Project:     req.GetString("project", ""),
		Tags:        csvArg(req, "tags"),
		Tasks:       seeds,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create workflow: %v", err)), nil
	}

	// Keep the plan note reachable from its workflow.
	var linkErr error
	if planNoteID != "" {
		wf2, err := t.store.Link(planNoteID, wf.ID, "")
		if err != nil {
			linkErr = err
		} else {
			wf = wf2
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🆕 Workflow created: %s\n\n", workflowHeader(wf))
	if len(wf.Tasks) > 0 {
		b.WriteString("\nTasks:\n")
		for _, task := range wf.Tasks {
			fmt.Fprintf(&b, "%d. %s (%s) — %s\n", task.Order+1, task.Title, task.Priority, task.ID)
		}
	}
	if linkErr != nil {
		fmt.Fprintf(&b, "\n⚠️ Plan note %s could not be linked: %v. Use link_artifact to attach it.\n", planNoteID, linkErr)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// resolveSeeds builds the initial task list from the tasks JSON argument,
// falling back to parsing a plan note's list items.
func (t *CreateWorkflowTool) resolveSeeds(req mcp.CallToolRequest) ([]workflow.TaskSeed, *mcp.CallToolResult) {
	if raw := req.GetString("tasks", ""); raw != "" {
		var inputs []taskSeedInput
		if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
			return nil, mcp.NewToolResultError(
				`'tasks' must be a JSON array like [{"title": "Design schema"}, {"title": "Implement JWT", "priority": "high"}]`)
		}

		seeds := make([]workflow.TaskSeed, 0, len(inputs))
		for i, in := range inputs {
			if strings.TrimSpace(in.Title) == "" {
				return nil, mcp.NewToolResultError(fmt.Sprintf("'tasks[%d]' is missing a title", i))
			}
			seeds = append(seeds, workflow.TaskSeed{
				Title:       in.Title,
				Description: in.Description,
				Priority:    workflow.Priority(in.Priority),
				DependsOn:   in.DependsOn,
				Tags:        in.Tags,
			})
		}
		return seeds, nil
	}

	planNoteID := req.GetString("plan_note_id", "")
	if planNoteID == "" {
		return nil, nil
	}

	n, err := t.notes.Get(planNoteID)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("plan note %q not found", planNoteID))
	}
	if n.Type != note.TypePlan {
		return nil, mcp.NewToolResultError(fmt.Sprintf("note %q has type %q — only 'plan' notes can seed a workflow", planNoteID, n.Type))
	}

	seeds := workflow.ParsePlanTasks(n.Content)
	if len(seeds) == 0 {
		return nil, mcp.NewToolResultError(fmt.Sprintf("plan note %q has no list items to derive tasks from", planNoteID))
	}
	return seeds, nil
}
