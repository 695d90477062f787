package flowtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// defaultTimelineLimit caps the timeline when the caller gives no limit.
const defaultTimelineLimit = 20

// GetTimelineTool handles the get_timeline MCP tool: the workflow's event
// history grouped by day, newest first. An explicit limit of 0 yields an
// empty listing; an absent limit defaults to 20.
type GetTimelineTool struct {
	store workflow.Store
}

// NewGetTimelineTool creates a GetTimelineTool.
func NewGetTimelineTool(store workflow.Store) *GetTimelineTool {
	return &GetTimelineTool{store: store}
}

// Definition returns the MCP tool definition for get_timeline.
func (t *GetTimelineTool) Definition() mcp.Tool {
	return mcp.NewTool("get_timeline",
		mcp.WithDescription(
			"Show a workflow's event history grouped by day, newest first. Filter "+
				"with 'event_types' (comma-separated) and cap with 'limit' "+
				"(default 20, most recent events).",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The workflow ID whose history to show"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of events, most recent kept (default 20)"),
		),
		mcp.WithString("event_types",
			mcp.Description("Comma-separated event types to include (e.g. 'task_completed,checkpoint_created')"),
		),
	)
}

// Handle processes the get_timeline tool call.
func (t *GetTimelineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	events, err := t.store.Events(id)
	if err != nil {
		if notFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("workflow %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load events: %v", err)), nil
	}

	limit := intArg(req, "limit", defaultTimelineLimit)
	if limit < 0 {
		return mcp.NewToolResultError("'limit' must not be negative"), nil
	}

	var types []workflow.EventType
	for _, raw := range csvArg(req, "event_types") {
		types = append(types, workflow.EventType(raw))
	}

	return mcp.NewToolResultText(workflow.RenderTimeline(events, limit, types)), nil
}
