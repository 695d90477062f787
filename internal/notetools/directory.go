package notetools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
	"github.com/magicnote/magic-note/internal/workflow"
)

// ─── ListProjectsTool ───────────────────────────────────────────────────────

// ListProjectsTool handles the list_projects MCP tool. Projects are not a
// stored entity; the directory is derived from the project fields across
// notes and workflows.
type ListProjectsTool struct {
	notes     note.Store
	workflows workflow.Store
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(notes note.Store, workflows workflow.Store) *ListProjectsTool {
	return &ListProjectsTool{notes: notes, workflows: workflows}
}

// Definition returns the MCP tool definition for list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription(
			"List every project name in use, with note and workflow counts. "+
				"Projects exist implicitly: they are whatever notes and workflows reference.",
		),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := t.notes.List(note.Filter{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}
	flows, err := t.workflows.List(workflow.Filter{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list workflows: %v", err)), nil
	}

	type counts struct{ notes, workflows int }
	byProject := map[string]*counts{}
	for _, n := range notes {
		if n.Project == "" {
			continue
		}
		if byProject[n.Project] == nil {
			byProject[n.Project] = &counts{}
		}
		byProject[n.Project].notes++
	}
	for _, wf := range flows {
		if wf.Project == "" {
			continue
		}
		if byProject[wf.Project] == nil {
			byProject[wf.Project] = &counts{}
		}
		byProject[wf.Project].workflows++
	}

	if len(byProject) == 0 {
		return mcp.NewToolResultText("No projects yet."), nil
	}

	names := make([]string, 0, len(byProject))
	for name := range byProject {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "# Projects (%d)\n\n", len(names))
	for _, name := range names {
		c := byProject[name]
		fmt.Fprintf(&b, "- **%s** — %d notes, %d workflows\n", name, c.notes, c.workflows)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── ListTagsTool ───────────────────────────────────────────────────────────

// ListTagsTool handles the list_tags MCP tool.
type ListTagsTool struct {
	notes     note.Store
	workflows workflow.Store
}

// NewListTagsTool creates a ListTagsTool.
func NewListTagsTool(notes note.Store, workflows workflow.Store) *ListTagsTool {
	return &ListTagsTool{notes: notes, workflows: workflows}
}

// Definition returns the MCP tool definition for list_tags.
func (t *ListTagsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tags",
		mcp.WithDescription("List every tag in use across notes, with usage counts."),
	)
}

// Handle processes the list_tags tool call.
func (t *ListTagsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := t.notes.List(note.Filter{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}

	counts := map[string]int{}
	for _, n := range notes {
		for _, tag := range n.Tags {
			counts[tag]++
		}
	}

	if len(counts) == 0 {
		return mcp.NewToolResultText("No tags yet."), nil
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# Tags (%d)\n\n", len(tags))
	for _, tag := range tags {
		fmt.Fprintf(&b, "- #%s (%d)\n", tag, counts[tag])
	}
	return mcp.NewToolResultText(b.String()), nil
}
