package notetools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/templates"
)

// ─── ListTemplatesTool ──────────────────────────────────────────────────────

// ListTemplatesTool handles the list_templates MCP tool.
type ListTemplatesTool struct {
	renderer *templates.Renderer
}

// NewListTemplatesTool creates a ListTemplatesTool.
func NewListTemplatesTool(renderer *templates.Renderer) *ListTemplatesTool {
	return &ListTemplatesTool{renderer: renderer}
}

// Definition returns the MCP tool definition for list_templates.
func (t *ListTemplatesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_templates",
		mcp.WithDescription(
			"List the available note templates with their placeholders. "+
				"Use use_template to render one into note-ready content.",
		),
	)
}

// Handle processes the list_templates tool call.
func (t *ListTemplatesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("# Templates\n\n")
	for _, tpl := range t.renderer.List() {
		fmt.Fprintf(&b, "- **%s** (note type: %s) — %s\n", tpl.Name, tpl.NoteType, tpl.Description)
		fmt.Fprintf(&b, "  Placeholders: %s\n", strings.Join(tpl.Placeholders(), ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── UseTemplateTool ────────────────────────────────────────────────────────

// UseTemplateTool handles the use_template MCP tool.
type UseTemplateTool struct {
	renderer *templates.Renderer
}

// NewUseTemplateTool creates a UseTemplateTool.
func NewUseTemplateTool(renderer *templates.Renderer) *UseTemplateTool {
	return &UseTemplateTool{renderer: renderer}
}

// Definition returns the MCP tool definition for use_template.
func (t *UseTemplateTool) Definition() mcp.Tool {
	return mcp.NewTool("use_template",
		mcp.WithDescription(
			"Render a named template by substituting {{placeholder}} values. "+
				"Placeholders you do not supply stay in the output for later filling. "+
				"Pair with add_note to save the result.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Template name (see list_templates)"),
		),
		mcp.WithString("vars",
			mcp.Description("JSON object of placeholder values, e.g. {\"title\": \"Auth plan\"}"),
		),
	)
}

// Handle processes the use_template tool call.
func (t *UseTemplateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	vars := map[string]string{}
	if raw := req.GetString("vars", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &vars); err != nil {
			return mcp.NewToolResultError("'vars' must be a JSON object of string values"), nil
		}
	}

	content, err := t.renderer.Render(name, vars)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("template %q not found — see list_templates", name)), nil
	}
	return mcp.NewToolResultText(content), nil
}
