// Package templates provides the built-in note templates exposed through
// list_templates and use_template.
//
// Templates use literal {{name}} placeholders, not Go template syntax:
// substitution is plain string replacement, and placeholders the caller
// does not supply are left intact for later filling.
package templates

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFound reports that a template name did not resolve.
var ErrNotFound = errors.New("template not found")

// Template is one named content template.
type Template struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	NoteType    string `json:"note_type"` // suggested note type for the rendered content
	Content     string `json:"content"`
}

// builtin is the template catalog, one per note type plus checkpoint notes.
var builtin = []Template{
	{
		Name:        "prompt",
		Description: "A reusable prompt with goal, context, and constraints",
		NoteType:    "prompt",
		Content: `# {{title}}

## Goal

{{goal}}

## Context

{{context}}

## Constraints

{{constraints}}
`,
	},
	{
		Name:        "plan",
		Description: "A task plan whose list items can seed a workflow",
		NoteType:    "plan",
		Content: `# {{title}}

## Objective

{{objective}}

## Tasks

- [ ] {{first_task}}

## Risks

{{risks}}
`,
	},
	{
		Name:        "choice",
		Description: "A decision record: options considered and the pick",
		NoteType:    "choice",
		Content: `# {{title}}

## Decision

{{decision}}

## Options considered

{{options}}

## Rationale

{{rationale}}
`,
	},
	{
		Name:        "insight",
		Description: "A dated learning or discovery entry",
		NoteType:    "insight",
		Content: `# {{title}}

**What**: {{what}}
**Why it matters**: {{why}}
**Where**: {{where}}
`,
	},
	{
		Name:        "checkpoint",
		Description: "Checkpoint notes: where things stand and what comes next",
		NoteType:    "plan",
		Content: `## Where we are

{{summary}}

## Next steps

{{next_steps}}

## Open questions

{{open_questions}}
`,
	},
}

// placeholder matches a literal {{name}} token.
var placeholder = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// Renderer serves the built-in template catalog.
type Renderer struct {
	byName map[string]Template
}

// NewRenderer creates a Renderer over the built-in catalog.
func NewRenderer() *Renderer {
	byName := make(map[string]Template, len(builtin))
	for _, t := range builtin {
		byName[t.Name] = t
	}
	return &Renderer{byName: byName}
}

// List returns all templates, sorted by name.
func (r *Renderer) List() []Template {
	out := make([]Template, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns a template by name.
func (r *Renderer) Get(name string) (*Template, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	return &t, nil
}

// Render substitutes the supplied vars into the named template. Placeholders
// without a supplied value are left as-is.
func (r *Renderer) Render(name string, vars map[string]string) (string, error) {
	t, err := r.Get(name)
	if err != nil {
		return "", err
	}

	content := t.Content
	for k, v := range vars {
		content = strings.ReplaceAll(content, "{{"+k+"}}", v)
	}
	return content, nil
}

// Placeholders returns the distinct placeholder names in a template,
// in order of first appearance.
func (t Template) Placeholders() []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(t.Content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
