// Package note implements the freeform note store: typed notes with
// tag/project indexing, persisted as a single JSON document.
//
// Notes are independently owned. Workflows and tasks hold only weak,
// id-based references to them, so nothing here cascades.
package note

import "fmt"

// Type categorizes what a note captures.
type Type string

const (
	TypePrompt  Type = "prompt"  // a prompt worth reusing
	TypePlan    Type = "plan"    // a plan, often seeding a workflow
	TypeChoice  Type = "choice"  // a decision and its rationale
	TypeInsight Type = "insight" // a learning or discovery
)

// validTypes is the set of allowed note types.
var validTypes = map[Type]bool{
	TypePrompt:  true,
	TypePlan:    true,
	TypeChoice:  true,
	TypeInsight: true,
}

// ValidateType returns an error if the type is not recognized.
func ValidateType(t Type) error {
	if !validTypes[t] {
		return fmt.Errorf("invalid note type %q: must be one of: prompt, plan, choice, insight", t)
	}
	return nil
}

// TypeValues returns all note type values, for tool schema enums.
func TypeValues() []string {
	return []string{
		string(TypePrompt),
		string(TypePlan),
		string(TypeChoice),
		string(TypeInsight),
	}
}

// Note is a freeform piece of content. ID and Type are fixed at creation;
// everything else is mutable via Update.
type Note struct {
	ID        string   `json:"id"`
	Type      Type     `json:"type"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`
	Project   string   `json:"project,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// Filter narrows a List call. Zero-value fields are ignored;
// populated fields are AND-combined.
type Filter struct {
	Type    Type
	Project string
	Tags    []string // note must carry every listed tag
	Search  string   // case-insensitive substring over title and tags
}

// CreateParams carries the fields for a new note.
type CreateParams struct {
	Type    Type
	Title   string
	Content string
	Tags    []string
	Project string
}

// UpdateParams carries a partial update. Nil fields are left untouched.
// Type is deliberately absent; it is immutable after creation.
type UpdateParams struct {
	Title   *string
	Content *string
	Tags    *[]string
	Project *string
}
