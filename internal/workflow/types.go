// Package workflow implements the workflow aggregate: ordered tasks owned by
// a workflow, immutable checkpoints, and an append-only event log, persisted
// as a per-workflow directory of JSON documents.
//
// Design principles mirror the note store:
//   - SRP: types, store, projections, and transitions in separate files
//   - DIP: Store is an interface; tools depend on the abstraction
//   - Permissive enums: any enumerated value is storable; the optional strict
//     mode layers a transition table in front of workflow status updates only
package workflow

import "fmt"

// --- Workflow status enum ---

// Status tracks the overall lifecycle of a workflow. The intended flow is
// draft → ready → active → {paused, blocked} → {completed, failed, cancelled},
// but the store accepts any enumerated value unless strict mode is enabled.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReady     Status = "ready"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusBlocked   Status = "blocked"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusDraft:     true,
	StatusReady:     true,
	StatusActive:    true,
	StatusPaused:    true,
	StatusBlocked:   true,
	StatusCompleted: true,
	StatusFailed:    true,
	StatusCancelled: true,
}

// ValidateStatus returns an error if the workflow status is not recognized.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid workflow status %q: must be one of: draft, ready, active, paused, blocked, completed, failed, cancelled", s)
	}
	return nil
}

// StatusValues returns all workflow status values, for tool schema enums.
func StatusValues() []string {
	return []string{
		string(StatusDraft), string(StatusReady), string(StatusActive),
		string(StatusPaused), string(StatusBlocked), string(StatusCompleted),
		string(StatusFailed), string(StatusCancelled),
	}
}

// --- Task status enum ---

// TaskStatus tracks a single task's lifecycle. The intended flow is
// pending → in_progress → [verifying|review] → completed; the store does
// not enforce a transition graph.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskVerifying  TaskStatus = "verifying"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskSkipped    TaskStatus = "skipped"
	TaskBlocked    TaskStatus = "blocked"
)

var validTaskStatuses = map[TaskStatus]bool{
	TaskPending:    true,
	TaskInProgress: true,
	TaskVerifying:  true,
	TaskReview:     true,
	TaskCompleted:  true,
	TaskFailed:     true,
	TaskSkipped:    true,
	TaskBlocked:    true,
}

// ValidateTaskStatus returns an error if the task status is not recognized.
func ValidateTaskStatus(s TaskStatus) error {
	if !validTaskStatuses[s] {
		return fmt.Errorf("invalid task status %q: must be one of: pending, in_progress, verifying, review, completed, failed, skipped, blocked", s)
	}
	return nil
}

// TaskStatusValues returns all task status values, for tool schema enums.
func TaskStatusValues() []string {
	return []string{
		string(TaskPending), string(TaskInProgress), string(TaskVerifying),
		string(TaskReview), string(TaskCompleted), string(TaskFailed),
		string(TaskSkipped), string(TaskBlocked),
	}
}

// --- Task priority enum ---

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var validPriorities = map[Priority]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

// ValidatePriority returns an error if the priority is not recognized.
func ValidatePriority(p Priority) error {
	if !validPriorities[p] {
		return fmt.Errorf("invalid priority %q: must be one of: low, medium, high, critical", p)
	}
	return nil
}

// PriorityValues returns all priority values, for tool schema enums.
func PriorityValues() []string {
	return []string{
		string(PriorityLow), string(PriorityMedium),
		string(PriorityHigh), string(PriorityCritical),
	}
}

// --- Checkpoint reason enum ---

// CheckpointReason records why a checkpoint was taken.
type CheckpointReason string

const (
	ReasonManual        CheckpointReason = "manual"
	ReasonMilestone     CheckpointReason = "milestone"
	ReasonSessionEnd    CheckpointReason = "session_end"
	ReasonAuto          CheckpointReason = "auto"
	ReasonPhaseComplete CheckpointReason = "phase_complete"
)

var validReasons = map[CheckpointReason]bool{
	ReasonManual:        true,
	ReasonMilestone:     true,
	ReasonSessionEnd:    true,
	ReasonAuto:          true,
	ReasonPhaseComplete: true,
}

// ValidateReason returns an error if the checkpoint reason is not recognized.
func ValidateReason(r CheckpointReason) error {
	if !validReasons[r] {
		return fmt.Errorf("invalid checkpoint reason %q: must be one of: manual, milestone, session_end, auto, phase_complete", r)
	}
	return nil
}

// ReasonValues returns all checkpoint reason values, for tool schema enums.
func ReasonValues() []string {
	return []string{
		string(ReasonManual), string(ReasonMilestone), string(ReasonSessionEnd),
		string(ReasonAuto), string(ReasonPhaseComplete),
	}
}

// --- Event type enum ---

// EventType identifies an entry in a workflow's append-only history.
type EventType string

const (
	EventWorkflowCreated   EventType = "workflow_created"
	EventWorkflowStarted   EventType = "workflow_started"
	EventWorkflowCompleted EventType = "workflow_completed"
	EventWorkflowPaused    EventType = "workflow_paused"
	EventWorkflowFailed    EventType = "workflow_failed"
	EventWorkflowCancelled EventType = "workflow_cancelled"
	EventTaskCreated       EventType = "task_created"
	EventTaskStarted       EventType = "task_started"
	EventTaskCompleted     EventType = "task_completed"
	EventTaskFailed        EventType = "task_failed"
	EventTaskSkipped       EventType = "task_skipped"
	EventStepCompleted     EventType = "step_completed"
	EventCheckpointCreated EventType = "checkpoint_created"
	EventVerificationRun   EventType = "verification_run"
	EventReviewSubmitted   EventType = "review_submitted"
)

// --- Core data structures ---

// Progress is the derived completion state of a workflow. It is always
// recomputable from the task list and is refreshed after every task
// mutation. Zero tasks means zero percent.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Task is a single unit of work, owned exclusively by one workflow.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	Order       int        `json:"order"`
	DependsOn   []string   `json:"depends_on,omitempty"` // sibling task ids; dangling ids are tolerated
	NoteIDs     []string   `json:"note_ids,omitempty"`   // weak refs to notes
	Tags        []string   `json:"tags,omitempty"`
	CompletedAt string     `json:"completed_at,omitempty"` // set iff Status == completed
}

// Workflow is the aggregate root, persisted as workflow.json.
type Workflow struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Status         Status   `json:"status"`
	Project        string   `json:"project,omitempty"`
	Progress       Progress `json:"progress"`
	Tasks          []Task   `json:"tasks"`
	RelatedNoteIDs []string `json:"related_note_ids,omitempty"` // weak refs to notes
	Tags           []string `json:"tags,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// Summary is the lightweight representation returned by List,
// without task bodies.
type Summary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Status    Status   `json:"status"`
	Project   string   `json:"project,omitempty"`
	Progress  Progress `json:"progress"`
	UpdatedAt string   `json:"updated_at"`
}

// Snapshot is the workflow state captured by a checkpoint.
type Snapshot struct {
	Status   Status   `json:"status"`
	Progress Progress `json:"progress"`
	Tasks    []Task   `json:"tasks"`
}

// Checkpoint is an immutable point-in-time snapshot of a workflow.
// Restore overwrites the live state with the snapshot; it never merges.
type Checkpoint struct {
	ID         string           `json:"id"`
	WorkflowID string           `json:"workflow_id"`
	Reason     CheckpointReason `json:"reason"`
	Notes      string           `json:"notes,omitempty"`
	Snapshot   Snapshot         `json:"snapshot"`
	CreatedAt  string           `json:"created_at"`
}

// Event is one append-only history entry. Events are emitted as a side
// effect of store mutations and are never modified or deleted.
type Event struct {
	WorkflowID string         `json:"workflow_id"`
	Type       EventType      `json:"type"`
	Payload    map[string]any `json:"payload,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

// --- Parameters ---

// TaskSeed describes a task supplied at workflow creation.
type TaskSeed struct {
	Title       string
	Description string
	Priority    Priority // defaults to medium when empty
	DependsOn   []string
	NoteIDs     []string
	Tags        []string
}

// CreateParams carries the fields for a new workflow.
type CreateParams struct {
	Title       string
	Description string
	Project     string
	Tags        []string
	Tasks       []TaskSeed
}

// UpdateParams carries a partial workflow update. Nil fields are untouched.
type UpdateParams struct {
	Title       *string
	Description *string
	Status      *Status
	Tags        *[]string
}

// AddTaskParams carries the fields for a new task.
type AddTaskParams struct {
	Title       string
	Description string
	Priority    Priority // defaults to medium when empty
	DependsOn   []string
	NoteIDs     []string
	Tags        []string
}

// UpdateTaskParams carries a partial task update. Nil fields are untouched.
// A status change here recomputes progress but emits no event; events are
// the business of SetTaskStatus.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *Priority
	DependsOn   *[]string
	Tags        *[]string
}

// Filter narrows a List call. Zero-value fields are ignored.
type Filter struct {
	Project    string
	Status     Status
	Search     string // case-insensitive substring over title, description, tags
	ActiveOnly bool   // exactly the subset with status == active
}

// cloneTasks deep-copies a task list, including its id slices, so snapshots
// never alias live state.
func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t
		out[i].DependsOn = append([]string(nil), t.DependsOn...)
		out[i].NoteIDs = append([]string(nil), t.NoteIDs...)
		out[i].Tags = append([]string(nil), t.Tags...)
	}
	return out
}
