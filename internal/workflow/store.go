package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magicnote/magic-note/internal/storage"
)

const (
	// WorkflowsDir is the subdirectory under the data dir holding one
	// directory per workflow aggregate.
	WorkflowsDir = "workflows"
	// WorkflowFile is the filename for the aggregate document.
	WorkflowFile = "workflow.json"
	// CheckpointsFile is the filename for the checkpoint list.
	CheckpointsFile = "checkpoints.json"
	// EventsFile is the filename for the append-only event log.
	EventsFile = "events.jsonl"
)

// ErrNotFound reports that a workflow, task, or checkpoint id did not resolve.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for workflow aggregates.
type Store interface {
	Create(params CreateParams) (*Workflow, error)
	Get(id string) (*Workflow, error)
	List(filter Filter) ([]Summary, error)
	Update(id string, params UpdateParams) (*Workflow, error)
	Delete(id string) error
	Archive(id string) (*Workflow, error)

	AddTask(workflowID string, params AddTaskParams) (*Task, error)
	UpdateTask(workflowID, taskID string, params UpdateTaskParams) (*Task, error)
	RemoveTask(workflowID, taskID string) error
	ReorderTasks(workflowID string, orderedIDs []string) (*Workflow, error)
	SetTaskStatus(workflowID, taskID string, status TaskStatus, note string) (*Workflow, *Task, error)
	DelegateTask(workflowID, taskID, agentType, instructions string) (*Task, error)

	CreateCheckpoint(workflowID, notes string, reason CheckpointReason) (*Checkpoint, error)
	ListCheckpoints(workflowID string) ([]Checkpoint, error)
	LatestCheckpoint(workflowID string) (*Checkpoint, error)
	RestoreCheckpoint(workflowID, checkpointID string) (*Workflow, error)

	Link(noteID, workflowID, taskID string) (*Workflow, error)
	Unlink(noteID, workflowID, taskID string) (*Workflow, error)

	Events(workflowID string) ([]Event, error)
}

// FileStore implements Store on a per-workflow directory of JSON documents.
// Mutations are serialized behind a mutex: within one server instance the
// load → mutate → persist unit of work is race-free. There is no
// cross-process locking; concurrent processes are last-writer-wins.
type FileStore struct {
	dataDir string
	strict  bool
	mu      sync.Mutex
}

// NewFileStore creates a workflow store rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

// EnableStrictTransitions turns on transition-table checking for explicit
// workflow status updates. The underlying data stays permissive.
func (fs *FileStore) EnableStrictTransitions() {
	fs.strict = true
}

// --- Paths ---

func (fs *FileStore) root() string {
	return filepath.Join(fs.dataDir, WorkflowsDir)
}

func (fs *FileStore) dir(id string) string {
	return filepath.Join(fs.root(), id)
}

func (fs *FileStore) workflowPath(id string) string {
	return filepath.Join(fs.dir(id), WorkflowFile)
}

func (fs *FileStore) checkpointsPath(id string) string {
	return filepath.Join(fs.dir(id), CheckpointsFile)
}

func (fs *FileStore) eventsPath(id string) string {
	return filepath.Join(fs.dir(id), EventsFile)
}

// --- Workflow CRUD ---

// Create persists a new workflow. Seeded tasks get their order from input
// position and default to medium priority. A seeded workflow starts active;
// an empty one starts as a draft.
func (fs *FileStore) Create(params CreateParams) (*Workflow, error) {
	for _, seed := range params.Tasks {
		if seed.Priority != "" {
			if err := ValidatePriority(seed.Priority); err != nil {
				return nil, err
			}
		}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := timeNow().UTC().Format(time.RFC3339)
	status := StatusDraft
	if len(params.Tasks) > 0 {
		status = StatusActive
	}

	wf := &Workflow{
		ID:          newID(),
		Title:       params.Title,
		Description: params.Description,
		Status:      status,
		Project:     params.Project,
		Tags:        params.Tags,
		Tasks:       []Task{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for i, seed := range params.Tasks {
		priority := seed.Priority
		if priority == "" {
			priority = PriorityMedium
		}
		wf.Tasks = append(wf.Tasks, Task{
			ID:          newID(),
			Title:       seed.Title,
			Description: seed.Description,
			Status:      TaskPending,
			Priority:    priority,
			Order:       i,
			DependsOn:   seed.DependsOn,
			NoteIDs:     seed.NoteIDs,
			Tags:        seed.Tags,
		})
	}
	wf.Progress = ComputeProgress(wf.Tasks)

	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}

	if err := fs.appendEvent(wf.ID, EventWorkflowCreated, map[string]any{"title": wf.Title}); err != nil {
		return nil, err
	}
	for _, t := range wf.Tasks {
		if err := fs.appendEvent(wf.ID, EventTaskCreated, map[string]any{"title": t.Title, "task_id": t.ID}); err != nil {
			return nil, err
		}
	}

	return wf, nil
}

// Get returns a workflow aggregate by id.
func (fs *FileStore) Get(id string) (*Workflow, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.loadWorkflow(id)
}

// List returns summaries of workflows matching the filter, most recently
// updated first. Unreadable aggregates are skipped.
func (fs *FileStore) List(filter Filter) ([]Summary, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries, err := os.ReadDir(fs.root())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading workflows directory: %w", err)
	}

	var result []Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		wf, err := fs.loadWorkflow(entry.Name())
		if err != nil {
			continue
		}
		if !wfMatches(wf, filter) {
			continue
		}
		result = append(result, Summary{
			ID:        wf.ID,
			Title:     wf.Title,
			Status:    wf.Status,
			Project:   wf.Project,
			Progress:  wf.Progress,
			UpdatedAt: wf.UpdatedAt,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt > result[j].UpdatedAt
	})
	return result, nil
}

// Update applies a partial update. A status change is validated against the
// enum (and the transition table in strict mode) and emits the matching
// lifecycle event.
func (fs *FileStore) Update(id string, params UpdateParams) (*Workflow, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if params.Status != nil && *params.Status != wf.Status {
		if err := ValidateStatus(*params.Status); err != nil {
			return nil, err
		}
		if fs.strict {
			if err := CheckTransition(wf.Status, *params.Status); err != nil {
				return nil, err
			}
		}
		wf.Status = *params.Status
		statusChanged = true
	}
	if params.Title != nil {
		wf.Title = *params.Title
	}
	if params.Description != nil {
		wf.Description = *params.Description
	}
	if params.Tags != nil {
		wf.Tags = *params.Tags
	}
	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}

	if statusChanged {
		if evType, ok := statusEvent(wf.Status); ok {
			if err := fs.appendEvent(wf.ID, evType, map[string]any{"title": wf.Title, "status": string(wf.Status)}); err != nil {
				return nil, err
			}
		}
	}
	return wf, nil
}

// Delete removes the workflow directory, cascading to its tasks,
// checkpoints, and events.
func (fs *FileStore) Delete(id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.loadWorkflow(id); err != nil {
		return err
	}
	if err := os.RemoveAll(fs.dir(id)); err != nil {
		return fmt.Errorf("deleting workflow %q: %w", id, err)
	}
	return nil
}

// Archive marks a workflow completed, retaining its data. It is always
// allowed, even in strict mode.
func (fs *FileStore) Archive(id string) (*Workflow, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(id)
	if err != nil {
		return nil, err
	}
	if wf.Status == StatusCompleted {
		return wf, nil
	}

	wf.Status = StatusCompleted
	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)
	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}
	if err := fs.appendEvent(wf.ID, EventWorkflowCompleted, map[string]any{"title": wf.Title, "archived": true}); err != nil {
		return nil, err
	}
	return wf, nil
}

// statusEvent maps a workflow status to its lifecycle event, if any.
func statusEvent(s Status) (EventType, bool) {
	switch s {
	case StatusActive:
		return EventWorkflowStarted, true
	case StatusCompleted:
		return EventWorkflowCompleted, true
	case StatusPaused:
		return EventWorkflowPaused, true
	case StatusFailed:
		return EventWorkflowFailed, true
	case StatusCancelled:
		return EventWorkflowCancelled, true
	}
	return "", false
}

// wfMatches reports whether a workflow satisfies every populated filter field.
func wfMatches(wf *Workflow, f Filter) bool {
	if f.ActiveOnly && wf.Status != StatusActive {
		return false
	}
	if f.Status != "" && wf.Status != f.Status {
		return false
	}
	if f.Project != "" && wf.Project != f.Project {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(wf.Title), needle) &&
			!strings.Contains(strings.ToLower(wf.Description), needle) &&
			!tagContains(wf.Tags, needle) {
			return false
		}
	}
	return true
}

func tagContains(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// --- Artifact linking ---

// Link adds a weak note reference to the workflow (or to one of its tasks
// when taskID is given). Idempotent: a reference already present is a no-op.
// Note existence is the caller's concern; the store only resolves the
// workflow/task side.
func (fs *FileStore) Link(noteID, workflowID, taskID string) (*Workflow, error) {
	return fs.mutateLinks(workflowID, taskID, func(ids []string) []string {
		return addID(ids, noteID)
	})
}

// Unlink removes a weak note reference. Idempotent no-op if absent.
func (fs *FileStore) Unlink(noteID, workflowID, taskID string) (*Workflow, error) {
	return fs.mutateLinks(workflowID, taskID, func(ids []string) []string {
		return removeID(ids, noteID)
	})
}

func (fs *FileStore) mutateLinks(workflowID, taskID string, mutate func([]string) []string) (*Workflow, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}

	if taskID == "" {
		wf.RelatedNoteIDs = mutate(wf.RelatedNoteIDs)
	} else {
		task := FindTask(wf, taskID)
		if task == nil {
			return nil, fmt.Errorf("task %q in workflow %q: %w", taskID, workflowID, ErrNotFound)
		}
		task.NoteIDs = mutate(task.NoteIDs)
	}

	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)
	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}
	return wf, nil
}

func addID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// FindTask returns a pointer into the workflow's task slice, or nil.
func FindTask(wf *Workflow, taskID string) *Task {
	for i := range wf.Tasks {
		if wf.Tasks[i].ID == taskID {
			return &wf.Tasks[i]
		}
	}
	return nil
}

// --- Persistence ---

// loadWorkflow reads an aggregate document. Caller must hold the mutex.
func (fs *FileStore) loadWorkflow(id string) (*Workflow, error) {
	var wf Workflow
	if err := storage.ReadJSON(fs.workflowPath(id), &wf); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("workflow %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("reading workflow %q: %w", id, err)
	}
	return &wf, nil
}

// saveWorkflow writes an aggregate document. Caller must hold the mutex.
func (fs *FileStore) saveWorkflow(wf *Workflow) error {
	if err := storage.WriteJSON(fs.workflowPath(wf.ID), wf); err != nil {
		return fmt.Errorf("writing workflow %q: %w", wf.ID, err)
	}
	return nil
}

// newID generates an aggregate id: UUIDv7 for time-ordered ids, falling
// back to random v4 if the monotonic source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
