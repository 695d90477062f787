package workflow

import (
	"fmt"
	"time"
)

// AddTask appends a task at the end of the workflow's order and recomputes
// progress. Dependencies may reference sibling ids only by convention; the
// store does not verify them (dangling ids are tolerated by readers).
func (fs *FileStore) AddTask(workflowID string, params AddTaskParams) (*Task, error) {
	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}

	task := Task{
		ID:          newID(),
		Title:       params.Title,
		Description: params.Description,
		Status:      TaskPending,
		Priority:    priority,
		Order:       len(wf.Tasks),
		DependsOn:   params.DependsOn,
		NoteIDs:     params.NoteIDs,
		Tags:        params.Tags,
	}
	wf.Tasks = append(wf.Tasks, task)
	wf.Progress = ComputeProgress(wf.Tasks)
	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}
	if err := fs.appendEvent(wf.ID, EventTaskCreated, map[string]any{"title": task.Title, "task_id": task.ID}); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task. Progress is recomputed when
// the status changes; no event is emitted. SetTaskStatus is the
// event-bearing path.
func (fs *FileStore) UpdateTask(workflowID, taskID string, params UpdateTaskParams) (*Task, error) {
	if params.Status != nil {
		if err := ValidateTaskStatus(*params.Status); err != nil {
			return nil, err
		}
	}
	if params.Priority != nil {
		if err := ValidatePriority(*params.Priority); err != nil {
			return nil, err
		}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	task := FindTask(wf, taskID)
	if task == nil {
		return nil, fmt.Errorf("task %q in workflow %q: %w", taskID, workflowID, ErrNotFound)
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.DependsOn != nil {
		task.DependsOn = *params.DependsOn
	}
	if params.Tags != nil {
		task.Tags = *params.Tags
	}
	if params.Status != nil && *params.Status != task.Status {
		applyTaskStatus(task, *params.Status)
		wf.Progress = ComputeProgress(wf.Tasks)
	}
	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}
	result := *task
	return &result, nil
}

// RemoveTask deletes a task and recomputes progress. Sibling dependsOn
// references are not repaired; dangling ids never resolve and therefore
// never gate anything.
func (fs *FileStore) RemoveTask(workflowID, taskID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return err
	}

	for i := range wf.Tasks {
		if wf.Tasks[i].ID != taskID {
			continue
		}
		wf.Tasks = append(wf.Tasks[:i], wf.Tasks[i+1:]...)
		wf.Progress = ComputeProgress(wf.Tasks)
		wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)
		return fs.saveWorkflow(wf)
	}
	return fmt.Errorf("task %q in workflow %q: %w", taskID, workflowID, ErrNotFound)
}

// ReorderTasks assigns order 0..n-1 to the listed tasks by position.
// Tasks omitted from the list keep their previous order value, which can
// collide with the new ones; presentation sorts stably, so collisions are
// display-stable. An empty list changes nothing. Unknown ids are an error.
func (fs *FileStore) ReorderTasks(workflowID string, orderedIDs []string) (*Workflow, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	if len(orderedIDs) == 0 {
		return wf, nil
	}

	for pos, id := range orderedIDs {
		task := FindTask(wf, id)
		if task == nil {
			return nil, fmt.Errorf("task %q in workflow %q: %w", id, workflowID, ErrNotFound)
		}
		task.Order = pos
	}
	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}
	return wf, nil
}

// SetTaskStatus updates a task's status, maintains completedAt, recomputes
// progress, emits the matching task event (with the optional note in its
// payload), and drives the advisory workflow-status automation:
// starting a task promotes a draft/ready workflow to active; completing the
// last open task promotes an active workflow to completed.
func (fs *FileStore) SetTaskStatus(workflowID, taskID string, status TaskStatus, note string) (*Workflow, *Task, error) {
	if err := ValidateTaskStatus(status); err != nil {
		return nil, nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, nil, err
	}
	task := FindTask(wf, taskID)
	if task == nil {
		return nil, nil, fmt.Errorf("task %q in workflow %q: %w", taskID, workflowID, ErrNotFound)
	}

	applyTaskStatus(task, status)
	wf.Progress = ComputeProgress(wf.Tasks)

	payload := map[string]any{"title": task.Title, "task_id": task.ID, "status": string(status)}
	if note != "" {
		payload["note"] = note
	}

	var followUp EventType
	switch {
	case status == TaskInProgress && (wf.Status == StatusDraft || wf.Status == StatusReady):
		wf.Status = StatusActive
		followUp = EventWorkflowStarted
	case wf.Status == StatusActive && wf.Progress.Total > 0 && wf.Progress.Completed == wf.Progress.Total:
		wf.Status = StatusCompleted
		followUp = EventWorkflowCompleted
	}
	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

	if err := fs.saveWorkflow(wf); err != nil {
		return nil, nil, err
	}

	if evType, ok := taskEvent(status); ok {
		if err := fs.appendEvent(wf.ID, evType, payload); err != nil {
			return nil, nil, err
		}
	}
	if followUp != "" {
		if err := fs.appendEvent(wf.ID, followUp, map[string]any{"title": wf.Title}); err != nil {
			return nil, nil, err
		}
	}

	result := *task
	return wf, &result, nil
}

// DelegateTask marks a task as delegated to an external agent: a
// bookkeeping operation that sets in_progress and records who took it.
// No agent is actually invoked here.
func (fs *FileStore) DelegateTask(workflowID, taskID, agentType, instructions string) (*Task, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	task := FindTask(wf, taskID)
	if task == nil {
		return nil, fmt.Errorf("task %q in workflow %q: %w", taskID, workflowID, ErrNotFound)
	}

	applyTaskStatus(task, TaskInProgress)
	wf.Progress = ComputeProgress(wf.Tasks)
	if wf.Status == StatusDraft || wf.Status == StatusReady {
		wf.Status = StatusActive
	}
	wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

	if err := fs.saveWorkflow(wf); err != nil {
		return nil, err
	}

	payload := map[string]any{"title": task.Title, "task_id": task.ID, "delegated_to": agentType}
	if instructions != "" {
		payload["instructions"] = instructions
	}
	if err := fs.appendEvent(wf.ID, EventTaskStarted, payload); err != nil {
		return nil, err
	}

	result := *task
	return &result, nil
}

// applyTaskStatus sets the status and keeps the completedAt invariant:
// non-empty iff completed.
func applyTaskStatus(task *Task, status TaskStatus) {
	task.Status = status
	if status == TaskCompleted {
		task.CompletedAt = timeNow().UTC().Format(time.RFC3339)
	} else {
		task.CompletedAt = ""
	}
}

// taskEvent maps a task status to its history event, if any. Statuses
// outside the intended flow (verifying, review, blocked, pending) are
// storable but leave no log entry.
func taskEvent(s TaskStatus) (EventType, bool) {
	switch s {
	case TaskInProgress:
		return EventTaskStarted, true
	case TaskCompleted:
		return EventTaskCompleted, true
	case TaskFailed:
		return EventTaskFailed, true
	case TaskSkipped:
		return EventTaskSkipped, true
	}
	return "", false
}
