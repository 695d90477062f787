package workflow

import (
	"fmt"
	"os"
	"time"

	"github.com/magicnote/magic-note/internal/storage"
)

// CreateCheckpoint captures a deep snapshot of the current workflow state.
// Checkpoints are immutable once written.
func (fs *FileStore) CreateCheckpoint(workflowID, notes string, reason CheckpointReason) (*Checkpoint, error) {
	if reason == "" {
		reason = ReasonManual
	}
	if err := ValidateReason(reason); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}

	cp := Checkpoint{
		ID:         newID(),
		WorkflowID: workflowID,
		Reason:     reason,
		Notes:      notes,
		Snapshot: Snapshot{
			Status:   wf.Status,
			Progress: wf.Progress,
			Tasks:    cloneTasks(wf.Tasks),
		},
		CreatedAt: timeNow().UTC().Format(time.RFC3339),
	}

	checkpoints, err := fs.loadCheckpoints(workflowID)
	if err != nil {
		return nil, err
	}
	checkpoints = append(checkpoints, cp)
	if err := fs.saveCheckpoints(workflowID, checkpoints); err != nil {
		return nil, err
	}

	payload := map[string]any{"checkpoint_id": cp.ID, "reason": string(reason)}
	if notes != "" {
		payload["title"] = notes
	}
	if err := fs.appendEvent(workflowID, EventCheckpointCreated, payload); err != nil {
		return nil, err
	}
	return &cp, nil
}

// ListCheckpoints returns a workflow's checkpoints, newest first.
func (fs *FileStore) ListCheckpoints(workflowID string) ([]Checkpoint, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.loadWorkflow(workflowID); err != nil {
		return nil, err
	}
	checkpoints, err := fs.loadCheckpoints(workflowID)
	if err != nil {
		return nil, err
	}

	// Stored oldest-first; reverse for presentation.
	out := make([]Checkpoint, len(checkpoints))
	for i, cp := range checkpoints {
		out[len(checkpoints)-1-i] = cp
	}
	return out, nil
}

// LatestCheckpoint returns the most recent checkpoint, or nil if none exist.
func (fs *FileStore) LatestCheckpoint(workflowID string) (*Checkpoint, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.loadWorkflow(workflowID); err != nil {
		return nil, err
	}
	checkpoints, err := fs.loadCheckpoints(workflowID)
	if err != nil {
		return nil, err
	}
	if len(checkpoints) == 0 {
		return nil, nil
	}
	cp := checkpoints[len(checkpoints)-1]
	return &cp, nil
}

// RestoreCheckpoint overwrites the live workflow state (status, progress,
// tasks) with a checkpoint's snapshot. This is a full overwrite, not a
// merge: anything done after the checkpoint and not itself checkpointed
// is lost. Intervening checkpoints are untouched.
func (fs *FileStore) RestoreCheckpoint(workflowID, checkpointID string) (*Workflow, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	wf, err := fs.loadWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	checkpoints, err := fs.loadCheckpoints(workflowID)
	if err != nil {
		return nil, err
	}

	for _, cp := range checkpoints {
		if cp.ID != checkpointID {
			continue
		}
		wf.Status = cp.Snapshot.Status
		wf.Progress = cp.Snapshot.Progress
		wf.Tasks = cloneTasks(cp.Snapshot.Tasks)
		wf.UpdatedAt = timeNow().UTC().Format(time.RFC3339)

		if err := fs.saveWorkflow(wf); err != nil {
			return nil, err
		}
		return wf, nil
	}
	return nil, fmt.Errorf("checkpoint %q in workflow %q: %w", checkpointID, workflowID, ErrNotFound)
}

// loadCheckpoints reads the checkpoint list, oldest first. Caller must hold
// the mutex. A missing file is an empty list.
func (fs *FileStore) loadCheckpoints(workflowID string) ([]Checkpoint, error) {
	var checkpoints []Checkpoint
	if err := storage.ReadJSON(fs.checkpointsPath(workflowID), &checkpoints); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading checkpoints for %q: %w", workflowID, err)
	}
	return checkpoints, nil
}

// saveCheckpoints persists the checkpoint list. Caller must hold the mutex.
func (fs *FileStore) saveCheckpoints(workflowID string, checkpoints []Checkpoint) error {
	if err := storage.WriteJSON(fs.checkpointsPath(workflowID), checkpoints); err != nil {
		return fmt.Errorf("writing checkpoints for %q: %w", workflowID, err)
	}
	return nil
}
